package domain

import (
	"errors"
	"fmt"
)

// 错误分类，具体的错误都通过 %w 包装其中之一，调用方用 errors.Is 判断类别
var (
	ErrNotFound     = errors.New("资源不存在")
	ErrForbidden    = errors.New("权限不足")
	ErrConflict     = errors.New("状态冲突")
	ErrInvalidState = errors.New("当前状态不允许该操作")
	ErrInvalidInput = errors.New("参数错误")
)

var (
	ErrShiftNotFound       = fmt.Errorf("%w: 班次不存在", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("%w: 申请不存在或尚未录用", ErrNotFound)
	ErrJobPostingNotFound  = fmt.Errorf("%w: 招聘信息不存在", ErrNotFound)
	ErrWorkerNotFound      = fmt.Errorf("%w: 员工不存在", ErrNotFound)

	ErrNotShiftWorker   = fmt.Errorf("%w: 该班次不属于你", ErrForbidden)
	ErrNotShiftEmployer = fmt.Errorf("%w: 该班次不属于你的公司", ErrForbidden)
	ErrWorkerInactive   = fmt.Errorf("%w: 员工已离职", ErrForbidden)

	ErrDuplicateShifts   = fmt.Errorf("%w: 该申请已经生成过班次", ErrConflict)
	ErrAlreadyCheckedIn  = fmt.Errorf("%w: 已经签到", ErrConflict)
	ErrAlreadyCheckedOut = fmt.Errorf("%w: 已经签退", ErrConflict)
	ErrConcurrentUpdate  = fmt.Errorf("%w: 班次状态已被其他操作修改，请重试", ErrConflict)
	ErrShiftResolved     = fmt.Errorf("%w: 班次已被判定为缺勤", ErrConflict)

	ErrNotCheckedIn      = fmt.Errorf("%w: 尚未签到", ErrInvalidState)
	ErrShiftCompleted    = fmt.Errorf("%w: 班次已完成，不能再修改状态", ErrInvalidState)
	ErrShiftEnded        = fmt.Errorf("%w: 班次已结束，不能再签到", ErrInvalidState)
	ErrOverrideNotToday  = fmt.Errorf("%w: 只能修改当天班次的状态", ErrInvalidState)
	ErrIllegalTransition = fmt.Errorf("%w: 非法的状态转换", ErrInvalidState)

	ErrInvalidWeekday  = fmt.Errorf("%w: 无法识别的星期", ErrInvalidInput)
	ErrInvalidDuration = fmt.Errorf("%w: 无法识别的工作周期", ErrInvalidInput)
	ErrInvalidClock    = fmt.Errorf("%w: 时间格式错误", ErrInvalidInput)
	ErrInvalidStatus   = fmt.Errorf("%w: 无效的班次状态", ErrInvalidInput)
	ErrInvalidAction   = fmt.Errorf("%w: 无效的考勤操作", ErrInvalidInput)
	ErrInvalidRange    = fmt.Errorf("%w: 开始日期不能晚于结束日期", ErrInvalidInput)
)
