package attendance

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

type Action string

const (
	ActionCheckIn  Action = "CHECK_IN"
	ActionCheckOut Action = "CHECK_OUT"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCheckIn, ActionCheckOut:
		return Action(s), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAction, s)
	}
}

// Policy 根据当前时间、班次时间窗口和已有的考勤记录决定签到签退的结果，不做任何持久化
type Policy struct {
	Location *time.Location
	// AcceptAfterEnd 为 true 时，班次结束后（扫描之前）的签到仍然按迟到处理；为 false 时直接拒绝
	AcceptAfterEnd bool
}

type Decision struct {
	Status      domain.WorkStatus
	Message     string
	CheckInAt   *time.Time
	CheckOutAt  *time.Time
	IsLate      bool
	LateMinutes int32
}

func (p Policy) Decide(shift *domain.Shift, action Action, now time.Time) (*Decision, error) {
	switch action {
	case ActionCheckIn:
		return p.decideCheckIn(shift, now)
	case ActionCheckOut:
		return p.decideCheckOut(shift, now)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}
}

func (p Policy) decideCheckIn(shift *domain.Shift, now time.Time) (*Decision, error) {
	if shift.Record.CheckedIn() {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if err := domain.CanTransition(shift.Status, domain.WorkStatusPresent, domain.CauseCheckIn); err != nil {
		return nil, err
	}

	start, err := shift.ScheduledStart(p.Location)
	if err != nil {
		return nil, err
	}
	end, err := shift.EffectiveEnd(p.Location)
	if err != nil {
		return nil, err
	}
	if !p.AcceptAfterEnd && now.After(end) {
		return nil, domain.ErrShiftEnded
	}

	checkInAt := now
	d := &Decision{
		Status:    domain.WorkStatusPresent,
		CheckInAt: &checkInAt,
	}

	// 恰好在开始时间签到不算迟到
	if now.After(start) {
		d.Status = domain.WorkStatusLate
		d.IsLate = true
		d.LateMinutes = int32(now.Sub(start) / time.Minute)
	}

	d.Message = fmt.Sprintf("签到成功，当前状态为 %s", d.Status)
	if d.IsLate {
		d.Message = fmt.Sprintf("签到成功，当前状态为 %s（迟到 %d 分钟）", d.Status, d.LateMinutes)
	}

	return d, nil
}

func (p Policy) decideCheckOut(shift *domain.Shift, now time.Time) (*Decision, error) {
	if !shift.Record.CheckedIn() {
		return nil, domain.ErrNotCheckedIn
	}
	if shift.Record.CheckedOut() {
		return nil, domain.ErrAlreadyCheckedOut
	}
	if err := domain.CanTransition(shift.Status, domain.WorkStatusCompleted, domain.CauseCheckOut); err != nil {
		return nil, err
	}
	// 与签到同一时刻签退记 0 分钟，只有时间倒退才拒绝
	if now.Before(*shift.Record.CheckInAt) {
		return nil, fmt.Errorf("%w: 签退时间不能早于签到时间", domain.ErrInvalidInput)
	}

	// 签退不受计划结束时间限制，早退、加班都按实际时间记录
	checkInAt := *shift.Record.CheckInAt
	checkOutAt := now
	worked := int64(checkOutAt.Sub(checkInAt) / time.Minute)

	return &Decision{
		Status:      domain.WorkStatusCompleted,
		Message:     fmt.Sprintf("签退成功，当前状态为 %s，本次工作 %d 分钟", domain.WorkStatusCompleted, worked),
		CheckInAt:   &checkInAt,
		CheckOutAt:  &checkOutAt,
		IsLate:      shift.Record.IsLate,
		LateMinutes: shift.Record.LateMinutes,
	}, nil
}

// Apply 把决定写进考勤记录的副本，原记录不变；记录不存在时新建
func (d *Decision) Apply(shift *domain.Shift) *domain.AttendanceRecord {
	record := &domain.AttendanceRecord{ShiftID: shift.ID}
	if shift.Record != nil {
		copied := *shift.Record
		record = &copied
	}

	record.CheckInAt = d.CheckInAt
	record.CheckOutAt = d.CheckOutAt
	record.IsLate = d.IsLate
	record.LateMinutes = d.LateMinutes

	return record
}
