package attendance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/scheduler"
)

// Directory 是账户、招聘、申请子系统提供的只读查询
type Directory interface {
	GetUserByID(id int64) (*domain.User, error)
	GetAcceptedApplication(id int64) (*domain.Application, error)
	GetJobPosting(id int64) (*domain.JobPosting, error)
}

// ShiftStore 持久化班次和考勤记录
// 所有修改状态的方法都以 shift.Version 做比较交换，版本不一致时返回 domain.ErrConcurrentUpdate
type ShiftStore interface {
	CountShiftsByApplication(applicationID int64) (int, error)
	CreateShifts(shifts []*domain.Shift) error
	GetShiftByID(id int64) (*domain.Shift, error)
	GetShiftsByWorker(workerID int64, from, to time.Time) ([]*domain.Shift, error)
	GetShiftsByEmployer(employerID int64, from, to time.Time) ([]*domain.Shift, error)
	UpdateShiftStatus(shift *domain.Shift, status domain.WorkStatus) error
	SaveAttendance(shift *domain.Shift, status domain.WorkStatus, record *domain.AttendanceRecord) error
}

// Notifier 发送异步通知，失败只记日志，不影响主流程
type Notifier interface {
	ShiftsGenerated(ctx context.Context, worker *domain.User, shifts []*domain.Shift) error
	ShiftAbsent(ctx context.Context, shift *domain.Shift) error
}

// Caller 是已经通过认证的调用者
type Caller struct {
	ID   int64
	Role domain.Role
}

type Options struct {
	Location          *time.Location
	AcceptAfterEnd    bool
	OverrideTodayOnly bool
	Weekdays          scheduler.WeekdayTable
}

type Service struct {
	shifts    ShiftStore
	directory Directory
	notifier  Notifier
	scheduler *scheduler.Scheduler
	policy    Policy
	loc       *time.Location

	overrideTodayOnly bool
}

func NewService(shifts ShiftStore, directory Directory, notifier Notifier, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		shifts:    shifts,
		directory: directory,
		notifier:  notifier,
		scheduler: scheduler.New(opts.Weekdays, loc),
		policy: Policy{
			Location:       loc,
			AcceptAfterEnd: opts.AcceptAfterEnd,
		},
		loc:               loc,
		overrideTodayOnly: opts.OverrideTodayOnly,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// GenerateShiftsForApplication 为已录用的申请一次性生成全部班次
// 同一个申请第二次调用会返回 domain.ErrDuplicateShifts，而不是重复排班
func (s *Service) GenerateShiftsForApplication(ctx context.Context, caller Caller, applicationID int64) ([]*domain.Shift, error) {
	app, err := s.directory.GetAcceptedApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleManager || caller.ID != app.EmployerID {
		return nil, fmt.Errorf("%w: 只有录用方可以生成班次", domain.ErrForbidden)
	}

	worker, err := s.directory.GetUserByID(app.WorkerID)
	if err != nil {
		return nil, err
	}
	if !worker.IsActive {
		return nil, domain.ErrWorkerInactive
	}

	posting, err := s.directory.GetJobPosting(app.JobPostingID)
	if err != nil {
		return nil, err
	}

	cnt, err := s.shifts.CountShiftsByApplication(app.ID)
	if err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, domain.ErrDuplicateShifts
	}

	shifts, err := s.scheduler.Generate(app, posting)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return shifts, nil
	}

	// 并发的重复请求由 (application_id, work_date) 唯一约束兜底，整批回滚
	if err := s.shifts.CreateShifts(shifts); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.ShiftsGenerated(ctx, worker, shifts); err != nil {
			slog.Error("无法发送排班通知", "applicationID", app.ID, "error", err)
		}
	}

	return shifts, nil
}

func (s *Service) GetShiftsInRange(caller Caller, from, to time.Time) ([]*domain.Shift, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	switch caller.Role {
	case domain.RoleWorker:
		return s.shifts.GetShiftsByWorker(caller.ID, from, to)
	case domain.RoleManager:
		return s.shifts.GetShiftsByEmployer(caller.ID, from, to)
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *Service) GetShiftDetail(caller Caller, shiftID int64) (*domain.Shift, error) {
	shift, err := s.shifts.GetShiftByID(shiftID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// SetShiftStatus 是管理者的人工修改，COMPLETED 的班次不能再改，ABSENT 的可以修正
func (s *Service) SetShiftStatus(caller Caller, shiftID int64, status domain.WorkStatus, now time.Time) (*domain.Shift, error) {
	shift, err := s.shifts.GetShiftByID(shiftID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleManager {
		return nil, fmt.Errorf("%w: 只有管理者可以修改班次状态", domain.ErrForbidden)
	}
	if shift.EmployerID != caller.ID {
		return nil, domain.ErrNotShiftEmployer
	}

	if err := domain.CanTransition(shift.Status, status, domain.CauseOverride); err != nil {
		return nil, err
	}
	if s.overrideTodayOnly && !shift.IsOn(now, s.loc) {
		return nil, domain.ErrOverrideNotToday
	}

	if err := s.shifts.UpdateShiftStatus(shift, status); err != nil {
		return nil, err
	}
	shift.Status = status

	return shift, nil
}

type CheckResult struct {
	Status     domain.WorkStatus `json:"status"`
	Message    string            `json:"message"`
	CheckInAt  *time.Time        `json:"checkInTime"`
	CheckOutAt *time.Time        `json:"checkOutTime"`
	Shift      *domain.Shift     `json:"shift"`
}

// CheckInOut 处理员工的签到、签退，考勤记录和班次状态在同一个事务中写入
func (s *Service) CheckInOut(workerID, shiftID int64, action Action, now time.Time) (*CheckResult, error) {
	shift, err := s.shifts.GetShiftByID(shiftID)
	if err != nil {
		return nil, err
	}
	if shift.WorkerID != workerID {
		return nil, domain.ErrNotShiftWorker
	}

	decision, err := s.policy.Decide(shift, action, now)
	if err != nil {
		return nil, err
	}

	record := decision.Apply(shift)
	if err := s.shifts.SaveAttendance(shift, decision.Status, record); err != nil {
		return nil, err
	}
	shift.Status = decision.Status
	shift.Record = record

	return &CheckResult{
		Status:     decision.Status,
		Message:    decision.Message,
		CheckInAt:  decision.CheckInAt,
		CheckOutAt: decision.CheckOutAt,
		Shift:      shift,
	}, nil
}

type TodayStatus struct {
	Shift         *domain.Shift `json:"shift"`
	CanCheckIn    bool          `json:"canCheckIn"`
	CanCheckOut   bool          `json:"canCheckOut"`
	StatusMessage string        `json:"statusMessage"`
}

// GetTodayStatus 返回员工今天应当操作的班次：优先已签到未签退的，其次还能签到的，最后是当天最后一个班次
// 昨天开始的跨夜班次在结束之前也算作今天的班次
func (s *Service) GetTodayStatus(workerID int64, now time.Time) (*TodayStatus, error) {
	today := domain.DateOf(now, s.loc)
	loaded, err := s.shifts.GetShiftsByWorker(workerID, today.AddDate(0, 0, -1), today)
	if err != nil {
		return nil, err
	}

	var current *domain.Shift
	for _, shift := range loaded {
		if shift.Record.CheckedIn() && !shift.Record.CheckedOut() {
			current = shift
			break
		}
	}

	shifts := make([]*domain.Shift, 0, len(loaded))
	for _, shift := range loaded {
		if shift.IsOn(today, s.loc) || s.stillRunning(shift, now) {
			shifts = append(shifts, shift)
		}
	}

	if current == nil && len(shifts) == 0 {
		return &TodayStatus{StatusMessage: "今天没有班次"}, nil
	}

	if current == nil {
		for _, shift := range shifts {
			if _, err := s.policy.Decide(shift, ActionCheckIn, now); err == nil {
				current = shift
				break
			}
		}
	}
	if current == nil {
		current = shifts[len(shifts)-1]
	}

	_, checkInErr := s.policy.Decide(current, ActionCheckIn, now)
	_, checkOutErr := s.policy.Decide(current, ActionCheckOut, now)

	status := &TodayStatus{
		Shift:       current,
		CanCheckIn:  checkInErr == nil,
		CanCheckOut: checkOutErr == nil,
	}
	status.StatusMessage = todayMessage(current, status)

	return status, nil
}

// stillRunning 判断班次的结束时间是否还没到
func (s *Service) stillRunning(shift *domain.Shift, now time.Time) bool {
	end, err := shift.EffectiveEnd(s.loc)
	if err != nil {
		return false
	}
	return !now.After(end)
}

func todayMessage(shift *domain.Shift, status *TodayStatus) string {
	switch {
	case status.CanCheckIn:
		return fmt.Sprintf("今天 %s-%s 有班次，可以签到", shift.StartTime, shift.EndTime)
	case status.CanCheckOut:
		return fmt.Sprintf("已签到，当前状态为 %s，可以签退", shift.Status)
	case shift.Status == domain.WorkStatusCompleted:
		return "今天的班次已完成"
	case shift.Status == domain.WorkStatusAbsent:
		return "今天的班次已被判定为缺勤"
	default:
		return fmt.Sprintf("当前状态为 %s，暂时无法签到或签退", shift.Status)
	}
}

// GetWorkedMinutes 汇总员工在 [from, to] 内的工作分钟数和预计收入
func (s *Service) GetWorkedMinutes(workerID int64, from, to time.Time) (*domain.WorkedMinutesReport, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	shifts, err := s.shifts.GetShiftsByWorker(workerID, from, to)
	if err != nil {
		return nil, err
	}

	return Summarize(workerID, from, to, shifts), nil
}

// ExportWorkedMinutes 把工时汇总和明细写成 xlsx，员工只能导出自己的，管理者只能导出本公司的班次
func (s *Service) ExportWorkedMinutes(w io.Writer, caller Caller, workerID int64, from, to time.Time) error {
	if from.After(to) {
		return domain.ErrInvalidRange
	}

	var shifts []*domain.Shift
	var err error

	switch caller.Role {
	case domain.RoleWorker:
		if caller.ID != workerID {
			return domain.ErrNotShiftWorker
		}
		shifts, err = s.shifts.GetShiftsByWorker(workerID, from, to)
	case domain.RoleManager:
		var all []*domain.Shift
		all, err = s.shifts.GetShiftsByEmployer(caller.ID, from, to)
		for _, shift := range all {
			if shift.WorkerID == workerID {
				shifts = append(shifts, shift)
			}
		}
	default:
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}

	report := Summarize(workerID, from, to, shifts)
	return WriteWorkedMinutesXLSX(w, report, shifts, s.loc)
}

func authorize(caller Caller, shift *domain.Shift) error {
	switch caller.Role {
	case domain.RoleWorker:
		if shift.WorkerID != caller.ID {
			return domain.ErrNotShiftWorker
		}
	case domain.RoleManager:
		if shift.EmployerID != caller.ID {
			return domain.ErrNotShiftEmployer
		}
	default:
		return domain.ErrForbidden
	}
	return nil
}
