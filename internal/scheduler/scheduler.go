package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// Scheduler 根据已录用的申请和招聘信息中的每周模式展开出具体日期的班次
type Scheduler struct {
	weekdays WeekdayTable
	loc      *time.Location
}

func New(weekdays WeekdayTable, loc *time.Location) *Scheduler {
	if weekdays == nil {
		weekdays = DefaultWeekdayTable
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		weekdays: weekdays,
		loc:      loc,
	}
}

// Generate 从申请创建日开始逐日遍历周期（含首尾两天），为每个匹配星期的日期生成一个 SCHEDULED 班次
// 星期集合为空时返回空切片而不是错误，由调用方决定是否提示
func (s *Scheduler) Generate(app *domain.Application, posting *domain.JobPosting) ([]*domain.Shift, error) {
	if app.JobPostingID != posting.ID {
		return nil, fmt.Errorf("%w: 申请 %d 不属于招聘信息 %d", domain.ErrInvalidInput, app.ID, posting.ID)
	}

	// 先校验配置类错误，避免悄悄生成 0 天
	horizon, err := Horizon(posting.DurationCategory)
	if err != nil {
		return nil, err
	}
	days, err := s.weekdays.Resolve(posting.Weekdays)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseClock(posting.StartTime); err != nil {
		return nil, err
	}
	if _, err := domain.ParseClock(posting.EndTime); err != nil {
		return nil, err
	}

	shifts := make([]*domain.Shift, 0)
	if len(days) == 0 {
		return shifts, nil
	}

	start := domain.DateOf(app.CreatedAt, s.loc)

	if posting.DurationCategory == domain.DurationOneDay {
		// 只取创建日当天或之后第一个匹配的日期
		for i := 0; i < oneDaySearchLimit; i++ {
			date := start.AddDate(0, 0, i)
			if days[date.Weekday()] {
				shift, err := s.newShift(app, posting, date)
				if err != nil {
					return nil, err
				}
				shifts = append(shifts, shift)
				break
			}
		}
		return shifts, nil
	}

	for i := 0; i <= horizon; i++ {
		date := start.AddDate(0, 0, i)
		if !days[date.Weekday()] {
			continue
		}
		shift, err := s.newShift(app, posting, date)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	return shifts, nil
}

func (s *Scheduler) newShift(app *domain.Application, posting *domain.JobPosting, date time.Time) (*domain.Shift, error) {
	shift := &domain.Shift{
		ApplicationID: app.ID,
		JobPostingID:  posting.ID,
		WorkerID:      app.WorkerID,
		EmployerID:    app.EmployerID,
		WorkDate:      date,
		StartTime:     normalizeClock(posting.StartTime),
		EndTime:       normalizeClock(posting.EndTime),
		Position:      posting.Position,
		JobType:       posting.JobType,
		Location:      posting.Location,
		CompanyName:   posting.CompanyName,
		HourlyWage:    posting.HourlyWage,
		Status:        domain.WorkStatusScheduled,
	}

	// 生成时就物化结束时间戳，扫描时不需要再现场计算
	endAt, err := shift.ScheduledEnd(s.loc)
	if err != nil {
		return nil, err
	}
	shift.EndAt = &endAt

	return shift, nil
}

// normalizeClock 把 "09:00" 统一成 "09:00:00"，调用前已经校验过格式
func normalizeClock(s string) string {
	offset, _ := domain.ParseClock(s)
	return time.Time{}.Add(offset).Format(domain.ClockLayout)
}
