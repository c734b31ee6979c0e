package domain

import (
	"fmt"
	"time"
)

type WorkStatus string

const (
	WorkStatusScheduled WorkStatus = "SCHEDULED"
	WorkStatusPresent   WorkStatus = "PRESENT"
	WorkStatusLate      WorkStatus = "LATE"
	WorkStatusAbsent    WorkStatus = "ABSENT"
	WorkStatusCompleted WorkStatus = "COMPLETED"
)

var WorkStatuses = []WorkStatus{
	WorkStatusScheduled,
	WorkStatusPresent,
	WorkStatusLate,
	WorkStatusAbsent,
	WorkStatusCompleted,
}

func ParseWorkStatus(s string) (WorkStatus, error) {
	for _, status := range WorkStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsTerminal 表示该状态不会再被自动流转（ABSENT 仍可被人工修正）
func (s WorkStatus) IsTerminal() bool {
	return s == WorkStatusAbsent || s == WorkStatusCompleted
}

// ClockLayout 是班次开始、结束时间的存储格式，与数据库 TIME 类型的文本格式一致
const ClockLayout = "15:04:05"

type Shift struct {
	ID            int64      `json:"id"`
	ApplicationID int64      `json:"applicationID"`
	JobPostingID  int64      `json:"jobPostingID"`
	WorkerID      int64      `json:"workerID"`
	EmployerID    int64      `json:"employerID"`
	WorkDate      time.Time  `json:"workDate"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
	EndAt         *time.Time `json:"endAt"` // 物化的结束时间戳，供缺勤扫描比较
	Position      string     `json:"position"`
	JobType       string     `json:"jobType"`
	Location      string     `json:"location"`
	CompanyName   string     `json:"companyName"`
	HourlyWage    int64      `json:"hourlyWage"`
	Status        WorkStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	Version       int32      `json:"-"`

	Record *AttendanceRecord `json:"attendanceRecord"`
}

// ParseClock 解析 "15:04:05" 或 "15:04" 格式的时间，返回当天零点起的偏移
func ParseClock(s string) (time.Duration, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// DateOf 取 t 在 loc 中的日期（零点）
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// at 把工作日期与时钟偏移组合成 loc 中的墙上时间，工作日期只取年月日
// 偏移拆成时分秒交给 time.Date，夏令时切换当天也不会错位一小时
func (s *Shift) at(offset time.Duration, loc *time.Location) time.Time {
	d := s.WorkDate
	days := int(offset / (24 * time.Hour))
	offset -= time.Duration(days) * 24 * time.Hour
	hour := int(offset / time.Hour)
	minute := int(offset % time.Hour / time.Minute)
	second := int(offset % time.Minute / time.Second)
	return time.Date(d.Year(), d.Month(), d.Day()+days, hour, minute, second, 0, loc)
}

func (s *Shift) ScheduledStart(loc *time.Location) (time.Time, error) {
	offset, err := ParseClock(s.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return s.at(offset, loc), nil
}

// ScheduledEnd 计算 工作日期 + 结束时间，结束时间不晚于开始时间时视为跨夜班次
func (s *Shift) ScheduledEnd(loc *time.Location) (time.Time, error) {
	startOffset, err := ParseClock(s.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	endOffset, err := ParseClock(s.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	if endOffset <= startOffset {
		endOffset += 24 * time.Hour
	}
	return s.at(endOffset, loc), nil
}

// EffectiveEnd 优先使用物化的结束时间戳，旧数据没有时再现场计算
func (s *Shift) EffectiveEnd(loc *time.Location) (time.Time, error) {
	if s.EndAt != nil {
		return *s.EndAt, nil
	}
	return s.ScheduledEnd(loc)
}

func (s *Shift) IsOn(date time.Time, loc *time.Location) bool {
	d := date.In(loc)
	return s.WorkDate.Year() == d.Year() && s.WorkDate.Month() == d.Month() && s.WorkDate.Day() == d.Day()
}
