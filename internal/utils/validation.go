package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/scheduler"
)

// MaxRangeDays 限制一次查询或导出的日期跨度
const MaxRangeDays = 366

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日期 %q 格式错误，应为 YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// ParseDateRange 解析闭区间 [from, to]，两端都必须给出
func ParseDateRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 缺少开始日期或结束日期", domain.ErrInvalidInput)
	}

	fromDate, err := ParseDate(from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := ParseDate(to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if fromDate.After(toDate) {
		return time.Time{}, time.Time{}, domain.ErrInvalidRange
	}
	if toDate.Sub(fromDate) > MaxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 日期跨度不能超过 %d 天", domain.ErrInvalidRange, MaxRangeDays)
	}

	return fromDate, toDate, nil
}

// ValidateJobPosting 检查招聘信息的工作时间和工作日能否用于生成班次
func ValidateJobPosting(posting *domain.JobPosting, weekdays scheduler.WeekdayTable) error {
	start, err := domain.ParseClock(posting.StartTime)
	if err != nil {
		return fmt.Errorf("招聘信息 %d 的开始时间格式错误: %w", posting.ID, err)
	}
	end, err := domain.ParseClock(posting.EndTime)
	if err != nil {
		return fmt.Errorf("招聘信息 %d 的结束时间格式错误: %w", posting.ID, err)
	}
	if start == end {
		return fmt.Errorf("招聘信息 %d 的开始时间和结束时间不能相同", posting.ID)
	}

	if _, err := scheduler.Horizon(posting.DurationCategory); err != nil {
		return fmt.Errorf("招聘信息 %d: %w", posting.ID, err)
	}

	days, err := weekdays.Resolve(posting.Weekdays)
	if err != nil {
		return fmt.Errorf("招聘信息 %d: %w", posting.ID, err)
	}
	if len(days) != len(posting.Weekdays) {
		return fmt.Errorf("招聘信息 %d 中存在重复的工作日", posting.ID)
	}

	if posting.HourlyWage < 0 {
		return fmt.Errorf("招聘信息 %d 的时薪不能为负数", posting.ID)
	}

	return nil
}
