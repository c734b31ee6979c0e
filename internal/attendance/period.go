package attendance

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// WeekToDate 返回本周一到今天的日期区间（含首尾）
func WeekToDate(now time.Time, loc *time.Location) (time.Time, time.Time) {
	today := domain.DateOf(now, loc)
	offset := (int(today.Weekday()) + 6) % 7 // 周一为 0
	return today.AddDate(0, 0, -offset), today
}

// MonthToDate 返回本月一号到今天的日期区间（含首尾）
func MonthToDate(now time.Time, loc *time.Location) (time.Time, time.Time) {
	today := domain.DateOf(now, loc)
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc), today
}

func PeriodRange(period string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	switch period {
	case PeriodWeek:
		from, to := WeekToDate(now, loc)
		return from, to, nil
	case PeriodMonth:
		from, to := MonthToDate(now, loc)
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 无效的统计周期 %q", domain.ErrInvalidInput, period)
	}
}
