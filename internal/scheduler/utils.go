package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// Horizon 返回工作周期对应的天数，ONE_DAY 返回 0
func Horizon(category domain.DurationCategory) (int, error) {
	if category == domain.DurationOneDay {
		return 0, nil
	}
	days, ok := horizonDays[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, category)
	}
	return days, nil
}

// CountMatchingDays 统计 [start, start+horizon] 内星期落在 days 中的日期数
func CountMatchingDays(start time.Time, horizon int, days map[time.Weekday]bool) int {
	cnt := 0
	for i := 0; i <= horizon; i++ {
		if days[start.AddDate(0, 0, i).Weekday()] {
			cnt++
		}
	}
	return cnt
}
