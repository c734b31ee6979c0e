package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// WeekdayTable 把招聘信息里的星期写法映射到 time.Weekday
// 招聘子系统存的是本地化的写法，生成器只认这张表，测试时可以换成任意写法
type WeekdayTable map[string]time.Weekday

var DefaultWeekdayTable = WeekdayTable{
	"MON": time.Monday, "MONDAY": time.Monday, "周一": time.Monday, "星期一": time.Monday, "월": time.Monday,
	"TUE": time.Tuesday, "TUESDAY": time.Tuesday, "周二": time.Tuesday, "星期二": time.Tuesday, "화": time.Tuesday,
	"WED": time.Wednesday, "WEDNESDAY": time.Wednesday, "周三": time.Wednesday, "星期三": time.Wednesday, "수": time.Wednesday,
	"THU": time.Thursday, "THURSDAY": time.Thursday, "周四": time.Thursday, "星期四": time.Thursday, "목": time.Thursday,
	"FRI": time.Friday, "FRIDAY": time.Friday, "周五": time.Friday, "星期五": time.Friday, "금": time.Friday,
	"SAT": time.Saturday, "SATURDAY": time.Saturday, "周六": time.Saturday, "星期六": time.Saturday, "토": time.Saturday,
	"SUN": time.Sunday, "SUNDAY": time.Sunday, "周日": time.Sunday, "星期日": time.Sunday, "星期天": time.Sunday, "일": time.Sunday,
}

// Resolve 把一组星期写法解析成集合，遇到无法识别的写法直接报错
func (t WeekdayTable) Resolve(tokens []string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool, len(tokens))
	for _, token := range tokens {
		key := strings.ToUpper(strings.TrimSpace(token))
		day, ok := t[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidWeekday, token)
		}
		days[day] = true
	}
	return days, nil
}

// horizonDays 是各工作周期对应的生成天数，ONE_DAY 单独处理
var horizonDays = map[domain.DurationCategory]int{
	domain.DurationWithinWeek:       7,
	domain.DurationOneMonth:         30,
	domain.DurationOneToThreeMonths: 90,
	domain.DurationThreeToSixMonths: 180,
	domain.DurationLongTerm:         365,
}

// oneDaySearchLimit 是 ONE_DAY 寻找下一个匹配星期时最多向后看的天数
const oneDaySearchLimit = 7
