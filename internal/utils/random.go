package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(role domain.Role, emailDomainName string) *domain.User {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)

	return &domain.User{
		Username: username,
		FullName: fullName,
		Email:    username + "@" + emailDomainName,
		Role:     role,
	}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var weekdayTokens = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// 用 Fisher-Yates 洗牌算法来生成随机的工作日
func GenerateRandomWeekdays() []string {
	days := append([]string{}, weekdayTokens...)

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(len(days)) + 1

	return days[:n]
}

var durationCategories = []domain.DurationCategory{
	domain.DurationOneDay,
	domain.DurationWithinWeek,
	domain.DurationOneMonth,
	domain.DurationOneToThreeMonths,
	domain.DurationThreeToSixMonths,
	domain.DurationLongTerm,
}

var positions = []string{"收银员", "服务员", "仓库理货", "咖啡师", "前台接待", "配送员"}
var jobTypes = []string{"兼职", "临时工", "实习"}
var districts = []string{"天河区", "海珠区", "越秀区", "番禺区", "黄埔区"}

func GenerateRandomCompanyName() string {
	return "公司" + GenerateRandomID(2, 3)
}

// GenerateRandomJobPosting 随机生成一个招聘信息，约五分之一是跨夜班
func GenerateRandomJobPosting(employerID int64, companyName string) *domain.JobPosting {
	startHour := rand.Intn(24)
	length := rand.Intn(8) + 2
	endHour := startHour + length
	if rand.Intn(5) != 0 && endHour >= 24 {
		startHour = 24 - length - 1
		endHour = startHour + length
	}

	return &domain.JobPosting{
		EmployerID:       employerID,
		Weekdays:         GenerateRandomWeekdays(),
		StartTime:        fmt.Sprintf("%02d:%02d:00", startHour, rand.Intn(2)*30),
		EndTime:          fmt.Sprintf("%02d:%02d:00", endHour%24, rand.Intn(2)*30),
		DurationCategory: durationCategories[rand.Intn(len(durationCategories))],
		Position:         positions[rand.Intn(len(positions))],
		JobType:          jobTypes[rand.Intn(len(jobTypes))],
		Location:         districts[rand.Intn(len(districts))],
		CompanyName:      companyName,
		HourlyWage:       int64(rand.Intn(30)+20) * 100,
	}
}
