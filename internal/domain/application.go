package domain

import "time"

// 以下类型由招聘、申请子系统维护，考勤模块只读

type DurationCategory string

const (
	DurationOneDay           DurationCategory = "ONE_DAY"
	DurationWithinWeek       DurationCategory = "WITHIN_WEEK"
	DurationOneMonth         DurationCategory = "ONE_MONTH"
	DurationOneToThreeMonths DurationCategory = "ONE_TO_THREE_MONTHS"
	DurationThreeToSixMonths DurationCategory = "THREE_TO_SIX_MONTHS"
	DurationLongTerm         DurationCategory = "LONG_TERM"
)

type Application struct {
	ID           int64     `json:"id"`
	WorkerID     int64     `json:"workerID"`
	EmployerID   int64     `json:"employerID"`
	JobPostingID int64     `json:"jobPostingID"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

const ApplicationStatusAccepted = "ACCEPTED"

type JobPosting struct {
	ID               int64            `json:"id"`
	EmployerID       int64            `json:"employerID"`
	Weekdays         []string         `json:"weekdays"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	DurationCategory DurationCategory `json:"durationCategory"`
	Position         string           `json:"position"`
	JobType          string           `json:"jobType"`
	Location         string           `json:"location"`
	CompanyName      string           `json:"companyName"`
	HourlyWage       int64            `json:"hourlyWage"`
}
