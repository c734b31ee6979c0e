package domain

import "time"

type EmployerSubtotal struct {
	EmployerID  int64  `json:"employerID"`
	CompanyName string `json:"companyName"`
	ShiftCount  int    `json:"shiftCount"`
	Minutes     int64  `json:"minutes"`
	Earnings    int64  `json:"earnings"` // 货币最小单位
}

type WorkedMinutesReport struct {
	WorkerID      int64              `json:"workerID"`
	From          time.Time          `json:"from"`
	To            time.Time          `json:"to"`
	StatusCounts  map[WorkStatus]int `json:"statusCounts"`
	ByEmployer    []EmployerSubtotal `json:"byEmployer"`
	TotalMinutes  int64              `json:"totalMinutes"`
	TotalEarnings int64              `json:"totalEarnings"`
}
