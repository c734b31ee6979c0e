package attendance

import (
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// Earnings 把 Σ(分钟数 × 时薪) 折算成货币最小单位，在最后一次乘法后四舍五入（0.5 进位）
// 实时预估和工资单定稿都必须使用这个函数，保证两边的金额一致
func Earnings(minuteWage int64) int64 {
	if minuteWage <= 0 {
		return 0
	}
	return (minuteWage + 30) / 60
}

// ShiftEarnings 计算单个班次按实际工时得到的收入
func ShiftEarnings(shift *domain.Shift) int64 {
	return Earnings(shift.Record.WorkedMinutes() * shift.HourlyWage)
}

// Summarize 按状态计数，并按雇主汇总实际工作分钟数和预计收入
// 没有考勤记录或只签到未签退的班次计 0 分钟
func Summarize(workerID int64, from, to time.Time, shifts []*domain.Shift) *domain.WorkedMinutesReport {
	report := &domain.WorkedMinutesReport{
		WorkerID:     workerID,
		From:         from,
		To:           to,
		StatusCounts: make(map[domain.WorkStatus]int, len(domain.WorkStatuses)),
		ByEmployer:   make([]domain.EmployerSubtotal, 0),
	}
	for _, status := range domain.WorkStatuses {
		report.StatusCounts[status] = 0
	}

	subtotals := make(map[int64]*domain.EmployerSubtotal)
	minuteWages := make(map[int64]int64) // employerID -> Σ(分钟数 × 时薪)

	for _, shift := range shifts {
		report.StatusCounts[shift.Status]++

		subtotal, exists := subtotals[shift.EmployerID]
		if !exists {
			subtotal = &domain.EmployerSubtotal{
				EmployerID:  shift.EmployerID,
				CompanyName: shift.CompanyName,
			}
			subtotals[shift.EmployerID] = subtotal
		}

		minutes := shift.Record.WorkedMinutes()
		subtotal.ShiftCount++
		subtotal.Minutes += minutes
		minuteWages[shift.EmployerID] += minutes * shift.HourlyWage
	}

	for employerID, subtotal := range subtotals {
		subtotal.Earnings = Earnings(minuteWages[employerID])
		report.TotalMinutes += subtotal.Minutes
		report.TotalEarnings += subtotal.Earnings
		report.ByEmployer = append(report.ByEmployer, *subtotal)
	}

	sort.Slice(report.ByEmployer, func(i, j int) bool {
		return report.ByEmployer[i].EmployerID < report.ByEmployer[j].EmployerID
	})

	return report
}
