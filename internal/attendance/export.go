package attendance

import (
	"io"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "汇总"
	detailSheet  = "明细"
)

// WriteWorkedMinutesXLSX 生成工资核算用的工时表，第一页按雇主汇总，第二页逐个班次列出
func WriteWorkedMinutesXLSX(w io.Writer, report *domain.WorkedMinutesReport, shifts []*domain.Shift, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return err
	}

	rows := [][]any{
		{"员工ID", report.WorkerID},
		{"开始日期", report.From.Format(time.DateOnly)},
		{"结束日期", report.To.Format(time.DateOnly)},
		{},
		{"雇主ID", "公司", "班次数", "工作分钟", "预计收入"},
	}
	for _, subtotal := range report.ByEmployer {
		rows = append(rows, []any{subtotal.EmployerID, subtotal.CompanyName, subtotal.ShiftCount, subtotal.Minutes, subtotal.Earnings})
	}
	rows = append(rows, []any{"合计", "", len(shifts), report.TotalMinutes, report.TotalEarnings})
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	rows = [][]any{
		{"班次ID", "日期", "公司", "岗位", "计划开始", "计划结束", "状态", "签到时间", "签退时间", "工作分钟", "时薪", "收入"},
	}
	for _, shift := range shifts {
		rows = append(rows, []any{
			shift.ID,
			shift.WorkDate.Format(time.DateOnly),
			shift.CompanyName,
			shift.Position,
			shift.StartTime,
			shift.EndTime,
			string(shift.Status),
			formatTimestamp(checkInOf(shift), loc),
			formatTimestamp(checkOutOf(shift), loc),
			shift.Record.WorkedMinutes(),
			shift.HourlyWage,
			ShiftEarnings(shift),
		})
	}
	if err := writeRows(f, detailSheet, rows); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func checkInOf(shift *domain.Shift) *time.Time {
	if shift.Record == nil {
		return nil
	}
	return shift.Record.CheckInAt
}

func checkOutOf(shift *domain.Shift) *time.Time {
	if shift.Record == nil {
		return nil
	}
	return shift.Record.CheckOutAt
}

func formatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(time.DateTime)
}
