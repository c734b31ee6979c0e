package attendance

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkedMinutesXLSX(t *testing.T) {
	done := completedShift(10, testEmployerID, 2500, 480)
	done.ID = 1
	pending := newDayShift(11)
	pending.ID = 2
	shifts := []*domain.Shift{done, pending}

	report := Summarize(testWorkerID, at(10, 0, 0), at(11, 0, 0), shifts)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkedMinutesXLSX(&buf, report, shifts, testLoc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, detailSheet}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"员工ID", "200"}, summary[0])
	assert.Equal(t, []string{"开始日期", "2025-03-10"}, summary[1])
	assert.Equal(t, []string{"100", "晨光便利店", "2", "480", "20000"}, summary[5])
	assert.Equal(t, []string{"合计", "", "2", "480", "20000"}, summary[6])

	detail, err := f.GetRows(detailSheet)
	require.NoError(t, err)
	require.Len(t, detail, 3)
	assert.Equal(t, "2025-03-10 09:00:00", detail[1][7])
	assert.Equal(t, "2025-03-10 17:00:00", detail[1][8])
	assert.Equal(t, "480", detail[1][9])
	assert.Equal(t, "20000", detail[1][11])
	assert.Equal(t, "SCHEDULED", detail[2][6])
	assert.Equal(t, "0", detail[2][9])
}
