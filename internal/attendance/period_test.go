package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

func TestWeekToDate(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		from string
		to   string
	}{
		{name: "monday", now: at(10, 12, 0), from: "2025-03-10", to: "2025-03-10"},
		{name: "wednesday", now: at(12, 23, 59), from: "2025-03-10", to: "2025-03-12"},
		{name: "sunday", now: at(16, 0, 0), from: "2025-03-10", to: "2025-03-16"},
		{name: "crosses month", now: time.Date(2025, 4, 2, 9, 0, 0, 0, testLoc), from: "2025-03-31", to: "2025-04-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := WeekToDate(tt.now, testLoc)
			assert.Equal(t, tt.from, from.Format(time.DateOnly))
			assert.Equal(t, tt.to, to.Format(time.DateOnly))
		})
	}
}

func TestMonthToDate(t *testing.T) {
	from, to := MonthToDate(at(12, 8, 0), testLoc)
	assert.Equal(t, "2025-03-01", from.Format(time.DateOnly))
	assert.Equal(t, "2025-03-12", to.Format(time.DateOnly))

	// UTC 的 3 月 31 日 20:00 在东八区已经是 4 月 1 日
	from, to = MonthToDate(time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC), testLoc)
	assert.Equal(t, "2025-04-01", from.Format(time.DateOnly))
	assert.Equal(t, "2025-04-01", to.Format(time.DateOnly))
}

func TestPeriodRange(t *testing.T) {
	from, to, err := PeriodRange(PeriodWeek, at(12, 8, 0), testLoc)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", from.Format(time.DateOnly))
	assert.Equal(t, "2025-03-12", to.Format(time.DateOnly))

	from, _, err = PeriodRange(PeriodMonth, at(12, 8, 0), testLoc)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", from.Format(time.DateOnly))

	_, _, err = PeriodRange("year", at(12, 8, 0), testLoc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
