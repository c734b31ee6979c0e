package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in       string
		expected time.Duration
		ok       bool
	}{
		{in: "09:00:00", expected: 9 * time.Hour, ok: true},
		{in: "09:30", expected: 9*time.Hour + 30*time.Minute, ok: true},
		{in: "23:59:59", expected: 23*time.Hour + 59*time.Minute + 59*time.Second, ok: true},
		{in: "00:00", expected: 0, ok: true},
		{in: "24:00", ok: false},
		{in: "9am", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShiftScheduledTimes(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	t.Run("day shift", func(t *testing.T) {
		shift := &Shift{WorkDate: date, StartTime: "09:00:00", EndTime: "17:00:00"}

		start, err := shift.ScheduledStart(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, loc), start)

		end, err := shift.ScheduledEnd(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 17, 0, 0, 0, loc), end)
	})

	t.Run("overnight shift ends next day", func(t *testing.T) {
		shift := &Shift{WorkDate: date, StartTime: "22:00:00", EndTime: "06:00:00"}

		end, err := shift.ScheduledEnd(loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 11, 6, 0, 0, 0, loc), end)
	})

	t.Run("materialized end wins", func(t *testing.T) {
		endAt := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)
		shift := &Shift{WorkDate: date, StartTime: "09:00:00", EndTime: "17:00:00", EndAt: &endAt}

		end, err := shift.EffectiveEnd(loc)
		require.NoError(t, err)
		assert.Equal(t, endAt, end)
	})

	t.Run("daylight saving day keeps wall clock", func(t *testing.T) {
		ny, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skip("没有时区数据库")
		}
		// 2025-03-09 凌晨两点夏令时开始
		shift := &Shift{WorkDate: time.Date(2025, 3, 9, 0, 0, 0, 0, ny), StartTime: "09:00:00", EndTime: "17:00:00"}

		start, err := shift.ScheduledStart(ny)
		require.NoError(t, err)
		assert.Equal(t, 9, start.Hour())
		assert.True(t, start.Equal(time.Date(2025, 3, 9, 9, 0, 0, 0, ny)))

		end, err := shift.ScheduledEnd(ny)
		require.NoError(t, err)
		assert.Equal(t, 17, end.Hour())

		overnight := &Shift{WorkDate: time.Date(2025, 3, 8, 0, 0, 0, 0, ny), StartTime: "22:00:00", EndTime: "06:00:00"}
		end, err = overnight.ScheduledEnd(ny)
		require.NoError(t, err)
		assert.True(t, end.Equal(time.Date(2025, 3, 9, 6, 0, 0, 0, ny)))
	})

	t.Run("bad clock", func(t *testing.T) {
		shift := &Shift{WorkDate: date, StartTime: "nine", EndTime: "17:00:00"}

		_, err := shift.EffectiveEnd(loc)
		assert.ErrorIs(t, err, ErrInvalidClock)
	})
}

func TestShiftIsOn(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	shift := &Shift{WorkDate: time.Date(2025, 3, 10, 0, 0, 0, 0, loc)}

	assert.True(t, shift.IsOn(time.Date(2025, 3, 10, 23, 59, 0, 0, loc), loc))
	// UTC 16:30 已经是东八区的第二天
	assert.False(t, shift.IsOn(time.Date(2025, 3, 10, 16, 30, 0, 0, time.UTC), loc))
	assert.True(t, shift.IsOn(time.Date(2025, 3, 9, 16, 30, 0, 0, time.UTC), loc))
}

func TestWorkedMinutes(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 1, 0, 0, time.UTC)
	out := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
	outEarly := in.Add(-time.Minute)
	outPartial := in.Add(90*time.Minute + 59*time.Second)

	var nilRecord *AttendanceRecord
	assert.Equal(t, int64(0), nilRecord.WorkedMinutes())
	assert.False(t, nilRecord.CheckedIn())

	assert.Equal(t, int64(0), (&AttendanceRecord{CheckInAt: &in}).WorkedMinutes())
	assert.Equal(t, int64(479), (&AttendanceRecord{CheckInAt: &in, CheckOutAt: &out}).WorkedMinutes())
	assert.Equal(t, int64(90), (&AttendanceRecord{CheckInAt: &in, CheckOutAt: &outPartial}).WorkedMinutes())
	assert.Equal(t, int64(0), (&AttendanceRecord{CheckInAt: &in, CheckOutAt: &outEarly}).WorkedMinutes())
}
