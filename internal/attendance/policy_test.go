package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

func TestDecideCheckIn(t *testing.T) {
	policy := Policy{Location: testLoc}

	tests := []struct {
		name        string
		now         time.Time
		status      domain.WorkStatus
		lateMinutes int32
	}{
		{name: "early", now: at(10, 8, 59), status: domain.WorkStatusPresent},
		{name: "exactly on start", now: at(10, 9, 0), status: domain.WorkStatusPresent},
		{name: "one minute late", now: at(10, 9, 1), status: domain.WorkStatusLate, lateMinutes: 1},
		{name: "seconds late", now: at(10, 9, 0).Add(30 * time.Second), status: domain.WorkStatusLate, lateMinutes: 0},
		{name: "very late", now: at(10, 16, 30), status: domain.WorkStatusLate, lateMinutes: 450},
		{name: "exactly on end", now: at(10, 17, 0), status: domain.WorkStatusLate, lateMinutes: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := policy.Decide(newDayShift(10), ActionCheckIn, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, tt.status == domain.WorkStatusLate, d.IsLate)
			assert.Equal(t, tt.lateMinutes, d.LateMinutes)
			require.NotNil(t, d.CheckInAt)
			assert.Equal(t, tt.now, *d.CheckInAt)
			assert.Nil(t, d.CheckOutAt)
			assert.Contains(t, d.Message, string(tt.status))
		})
	}
}

func TestDecideCheckInAfterEnd(t *testing.T) {
	now := at(10, 17, 1)

	_, err := Policy{Location: testLoc}.Decide(newDayShift(10), ActionCheckIn, now)
	assert.ErrorIs(t, err, domain.ErrShiftEnded)

	d, err := Policy{Location: testLoc, AcceptAfterEnd: true}.Decide(newDayShift(10), ActionCheckIn, now)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkStatusLate, d.Status)
	assert.Equal(t, int32(481), d.LateMinutes)
}

func TestDecideCheckInRejected(t *testing.T) {
	policy := Policy{Location: testLoc}
	in := at(10, 8, 55)

	shift := newDayShift(10)
	shift.Status = domain.WorkStatusPresent
	shift.Record = &domain.AttendanceRecord{CheckInAt: &in}
	_, err := policy.Decide(shift, ActionCheckIn, at(10, 9, 5))
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, domain.ErrConflict)

	shift = newDayShift(10)
	shift.Status = domain.WorkStatusAbsent
	_, err = policy.Decide(shift, ActionCheckIn, at(10, 9, 5))
	assert.ErrorIs(t, err, domain.ErrShiftResolved)

	shift = newDayShift(10)
	shift.Status = domain.WorkStatusCompleted
	_, err = policy.Decide(shift, ActionCheckIn, at(10, 9, 5))
	assert.ErrorIs(t, err, domain.ErrShiftCompleted)

	// 被人工改成 PRESENT 但还没有签到记录时，仍然可以签到
	shift = newDayShift(10)
	shift.Status = domain.WorkStatusPresent
	d, err := policy.Decide(shift, ActionCheckIn, at(10, 8, 50))
	require.NoError(t, err)
	assert.Equal(t, domain.WorkStatusPresent, d.Status)
}

func TestDecideCheckOut(t *testing.T) {
	policy := Policy{Location: testLoc}
	in := at(10, 9, 1)

	shift := newDayShift(10)
	shift.Status = domain.WorkStatusLate
	shift.Record = &domain.AttendanceRecord{ID: 7, CheckInAt: &in, IsLate: true, LateMinutes: 1}

	d, err := policy.Decide(shift, ActionCheckOut, at(10, 17, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.WorkStatusCompleted, d.Status)
	assert.True(t, d.IsLate)
	assert.Equal(t, int32(1), d.LateMinutes)
	assert.Contains(t, d.Message, "479")

	record := d.Apply(shift)
	assert.Equal(t, int64(479), record.WorkedMinutes())
	assert.Equal(t, int64(7), record.ID)
	// 原记录不受影响
	assert.Nil(t, shift.Record.CheckOutAt)
}

func TestDecideCheckOutRejected(t *testing.T) {
	policy := Policy{Location: testLoc}
	in := at(10, 9, 0)
	out := at(10, 17, 0)

	_, err := policy.Decide(newDayShift(10), ActionCheckOut, at(10, 17, 0))
	assert.ErrorIs(t, err, domain.ErrNotCheckedIn)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	shift := newDayShift(10)
	shift.Status = domain.WorkStatusCompleted
	shift.Record = &domain.AttendanceRecord{CheckInAt: &in, CheckOutAt: &out}
	_, err = policy.Decide(shift, ActionCheckOut, at(10, 17, 5))
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedOut)

	shift = newDayShift(10)
	shift.Status = domain.WorkStatusPresent
	shift.Record = &domain.AttendanceRecord{CheckInAt: &in}
	_, err = policy.Decide(shift, ActionCheckOut, in.Add(-time.Second))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = policy.Decide(shift, Action("BREAK"), out)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestDecideCheckOutEarlyLeave(t *testing.T) {
	in := at(10, 8, 58)
	shift := newDayShift(10)
	shift.Status = domain.WorkStatusPresent
	shift.Record = &domain.AttendanceRecord{CheckInAt: &in}

	d, err := Policy{Location: testLoc}.Decide(shift, ActionCheckOut, at(10, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.WorkStatusCompleted, d.Status)
	assert.Equal(t, int64(182), d.Apply(shift).WorkedMinutes())
}

func TestDecideCheckOutSameInstant(t *testing.T) {
	in := at(10, 9, 0)
	shift := newDayShift(10)
	shift.Status = domain.WorkStatusPresent
	shift.Record = &domain.AttendanceRecord{CheckInAt: &in}

	d, err := Policy{Location: testLoc}.Decide(shift, ActionCheckOut, in)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkStatusCompleted, d.Status)
	assert.Equal(t, int64(0), d.Apply(shift).WorkedMinutes())
}

func TestDecideCheckInDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("没有时区数据库")
	}
	shift := &domain.Shift{
		WorkDate:  time.Date(2025, 3, 9, 0, 0, 0, 0, ny),
		StartTime: "09:00:00",
		EndTime:   "17:00:00",
		Status:    domain.WorkStatusScheduled,
	}

	d, err := Policy{Location: ny}.Decide(shift, ActionCheckIn, time.Date(2025, 3, 9, 9, 30, 0, 0, ny))
	require.NoError(t, err)
	assert.Equal(t, domain.WorkStatusLate, d.Status)
	assert.Equal(t, int32(30), d.LateMinutes)
}

func TestApplyCreatesRecord(t *testing.T) {
	shift := newDayShift(10)
	shift.ID = 42

	d, err := Policy{Location: testLoc}.Decide(shift, ActionCheckIn, at(10, 9, 3))
	require.NoError(t, err)

	record := d.Apply(shift)
	assert.Equal(t, int64(0), record.ID)
	assert.Equal(t, int64(42), record.ShiftID)
	assert.True(t, record.IsLate)
	assert.Equal(t, int32(3), record.LateMinutes)
	assert.Nil(t, shift.Record)
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction("CHECK_IN")
	require.NoError(t, err)
	assert.Equal(t, ActionCheckIn, action)

	_, err = ParseAction("check_in")
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}
