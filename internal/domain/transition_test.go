package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  WorkStatus
		to    WorkStatus
		cause TransitionCause
		err   error
	}{
		{name: "check in on time", from: WorkStatusScheduled, to: WorkStatusPresent, cause: CauseCheckIn},
		{name: "check in late", from: WorkStatusScheduled, to: WorkStatusLate, cause: CauseCheckIn},
		{name: "check in after override", from: WorkStatusLate, to: WorkStatusLate, cause: CauseCheckIn},
		{name: "check in on absent", from: WorkStatusAbsent, to: WorkStatusPresent, cause: CauseCheckIn, err: ErrShiftResolved},
		{name: "check in cannot complete", from: WorkStatusScheduled, to: WorkStatusCompleted, cause: CauseCheckIn, err: ErrIllegalTransition},
		{name: "check out present", from: WorkStatusPresent, to: WorkStatusCompleted, cause: CauseCheckOut},
		{name: "check out late", from: WorkStatusLate, to: WorkStatusCompleted, cause: CauseCheckOut},
		{name: "check out scheduled", from: WorkStatusScheduled, to: WorkStatusCompleted, cause: CauseCheckOut, err: ErrIllegalTransition},
		{name: "sweep scheduled", from: WorkStatusScheduled, to: WorkStatusAbsent, cause: CauseSweep},
		{name: "sweep present", from: WorkStatusPresent, to: WorkStatusAbsent, cause: CauseSweep, err: ErrIllegalTransition},
		{name: "sweep late", from: WorkStatusLate, to: WorkStatusAbsent, cause: CauseSweep, err: ErrIllegalTransition},
		{name: "override absent", from: WorkStatusAbsent, to: WorkStatusPresent, cause: CauseOverride},
		{name: "override to completed", from: WorkStatusLate, to: WorkStatusCompleted, cause: CauseOverride},
		{name: "override completed", from: WorkStatusCompleted, to: WorkStatusAbsent, cause: CauseOverride, err: ErrShiftCompleted},
		{name: "completed is terminal for everyone", from: WorkStatusCompleted, to: WorkStatusCompleted, cause: CauseCheckOut, err: ErrShiftCompleted},
		{name: "unknown cause", from: WorkStatusScheduled, to: WorkStatusPresent, cause: "magic", err: ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.cause)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCanTransitionErrorCategories(t *testing.T) {
	assert.ErrorIs(t, CanTransition(WorkStatusAbsent, WorkStatusPresent, CauseCheckIn), ErrConflict)
	assert.ErrorIs(t, CanTransition(WorkStatusCompleted, WorkStatusAbsent, CauseOverride), ErrInvalidState)
	assert.ErrorIs(t, CanTransition(WorkStatusPresent, WorkStatusAbsent, CauseSweep), ErrInvalidState)
}

func TestParseWorkStatus(t *testing.T) {
	for _, status := range WorkStatuses {
		got, err := ParseWorkStatus(string(status))
		assert.NoError(t, err)
		assert.Equal(t, status, got)
	}

	_, err := ParseWorkStatus("present")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
