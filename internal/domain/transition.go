package domain

import (
	"fmt"
	"slices"
)

type TransitionCause string

const (
	CauseCheckIn  TransitionCause = "check_in"
	CauseCheckOut TransitionCause = "check_out"
	CauseSweep    TransitionCause = "sweep"
	CauseOverride TransitionCause = "override"
)

var transitions = map[TransitionCause]struct {
	from []WorkStatus
	to   []WorkStatus
}{
	// 人工改成 PRESENT/LATE 的班次仍然允许员工补签到，以记录真实时间
	CauseCheckIn: {
		from: []WorkStatus{WorkStatusScheduled, WorkStatusPresent, WorkStatusLate},
		to:   []WorkStatus{WorkStatusPresent, WorkStatusLate},
	},
	CauseCheckOut: {
		from: []WorkStatus{WorkStatusPresent, WorkStatusLate},
		to:   []WorkStatus{WorkStatusCompleted},
	},
	// 已签到的班次即使过了结束时间也不能被扫描成缺勤
	CauseSweep: {
		from: []WorkStatus{WorkStatusScheduled},
		to:   []WorkStatus{WorkStatusAbsent},
	},
	// 人工修改可以离开 ABSENT（修正误判），但不能离开 COMPLETED
	CauseOverride: {
		from: []WorkStatus{WorkStatusScheduled, WorkStatusPresent, WorkStatusLate, WorkStatusAbsent},
		to:   WorkStatuses,
	},
}

// CanTransition 判断 from -> to 在给定触发原因下是否合法
func CanTransition(from, to WorkStatus, cause TransitionCause) error {
	if from == WorkStatusCompleted {
		return ErrShiftCompleted
	}

	rule, ok := transitions[cause]
	if !ok {
		return fmt.Errorf("%w: 未知的触发原因 %q", ErrIllegalTransition, cause)
	}

	if !slices.Contains(rule.from, from) {
		if cause == CauseCheckIn && from == WorkStatusAbsent {
			return ErrShiftResolved
		}
		return fmt.Errorf("%w: %s 状态不允许 %s", ErrIllegalTransition, from, cause)
	}
	if !slices.Contains(rule.to, to) {
		return fmt.Errorf("%w: %s 不能变为 %s", ErrIllegalTransition, cause, to)
	}

	return nil
}
