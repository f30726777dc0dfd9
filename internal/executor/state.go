package executor

import (
	"fmt"
	"time"

	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
)

// ValidTransitions defines the allowed scenario status transitions.
// Scenarios always start in Pending. Paused is only reachable from Running
// (interactive mode) and can resume or be cancelled.
//
//nolint:gochecknoglobals // Read-only lookup table for the state machine
var ValidTransitions = map[constants.ScenarioStatus][]constants.ScenarioStatus{
	constants.ScenarioStatusPending: {
		constants.ScenarioStatusRunning,
		constants.ScenarioStatusCancelled,
	},
	constants.ScenarioStatusRunning: {
		constants.ScenarioStatusCompleted,
		constants.ScenarioStatusFailed,
		constants.ScenarioStatusCancelled,
		constants.ScenarioStatusPaused,
	},
	constants.ScenarioStatusPaused: {
		constants.ScenarioStatusRunning,
		constants.ScenarioStatusCancelled,
	},
}

// terminalStatuses are states with no outgoing transitions.
//
//nolint:gochecknoglobals // Read-only lookup table for terminal state checks
var terminalStatuses = map[constants.ScenarioStatus]bool{
	constants.ScenarioStatusCompleted: true,
	constants.ScenarioStatusFailed:    true,
	constants.ScenarioStatusCancelled: true,
}

// IsValidTransition reports whether moving from one status to another is
// allowed. Self-transitions are not valid.
func IsValidTransition(from, to constants.ScenarioStatus) bool {
	if from == to {
		return false
	}
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether the status admits no further transitions.
func IsTerminalStatus(status constants.ScenarioStatus) bool {
	return terminalStatuses[status]
}

// transition moves the run to a new status, recording the change on the
// result's audit trail. Invalid transitions return ErrInvalidTransition and
// leave the run untouched.
func (r *activeRun) transition(to constants.ScenarioStatus, reason string, now time.Time) error {
	if !IsValidTransition(r.status, to) {
		return fmt.Errorf("%w: %s -> %s", orionerrors.ErrInvalidTransition, r.status, to)
	}

	r.result.Transitions = append(r.result.Transitions, domain.Transition{
		FromStatus: r.status,
		ToStatus:   to,
		Timestamp:  now.UTC(),
		Reason:     reason,
	})
	r.status = to
	r.result.Status = to
	return nil
}
