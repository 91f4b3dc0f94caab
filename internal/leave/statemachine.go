package leave

import (
	"go-timeoff/internal/authz"
	"go-timeoff/internal/domain"
	leaveerrors "go-timeoff/internal/leave/errors"
)

// Action is a decision applied to one stage of a request.
type Action string

const (
	ActionManagerApprove Action = "MANAGER_APPROVE"
	ActionManagerReject  Action = "MANAGER_REJECT"
	ActionHRApprove      Action = "HR_APPROVE"
	ActionHRReject       Action = "HR_REJECT"
)

// Stage returns the decision stage the action belongs to.
func (a Action) Stage() authz.Stage {
	if a == ActionManagerApprove || a == ActionManagerReject {
		return authz.StageManager
	}
	return authz.StageHR
}

// Approves reports whether the action is an approval (vs a rejection).
func (a Action) Approves() bool {
	return a == ActionManagerApprove || a == ActionHRApprove
}

type state struct {
	Manager string
	HR      string
}

type transitionKey struct {
	From   state
	Action Action
}

// Transition describes one legal move of the approval state machine.
type Transition struct {
	To state
	// CommitsBalance marks entry into the fully-approved terminal state,
	// where the request's day count is consumed from the ledger.
	CommitsBalance bool
	// Terminal states emit a decision event and accept no further actions.
	Terminal bool
}

// transitions is the complete reachable-transition table. Any (state,
// action) pair missing here is illegal and fails loudly; nothing no-ops.
var transitions = map[transitionKey]Transition{
	{state{domain.StatusPending, domain.StatusPending}, ActionManagerApprove}: {
		To: state{domain.StatusApproved, domain.StatusPending},
	},
	{state{domain.StatusPending, domain.StatusPending}, ActionManagerReject}: {
		To:       state{domain.StatusRejected, domain.StatusPending},
		Terminal: true,
	},
	{state{domain.StatusApproved, domain.StatusPending}, ActionHRApprove}: {
		To:             state{domain.StatusApproved, domain.StatusApproved},
		CommitsBalance: true,
		Terminal:       true,
	},
	{state{domain.StatusApproved, domain.StatusPending}, ActionHRReject}: {
		To:       state{domain.StatusApproved, domain.StatusRejected},
		Terminal: true,
	},
}

// Transit resolves the transition for the request's current status pair.
// The request is not mutated; callers apply tr.To after authorization and
// stage bookkeeping succeed.
func Transit(l *LeaveRequest, action Action) (Transition, error) {
	tr, ok := transitions[transitionKey{
		From:   state{l.ManagerStatus, l.HRStatus},
		Action: action,
	}]
	if !ok {
		return Transition{}, leaveerrors.ErrIllegalTransition.WithDetails(map[string]any{
			"manager_status": l.ManagerStatus,
			"hr_status":      l.HRStatus,
			"action":         string(action),
		})
	}
	return tr, nil
}
