// Package authz holds the pure authorization policy for the leave workflow.
// Every decision is a function of (subject, actor) only: no I/O, no clock,
// no ambient current-user.
package authz

import "go-timeoff/internal/domain"

func bothPending(sub Subject) bool {
	return sub.ManagerStatus == domain.StatusPending && sub.HRStatus == domain.StatusPending
}

// CanEdit permits the owner while both stages are still pending, and admins
// unconditionally.
func CanEdit(sub Subject, actor Actor) bool {
	if actor.Caps.Has(CapAdmin) {
		return true
	}
	return actor.ID == sub.OwnerID && bothPending(sub)
}

// CanDelete mirrors CanEdit: pre-approval owner, or admin override.
func CanDelete(sub Subject, actor Actor) bool {
	return CanEdit(sub, actor)
}

// CanTransition decides whether the actor may move the given stage. Owners
// can never decide their own request, whatever else they are.
func CanTransition(sub Subject, actor Actor, stage Stage) bool {
	if actor.ID == sub.OwnerID {
		return false
	}

	switch stage {
	case StageManager:
		if sub.ManagerStatus != domain.StatusPending {
			return false
		}
		if actor.Caps.Has(CapAdmin) {
			return true
		}
		return actor.Caps.Has(CapManager) && actor.DepartmentID == sub.DepartmentID
	case StageHR:
		// HR acts only after manager sign-off.
		if sub.ManagerStatus != domain.StatusApproved || sub.HRStatus != domain.StatusPending {
			return false
		}
		return actor.Caps.Has(CapHR) || actor.Caps.Has(CapAdmin)
	}
	return false
}

// CanView: owner always, admin and HR always, managers only within their own
// department.
func CanView(sub Subject, actor Actor) bool {
	if actor.ID == sub.OwnerID {
		return true
	}
	if actor.Caps.Has(CapAdmin) || actor.Caps.Has(CapHR) {
		return true
	}
	return actor.Caps.Has(CapManager) && actor.DepartmentID == sub.DepartmentID
}

// CanViewAll reports whether the actor may list requests beyond their own
// without per-request filtering (admin and HR).
func CanViewAll(actor Actor) bool {
	return actor.Caps.Has(CapAdmin) || actor.Caps.Has(CapHR)
}
