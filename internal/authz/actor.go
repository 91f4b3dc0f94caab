package authz

import "github.com/google/uuid"

// Capability is a tagged set of the privileges an actor can hold. Employees
// hold no capability bits; approval and administration rights are explicit.
type Capability uint8

const (
	CapManager Capability = 1 << iota
	CapHR
	CapAdmin
)

// Has reports whether every bit of want is present in c.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Actor is the authenticated principal performing an operation. It is always
// passed explicitly; the policy never reads ambient state.
type Actor struct {
	ID           uuid.UUID
	DepartmentID string
	Caps         Capability
}

// Subject is the authorization-relevant projection of a leave request.
type Subject struct {
	OwnerID       uuid.UUID
	DepartmentID  string // snapshot taken at submission, not live-joined
	ManagerStatus string
	HRStatus      string
}

// Stage identifies which decision stage a transition targets.
type Stage int

const (
	StageManager Stage = iota
	StageHR
)
