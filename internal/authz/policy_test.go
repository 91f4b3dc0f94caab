package authz_test

import (
	"testing"

	"go-timeoff/internal/authz"
	"go-timeoff/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendingSubject(owner uuid.UUID, dept string) authz.Subject {
	return authz.Subject{
		OwnerID:       owner,
		DepartmentID:  dept,
		ManagerStatus: domain.StatusPending,
		HRStatus:      domain.StatusPending,
	}
}

func TestCanEdit(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	t.Run("owner can edit while both stages pending", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: owner, DepartmentID: "eng"}
		assert.True(t, authz.CanEdit(sub, actor))
	})

	t.Run("owner cannot edit after manager decision", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		actor := authz.Actor{ID: owner, DepartmentID: "eng"}
		assert.False(t, authz.CanEdit(sub, actor))
	})

	t.Run("non-owner cannot edit even when pending", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: other, DepartmentID: "eng", Caps: authz.CapManager}
		assert.False(t, authz.CanEdit(sub, actor))
	})

	t.Run("admin can always edit", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		sub.HRStatus = domain.StatusApproved
		actor := authz.Actor{ID: other, Caps: authz.CapAdmin}
		assert.True(t, authz.CanEdit(sub, actor))
	})
}

func TestCanDelete_MatchesCanEdit(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name  string
		sub   authz.Subject
		actor authz.Actor
	}{
		{"owner pending", pendingSubject(owner, "eng"), authz.Actor{ID: owner}},
		{"owner decided", authz.Subject{OwnerID: owner, ManagerStatus: domain.StatusRejected, HRStatus: domain.StatusPending}, authz.Actor{ID: owner}},
		{"admin decided", authz.Subject{OwnerID: owner, ManagerStatus: domain.StatusApproved, HRStatus: domain.StatusApproved}, authz.Actor{ID: other, Caps: authz.CapAdmin}},
		{"stranger", pendingSubject(owner, "eng"), authz.Actor{ID: other}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, authz.CanEdit(tc.sub, tc.actor), authz.CanDelete(tc.sub, tc.actor))
		})
	}
}

func TestCanTransition_ManagerStage(t *testing.T) {
	owner := uuid.New()
	manager := uuid.New()

	t.Run("manager of same department may decide", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: manager, DepartmentID: "eng", Caps: authz.CapManager}
		assert.True(t, authz.CanTransition(sub, actor, authz.StageManager))
	})

	t.Run("manager of another department may not", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: manager, DepartmentID: "sales", Caps: authz.CapManager}
		assert.False(t, authz.CanTransition(sub, actor, authz.StageManager))
	})

	t.Run("owner may not decide own request", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: owner, DepartmentID: "eng", Caps: authz.CapManager}
		assert.False(t, authz.CanTransition(sub, actor, authz.StageManager))
	})

	t.Run("admin may decide across departments", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: manager, DepartmentID: "sales", Caps: authz.CapAdmin}
		assert.True(t, authz.CanTransition(sub, actor, authz.StageManager))
	})

	t.Run("manager stage closed after decision", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		actor := authz.Actor{ID: manager, DepartmentID: "eng", Caps: authz.CapManager}
		assert.False(t, authz.CanTransition(sub, actor, authz.StageManager))
	})
}

func TestCanTransition_HRStage(t *testing.T) {
	owner := uuid.New()
	hr := uuid.New()

	t.Run("hr may decide after manager approval", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		actor := authz.Actor{ID: hr, DepartmentID: "people", Caps: authz.CapHR}
		assert.True(t, authz.CanTransition(sub, actor, authz.StageHR))
	})

	t.Run("hr may not decide before manager approval", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		actor := authz.Actor{ID: hr, Caps: authz.CapHR}
		assert.False(t, authz.CanTransition(sub, actor, authz.StageHR))
	})

	t.Run("manager capability alone is not enough for hr stage", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		actor := authz.Actor{ID: hr, DepartmentID: "eng", Caps: authz.CapManager}
		assert.False(t, authz.CanTransition(sub, actor, authz.StageHR))
	})

	t.Run("admin may decide hr stage", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		actor := authz.Actor{ID: hr, Caps: authz.CapAdmin}
		assert.True(t, authz.CanTransition(sub, actor, authz.StageHR))
	})

	t.Run("hr stage closed after rejection", func(t *testing.T) {
		sub := pendingSubject(owner, "eng")
		sub.ManagerStatus = domain.StatusApproved
		sub.HRStatus = domain.StatusRejected
		actor := authz.Actor{ID: hr, Caps: authz.CapHR}
		assert.False(t, authz.CanTransition(sub, actor, authz.StageHR))
	})
}

func TestCanView(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	sub := pendingSubject(owner, "eng")

	t.Run("owner", func(t *testing.T) {
		assert.True(t, authz.CanView(sub, authz.Actor{ID: owner}))
	})
	t.Run("same department manager", func(t *testing.T) {
		assert.True(t, authz.CanView(sub, authz.Actor{ID: other, DepartmentID: "eng", Caps: authz.CapManager}))
	})
	t.Run("other department manager", func(t *testing.T) {
		assert.False(t, authz.CanView(sub, authz.Actor{ID: other, DepartmentID: "sales", Caps: authz.CapManager}))
	})
	t.Run("hr sees everything", func(t *testing.T) {
		assert.True(t, authz.CanView(sub, authz.Actor{ID: other, Caps: authz.CapHR}))
	})
	t.Run("admin sees everything", func(t *testing.T) {
		assert.True(t, authz.CanView(sub, authz.Actor{ID: other, Caps: authz.CapAdmin}))
	})
	t.Run("unrelated employee", func(t *testing.T) {
		assert.False(t, authz.CanView(sub, authz.Actor{ID: other}))
	})
}

func TestCanViewAll(t *testing.T) {
	assert.True(t, authz.CanViewAll(authz.Actor{Caps: authz.CapHR}))
	assert.True(t, authz.CanViewAll(authz.Actor{Caps: authz.CapAdmin}))
	assert.False(t, authz.CanViewAll(authz.Actor{Caps: authz.CapManager}))
	assert.False(t, authz.CanViewAll(authz.Actor{}))
}
