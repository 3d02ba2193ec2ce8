package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRoleIdempotent(t *testing.T) {
	roles := newFakeRoleStore()
	roles.users["u1"] = true
	roles.roles[1] = "Administrator"
	audit := &fakeAuditor{}
	svc := NewRoleService(roles, audit)

	require.NoError(t, svc.AssignRole(context.Background(), "u1", 1, "admin"))
	require.NoError(t, svc.AssignRole(context.Background(), "u1", 1, "admin"))

	got, err := svc.RolesFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Administrator"}, got, "double grant must not duplicate membership")
	assert.Equal(t, []string{ActionRoleGranted, ActionRoleGranted}, audit.actions())
}

func TestRemoveRoleIdempotent(t *testing.T) {
	roles := newFakeRoleStore()
	roles.users["u1"] = true
	roles.roles[1] = "Administrator"
	svc := NewRoleService(roles, &fakeAuditor{})

	require.NoError(t, svc.AssignRole(context.Background(), "u1", 1, "admin"))
	require.NoError(t, svc.RemoveRole(context.Background(), "u1", 1))

	got, err := svc.RolesFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Revoking a role the user does not hold is a no-op.
	require.NoError(t, svc.RemoveRole(context.Background(), "u1", 1))
}

func TestAssignRoleUnknownTargets(t *testing.T) {
	roles := newFakeRoleStore()
	roles.roles[1] = "Administrator"
	svc := NewRoleService(roles, &fakeAuditor{})

	err := svc.AssignRole(context.Background(), "ghost", 1, "admin")
	assert.ErrorIs(t, err, ErrUserNotFound)

	roles.users["u1"] = true
	err = svc.AssignRole(context.Background(), "u1", 99, "admin")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
