package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHighestRank(t *testing.T) {
	require.Equal(t, Role(0), HighestRank(nil))
	require.Equal(t, RoleCoach, HighestRank([]Role{RoleCoach}))
	require.Equal(t, RoleAdmin, HighestRank([]Role{RoleCoach, RoleAdmin, RoleMaster}))
}

func TestHasRole(t *testing.T) {
	roles := []Role{RoleCoach, RoleMaster}
	require.True(t, HasRole(roles, RoleMaster))
	require.True(t, HasRole(roles, RoleAdmin, RoleCoach))
	require.False(t, HasRole(roles, RoleAdmin))
	require.False(t, HasRole(nil, RoleCoach))
}

func TestCanGrant(t *testing.T) {
	admin := []Role{RoleAdmin}
	master := []Role{RoleMaster}
	coach := []Role{RoleCoach}

	// Admin can promote a member to coach or master
	require.True(t, CanGrant(admin, nil, coach))
	require.True(t, CanGrant(admin, coach, master))

	// Nobody can grant at or above their own rank
	require.False(t, CanGrant(admin, nil, admin))
	require.False(t, CanGrant(master, nil, master))
	require.True(t, CanGrant(master, nil, coach))

	// Peers and superiors are untouchable
	require.False(t, CanGrant(master, master, coach))
	require.False(t, CanGrant(master, admin, nil))

	// Members grant nothing
	require.False(t, CanGrant(nil, nil, coach))

	// Demotion to plain member is allowed below own rank
	require.True(t, CanGrant(admin, master, nil))
}

func TestRoleString(t *testing.T) {
	require.Equal(t, "coach", RoleCoach.String())
	require.Equal(t, "master", RoleMaster.String())
	require.Equal(t, "admin", RoleAdmin.String())
	require.Equal(t, "member", Role(0).String())
}
