package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRole_Aliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"farmer", RoleFarmer},
		{"seller", RoleFarmer},
		{"buyer", RoleBuyer},
		{"customer", RoleBuyer},
		{"user", RoleBuyer},
		{"", RoleUnknown},
		{"moderator", RoleUnknown},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, NormalizeRole(tc.raw), "raw=%q", tc.raw)
	}
}

func TestLandingFor_RoutesByRole(t *testing.T) {
	require.Equal(t, LandingAdmin, LandingFor(RoleAdmin))
	require.Equal(t, LandingFarmer, LandingFor(RoleFarmer))
	require.Equal(t, LandingShop, LandingFor(RoleBuyer))
	require.Equal(t, LandingShop, LandingFor(RoleUnknown))
}

func TestCanonicalRole_NilIdentity(t *testing.T) {
	var id *Identity
	require.Equal(t, RoleUnknown, id.CanonicalRole())
}

func TestCanonicalRole_LegacyAlias(t *testing.T) {
	id := &Identity{ID: "u1", Role: "seller"}
	require.Equal(t, RoleFarmer, id.CanonicalRole())
}
