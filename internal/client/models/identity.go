// Package models defines the Farmline client data model: identities and
// roles, chat messages and conversations, and the catalog/commerce types
// exchanged with the REST backend.
package models

// Role classifies an account. The backend historically used several aliases
// for the same role ("seller"/"farmer", "buyer"/"customer"/"user"); every
// consumer switches on the canonical tag only, never on the raw string.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFarmer  Role = "farmer"
	RoleBuyer   Role = "buyer"
	RoleUnknown Role = "unknown"
)

// NormalizeRole maps a raw account-type string, including legacy aliases,
// to its canonical Role.
func NormalizeRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "farmer", "seller":
		return RoleFarmer
	case "buyer", "customer", "user":
		return RoleBuyer
	default:
		return RoleUnknown
	}
}

// Landing identifies the area a user is routed to after login.
type Landing string

const (
	LandingAdmin  Landing = "admin"
	LandingFarmer Landing = "farmer"
	LandingShop   Landing = "shop"
)

// LandingFor returns the landing area for a canonical role. Unrecognized
// roles land in the shop, same as buyers.
func LandingFor(r Role) Landing {
	switch r {
	case RoleAdmin:
		return LandingAdmin
	case RoleFarmer:
		return LandingFarmer
	default:
		return LandingShop
	}
}

// Identity is the authenticated user record held client-side. It is replaced
// wholesale on each login and destroyed on logout; nothing ever patches
// individual fields.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Role    string `json:"userType"`
	Address string `json:"address,omitempty"`
	FarmID  string `json:"farmId,omitempty"`
}

// CanonicalRole returns the normalized role tag for the identity.
func (i *Identity) CanonicalRole() Role {
	if i == nil {
		return RoleUnknown
	}
	return NormalizeRole(i.Role)
}
