package model

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Capability names an action the gate can authorize.
type Capability string

const (
	CapBookVehicle      Capability = "booking:create"
	CapManageOwnBooking Capability = "booking:own"
	CapManageBookings   Capability = "booking:manage"
	CapManageVehicles   Capability = "vehicle:manage"
	CapManageUsers      Capability = "user:manage"
	CapViewDashboard    Capability = "admin:dashboard"
)

var roleCapabilities = map[Role][]Capability{
	RoleUser: {
		CapBookVehicle,
		CapManageOwnBooking,
	},
	RoleAdmin: {
		CapBookVehicle,
		CapManageOwnBooking,
		CapManageBookings,
		CapManageVehicles,
		CapManageUsers,
		CapViewDashboard,
	},
}

func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
