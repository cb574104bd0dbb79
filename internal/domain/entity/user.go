package entity

// Role is the closed set of user roles. Anything unrecognized maps to
// RoleDefault, which may run no command except the unknown fallback.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleInboundManager   Role = "inbound_manager"
	RoleOutboundManager  Role = "outbound_manager"
	RoleInventoryManager Role = "inventory_manager"
	RoleAllManager       Role = "all_manager"
	RoleDefault          Role = "default"
)

// ParseRole maps a stored role string onto the closed enum. Unknown strings
// become RoleDefault so a typo in the users table can never widen access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleInboundManager, RoleOutboundManager, RoleInventoryManager, RoleAllManager:
		return Role(s)
	default:
		return RoleDefault
	}
}

// User is an operator account.
type User struct {
	ID           int
	Username     string
	PasswordHash string // bcrypt hash, never plaintext past persistence
	Role         Role
}
