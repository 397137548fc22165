package session

// RoleCode is the single role discriminator stored on a credential record.
type RoleCode = string

const (
	// RoleUser is the default role for regular accounts.
	RoleUser RoleCode = "USER"
	// RoleManager can triage and assign work items.
	RoleManager RoleCode = "MANAGER"
	// RoleAdmin has full administrative access.
	RoleAdmin RoleCode = "ADMIN"
)

// AuthorityPrefix is prepended to a role code to form its granted authority.
const AuthorityPrefix = "ROLE_"

// AuthorityFor maps a role code to its authority string.
func AuthorityFor(roleCode RoleCode) string {
	return AuthorityPrefix + roleCode
}

// AuthoritiesFor derives the authority set for a role code. The model is a
// single authority per role; the slice shape keeps the wire contract open for
// future scopes.
func AuthoritiesFor(roleCode RoleCode) []string {
	if roleCode == "" {
		return nil
	}
	return []string{AuthorityFor(roleCode)}
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(roleCode RoleCode) bool {
	switch roleCode {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}
