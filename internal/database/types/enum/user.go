package enum

// UserRole represents the global permission tier of a user account.
// Category-scoped moderators are tracked separately on the category itself.
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

// AtLeast reports whether the role grants the permissions of the other role.
func (r UserRole) AtLeast(other UserRole) bool {
	return roleRank(r) >= roleRank(other)
}

func roleRank(r UserRole) int {
	switch r {
	case UserRoleModerator:
		return 1
	case UserRoleAdmin:
		return 2
	default:
		return 0
	}
}
