package guildperm

import "sort"

// CompareRoles orders two roles by hierarchy: position first, then ID as the
// tie-break (a lexicographically smaller ID of equal length is the older
// snowflake and outranks). Returns >0 when a outranks b, <0 when b outranks
// a, 0 only for the same role.
func CompareRoles(a, b Role) int {
	if a.Position != b.Position {
		if a.Position > b.Position {
			return 1
		}
		return -1
	}
	if a.ID == b.ID {
		return 0
	}
	if snowflakeLess(a.ID, b.ID) {
		return 1
	}
	return -1
}

// snowflakeLess compares decimal snowflake IDs numerically: shorter strings
// are smaller, equal lengths compare lexicographically.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// RolesByPosition returns a new slice sorted highest-position first, ties
// broken by age. Input order is preserved in the caller's slice.
func RolesByPosition(roles []Role) []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareRoles(out[i], out[j]) > 0
	})
	return out
}

// memberRank returns the member's effective rank: the highest position among
// held roles, floored at 0 by the implicit default role.
func memberRank(member Member) int {
	rank := 0
	for _, role := range member.Roles {
		if role.Position > rank {
			rank = role.Position
		}
	}
	return rank
}

// highestRolePosition returns the highest position in roles, or 0 for an
// empty slice.
func highestRolePosition(roles []Role) int {
	pos := 0
	for _, role := range roles {
		if role.Position > pos {
			pos = role.Position
		}
	}
	return pos
}

// IsOwner reports whether the member is the guild owner.
func IsOwner(guild Guild, member Member) bool {
	return member.UserID != "" && member.UserID == guild.OwnerID
}

// MemberColor returns the color of the member's highest colored role, or 0
// when no held role carries a color.
func MemberColor(member Member) uint32 {
	for _, role := range RolesByPosition(member.Roles) {
		if role.Color != 0 {
			return role.Color
		}
	}
	return 0
}
