package guildperm

import (
	"github.com/drossler/guildperm/permission"
)

// Role is an immutable snapshot of one guild role.
//
// Position orders the hierarchy: larger means higher authority. Ties are
// broken by ID (older role wins), so the (Position, ID) pair is a total
// order. The implicit default role always sits at position 0.
type Role struct {
	ID          string
	GuildID     string
	Name        string
	Position    int
	Color       uint32
	Default     bool
	Permissions permission.Set
}

// Member is an immutable snapshot of one guild member.
//
// Roles lists only explicitly assigned roles; the guild's default role
// applies implicitly and must not appear here. Nickname is the optional
// display-name override.
type Member struct {
	UserID   string
	GuildID  string
	Username string
	Nickname string
	Roles    []Role
}

// EffectiveName returns the nickname when set, else the username.
func (m Member) EffectiveName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.Username
}

// Guild is an immutable snapshot of the guild-level data resolution needs:
// identity, ownership, and the implicit default role.
type Guild struct {
	ID          string
	OwnerID     string
	DefaultRole Role
}

// TargetKind discriminates the two override target variants.
type TargetKind uint8

const (
	// TargetRole marks an override applying to every holder of one role.
	TargetRole TargetKind = iota + 1
	// TargetMember marks an override applying to a single member.
	TargetMember
)

// String returns the protocol name of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetRole:
		return "role"
	case TargetMember:
		return "member"
	default:
		return "unknown"
	}
}

// OverrideTarget names exactly one role or one member. An override is never
// both; the Kind tag replaces the nullable-field discrimination of older
// implementations.
type OverrideTarget struct {
	Kind TargetKind
	ID   string
}

// OverrideRecord is a finalized per-channel, per-target allow/deny pair.
// Records are immutable once built and are replaced wholesale on update.
//
// Allow and Deny are validated independently; the merge treats deny-then-
// allow order as authoritative, so same-record overlap is harmless but
// discouraged.
type OverrideRecord struct {
	CommitID  string
	ChannelID string
	Target    OverrideTarget
	Allow     permission.Set
	Deny      permission.Set
}

// IsRole reports whether the record targets a role.
func (r OverrideRecord) IsRole() bool {
	return r.Target.Kind == TargetRole
}

// IsMember reports whether the record targets a member.
func (r OverrideRecord) IsMember() bool {
	return r.Target.Kind == TargetMember
}

// Inherited returns the defined permissions this record leaves untouched:
// neither explicitly allowed nor explicitly denied.
func (r OverrideRecord) Inherited() permission.Set {
	return r.Allow.Union(r.Deny).Complement()
}

// Channel is an immutable snapshot of one guild channel and its overrides,
// keyed by target identity: at most one override per role, at most one per
// member.
type Channel struct {
	ID              string
	GuildID         string
	Name            string
	RoleOverrides   map[string]OverrideRecord
	MemberOverrides map[string]OverrideRecord
}

// Emote is an immutable snapshot of a custom emote and the roles allowed to
// use it. An empty Roles slice means the emote is unrestricted.
type Emote struct {
	ID    string
	Name  string
	Roles []Role
}
