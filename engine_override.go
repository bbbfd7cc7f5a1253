package guildperm

import (
	"context"

	"github.com/drossler/guildperm/permission"
	"github.com/google/uuid"
)

// OverrideBuilder stages the allow/deny bits of one override before it is
// committed. The target kind is fixed at construction; allow and deny are
// independently settable any number of times until Build.
//
// Builders are single-owner: mutate from one goroutine only. The built
// [OverrideRecord] is immutable and safe to share.
type OverrideBuilder struct {
	engine    *Engine
	channelID string
	target    OverrideTarget

	allow permission.Set
	deny  permission.Set

	built bool
}

// NewRoleOverride stages an override targeting every holder of one role in
// the given channel.
func (e *Engine) NewRoleOverride(channelID, roleID string) *OverrideBuilder {
	return &OverrideBuilder{
		engine:    e,
		channelID: channelID,
		target:    OverrideTarget{Kind: TargetRole, ID: roleID},
	}
}

// NewMemberOverride stages an override targeting a single member in the
// given channel.
func (e *Engine) NewMemberOverride(channelID, userID string) *OverrideBuilder {
	return &OverrideBuilder{
		engine:    e,
		channelID: channelID,
		target:    OverrideTarget{Kind: TargetMember, ID: userID},
	}
}

// IsRole reports whether the staged override targets a role.
func (b *OverrideBuilder) IsRole() bool {
	return b.target.Kind == TargetRole
}

// IsMember reports whether the staged override targets a member.
func (b *OverrideBuilder) IsMember() bool {
	return b.target.Kind == TargetMember
}

// Allow returns the currently staged allow set.
func (b *OverrideBuilder) Allow() permission.Set {
	return b.allow
}

// Deny returns the currently staged deny set.
func (b *OverrideBuilder) Deny() permission.Set {
	return b.deny
}

// Inherited returns the permissions the staged override leaves untouched:
// neither allowed nor denied, restricted to the defined range.
func (b *OverrideBuilder) Inherited() permission.Set {
	return b.allow.Union(b.deny).Complement()
}

// SetAllowRaw replaces the allow set from a raw bit value. Negative values
// and values above the full permission set fail with
// [permission.ErrOutOfRange].
func (b *OverrideBuilder) SetAllowRaw(bits int64) error {
	s, err := permission.FromRaw(bits)
	if err != nil {
		b.engine.metricInc(MetricOverrideRejected)
		return err
	}
	b.allow = s
	return nil
}

// SetAllow replaces the allow set from named permissions. An empty list
// resets the allow side to zero. An undefined element fails with
// [permission.ErrInvalidPermission] and leaves the builder unchanged.
func (b *OverrideBuilder) SetAllow(perms ...permission.Permission) error {
	s, err := permission.FromPermissions(perms...)
	if err != nil {
		b.engine.metricInc(MetricOverrideRejected)
		return err
	}
	b.allow = s
	return nil
}

// SetDenyRaw replaces the deny set from a raw bit value, with the same range
// rule as [OverrideBuilder.SetAllowRaw].
func (b *OverrideBuilder) SetDenyRaw(bits int64) error {
	s, err := permission.FromRaw(bits)
	if err != nil {
		b.engine.metricInc(MetricOverrideRejected)
		return err
	}
	b.deny = s
	return nil
}

// SetDeny replaces the deny set from named permissions. An empty list resets
// the deny side to zero.
func (b *OverrideBuilder) SetDeny(perms ...permission.Permission) error {
	s, err := permission.FromPermissions(perms...)
	if err != nil {
		b.engine.metricInc(MetricOverrideRejected)
		return err
	}
	b.deny = s
	return nil
}

// SetPermissionsRaw sets both sides from raw bit values. Convenience over
// the two single setters; allow is validated first.
func (b *OverrideBuilder) SetPermissionsRaw(allowBits, denyBits int64) error {
	if err := b.SetAllowRaw(allowBits); err != nil {
		return err
	}
	return b.SetDenyRaw(denyBits)
}

// SetPermissions sets both sides from permission lists.
func (b *OverrideBuilder) SetPermissions(allow, deny []permission.Permission) error {
	if err := b.SetAllow(allow...); err != nil {
		return err
	}
	return b.SetDeny(deny...)
}

// Build finalizes the staged override into an immutable [OverrideRecord],
// assigns it a commit ID, and emits an audit event. The record is returned
// to the caller for hand-off to the transport layer; the builder refuses a
// second Build with [ErrOverrideBuilt].
func (b *OverrideBuilder) Build(ctx context.Context) (OverrideRecord, error) {
	if b == nil || b.engine == nil {
		return OverrideRecord{}, ErrEngineNotReady
	}
	if b.built {
		return OverrideRecord{}, ErrOverrideBuilt
	}
	b.built = true

	record := OverrideRecord{
		CommitID:  uuid.NewString(),
		ChannelID: b.channelID,
		Target:    b.target,
		Allow:     b.allow,
		Deny:      b.deny,
	}

	b.engine.metricInc(MetricOverrideCommitted)
	b.engine.auditEmit(ctx, AuditEvent{
		EventType: AuditOverrideCommitted,
		ChannelID: b.channelID,
		TargetID:  b.target.ID,
		Success:   true,
		Metadata: map[string]string{
			"commit_id":   record.CommitID,
			"target_kind": b.target.Kind.String(),
		},
	})

	return record, nil
}
