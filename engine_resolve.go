package guildperm

import (
	"context"
	"time"

	"github.com/drossler/guildperm/permission"
)

// basePermissions unions the default role with every held role. The
// administrator bit widens the result to the full set: administrator implies
// every permission at guild level and is never narrowed by overrides.
func basePermissions(guild Guild, member Member) permission.Set {
	perms := guild.DefaultRole.Permissions
	for _, role := range member.Roles {
		perms = perms.Union(role.Permissions)
	}

	if perms.Contains(permission.Administrator) {
		return permission.All
	}
	return perms
}

// applyOverride folds one override record into perms: deny is subtracted
// first, then allow is added, so a bit present on both sides of the same
// record resolves to allowed. Bits outside the channel-applicable range are
// ignored.
func applyOverride(perms permission.Set, record OverrideRecord) permission.Set {
	deny := record.Deny.Intersect(permission.AllChannel)
	allow := record.Allow.Intersect(permission.AllChannel)
	return perms.Remove(deny).Union(allow)
}

func (e *Engine) checkSameGuild(ctx context.Context, guild Guild, member Member) error {
	if member.GuildID != guild.ID {
		e.metricInc(MetricResolveRejected)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditResolveRejected,
			GuildID:   guild.ID,
			ActorID:   member.UserID,
			Error:     ErrForeignMember.Error(),
		})
		return ErrForeignMember
	}
	return nil
}

// Resolve computes the member's guild-level effective permissions: the union
// of every held role's base set plus the implicit default role. No overrides
// participate at guild level.
func (e *Engine) Resolve(ctx context.Context, guild Guild, member Member) (permission.Set, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	if err := e.checkSameGuild(ctx, guild, member); err != nil {
		return 0, err
	}

	perms := basePermissions(guild, member)

	e.metricInc(MetricResolveGuild)
	if perms == permission.All {
		e.metricInc(MetricAdminShortCircuit)
	}
	return perms, nil
}

// ResolveChannel computes the member's effective permissions within one
// channel. Precedence, lowest to highest: guild-level base, the default
// role's override, the merged group of role overrides for held roles, the
// member's own override. Administrator short-circuits before any override is
// read.
func (e *Engine) ResolveChannel(ctx context.Context, guild Guild, member Member, channel Channel) (permission.Set, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	started := time.Now()

	if err := e.checkSameGuild(ctx, guild, member); err != nil {
		return 0, err
	}
	if channel.GuildID != guild.ID {
		e.metricInc(MetricResolveRejected)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditResolveRejected,
			GuildID:   guild.ID,
			ChannelID: channel.ID,
			ActorID:   member.UserID,
			Error:     ErrCrossGuild.Error(),
		})
		return 0, ErrCrossGuild
	}

	if e.cache != nil {
		cached, ok, err := e.cache.GetChannel(ctx, guild.ID, member.UserID, channel.ID)
		switch {
		case err != nil:
			e.metricInc(MetricCacheError)
		case ok:
			e.metricInc(MetricCacheHit)
			e.metricInc(MetricResolveChannel)
			e.metricObserve(MetricResolveLatency, time.Since(started))
			return cached, nil
		default:
			e.metricInc(MetricCacheMiss)
		}
	}

	perms := e.computeChannel(guild, member, channel)

	if e.cache != nil {
		if err := e.cache.PutChannel(ctx, guild.ID, member.UserID, channel.ID, perms); err != nil {
			e.metricInc(MetricCacheError)
		}
	}

	e.metricInc(MetricResolveChannel)
	e.metricObserve(MetricResolveLatency, time.Since(started))
	return perms, nil
}

func (e *Engine) computeChannel(guild Guild, member Member, channel Channel) permission.Set {
	perms := basePermissions(guild, member)
	if perms.Contains(permission.Administrator) {
		// channel overrides never remove administrator authority
		e.metricInc(MetricAdminShortCircuit)
		return permission.All
	}

	if override, ok := channel.RoleOverrides[guild.DefaultRole.ID]; ok {
		perms = applyOverride(perms, override)
	}

	// Role overrides merge as one undifferentiated group: union the allows,
	// union the denies, apply once. Role position is irrelevant here.
	var allowUnion, denyUnion permission.Set
	for _, role := range member.Roles {
		if role.ID == guild.DefaultRole.ID {
			continue
		}
		if override, ok := channel.RoleOverrides[role.ID]; ok {
			allowUnion = allowUnion.Union(override.Allow)
			denyUnion = denyUnion.Union(override.Deny)
		}
	}
	perms = applyOverride(perms, OverrideRecord{Allow: allowUnion, Deny: denyUnion})

	if override, ok := channel.MemberOverrides[member.UserID]; ok {
		perms = applyOverride(perms, override)
	}

	return perms
}

// HasPermissions reports whether the member holds every listed permission at
// guild level. An empty list is vacuously true. An undefined permission value
// fails with [permission.ErrInvalidPermission].
func (e *Engine) HasPermissions(ctx context.Context, guild Guild, member Member, required ...permission.Permission) (bool, error) {
	need, err := permission.FromPermissions(required...)
	if err != nil {
		return false, err
	}

	perms, err := e.Resolve(ctx, guild, member)
	if err != nil {
		return false, err
	}
	return perms.ContainsAll(need), nil
}

// HasChannelPermissions reports whether the member holds every listed
// permission within the channel. An empty list is vacuously true.
func (e *Engine) HasChannelPermissions(ctx context.Context, guild Guild, member Member, channel Channel, required ...permission.Permission) (bool, error) {
	need, err := permission.FromPermissions(required...)
	if err != nil {
		return false, err
	}

	perms, err := e.ResolveChannel(ctx, guild, member, channel)
	if err != nil {
		return false, err
	}
	return perms.ContainsAll(need), nil
}
