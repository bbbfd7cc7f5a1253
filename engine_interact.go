package guildperm

import "context"

// CanInteract decides whether actor may administratively act on target
// (kick, ban, nickname change, role assignment). The guild owner always may;
// otherwise the actor's highest role position must strictly exceed the
// target's. Equal rank never grants, and nobody interacts with themselves.
func (e *Engine) CanInteract(ctx context.Context, guild Guild, actor, target Member) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	if err := e.checkSameGuild(ctx, guild, actor); err != nil {
		return false, err
	}
	if err := e.checkSameGuild(ctx, guild, target); err != nil {
		return false, err
	}

	allowed := false
	switch {
	case actor.UserID == target.UserID:
		// strict: a member never outranks itself, owner included
	case IsOwner(guild, actor):
		allowed = true
	case IsOwner(guild, target):
		// only the owner outranks the owner
	default:
		allowed = memberRank(actor) > memberRank(target)
	}

	e.recordInteract(ctx, guild, actor.UserID, target.UserID, allowed)
	return allowed, nil
}

// CanInteractWithRole decides whether actor may manage the given role
// (edit, delete, assign). Owner always may; otherwise strict rank excess.
func (e *Engine) CanInteractWithRole(ctx context.Context, guild Guild, actor Member, role Role) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	if err := e.checkSameGuild(ctx, guild, actor); err != nil {
		return false, err
	}
	if role.GuildID != "" && role.GuildID != guild.ID {
		e.metricInc(MetricResolveRejected)
		return false, ErrInvalidArgument
	}

	allowed := IsOwner(guild, actor) || memberRank(actor) > role.Position

	e.recordInteract(ctx, guild, actor.UserID, role.ID, allowed)
	return allowed, nil
}

// CanInteractWithEmote decides whether actor may use a role-restricted emote.
// An unrestricted emote is usable by everyone; holding any restricting role
// grants; so does the owner, or strictly outranking the highest restricting
// role.
func (e *Engine) CanInteractWithEmote(ctx context.Context, guild Guild, actor Member, emote Emote) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	if err := e.checkSameGuild(ctx, guild, actor); err != nil {
		return false, err
	}

	allowed := false
	switch {
	case len(emote.Roles) == 0:
		allowed = true
	case IsOwner(guild, actor):
		allowed = true
	case holdsAnyRole(actor, emote.Roles):
		allowed = true
	default:
		allowed = memberRank(actor) > highestRolePosition(emote.Roles)
	}

	e.recordInteract(ctx, guild, actor.UserID, emote.ID, allowed)
	return allowed, nil
}

func holdsAnyRole(member Member, roles []Role) bool {
	for _, held := range member.Roles {
		for _, role := range roles {
			if held.ID == role.ID {
				return true
			}
		}
	}
	return false
}

func (e *Engine) recordInteract(ctx context.Context, guild Guild, actorID, targetID string, allowed bool) {
	if allowed {
		e.metricInc(MetricInteractAllowed)
		return
	}

	e.metricInc(MetricInteractDenied)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditInteractDenied,
		GuildID:   guild.ID,
		ActorID:   actorID,
		TargetID:  targetID,
	})
}
