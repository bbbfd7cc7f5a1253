package guildperm

import (
	"context"
	"strconv"
	"time"

	"github.com/drossler/guildperm/permission"
)

// Attestation is the verified content of a permission attestation token.
type Attestation struct {
	UserID      string
	GuildID     string
	ChannelID   string
	Permissions permission.Set
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Attest resolves the member's guild-level permissions and returns them as a
// signed token downstream services can verify without re-resolving. Fails
// with [ErrAttestationDisabled] when no signer is configured.
func (e *Engine) Attest(ctx context.Context, guild Guild, member Member) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.jwtManager == nil {
		return "", ErrAttestationDisabled
	}

	perms, err := e.Resolve(ctx, guild, member)
	if err != nil {
		return "", err
	}

	return e.signAttestation(ctx, guild.ID, "", member.UserID, perms)
}

// AttestChannel resolves the member's channel-level permissions and returns
// them as a signed token.
func (e *Engine) AttestChannel(ctx context.Context, guild Guild, member Member, channel Channel) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.jwtManager == nil {
		return "", ErrAttestationDisabled
	}

	perms, err := e.ResolveChannel(ctx, guild, member, channel)
	if err != nil {
		return "", err
	}

	return e.signAttestation(ctx, guild.ID, channel.ID, member.UserID, perms)
}

func (e *Engine) signAttestation(ctx context.Context, guildID, channelID, userID string, perms permission.Set) (string, error) {
	// the protocol serializes permission integers as decimal strings
	raw := strconv.FormatUint(perms.Raw(), 10)

	token, err := e.jwtManager.Create(userID, guildID, channelID, raw)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricAttestIssued)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditAttestIssued,
		GuildID:   guildID,
		ChannelID: channelID,
		ActorID:   userID,
		Success:   true,
	})
	return token, nil
}

// VerifyAttestation checks a token's signature and lifetime and returns its
// content. The embedded bitmask is range-validated like any other raw value.
func (e *Engine) VerifyAttestation(token string) (Attestation, error) {
	if e == nil {
		return Attestation{}, ErrEngineNotReady
	}
	if e.jwtManager == nil {
		return Attestation{}, ErrAttestationDisabled
	}

	claims, err := e.jwtManager.Parse(token)
	if err != nil {
		e.metricInc(MetricAttestVerifyFailed)
		return Attestation{}, err
	}

	raw, err := strconv.ParseInt(claims.Perm, 10, 64)
	if err != nil {
		e.metricInc(MetricAttestVerifyFailed)
		return Attestation{}, permission.ErrOutOfRange
	}
	perms, err := permission.FromRaw(raw)
	if err != nil {
		e.metricInc(MetricAttestVerifyFailed)
		return Attestation{}, err
	}

	out := Attestation{
		UserID:      claims.UID,
		GuildID:     claims.GID,
		ChannelID:   claims.CID,
		Permissions: perms,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
