package guildperm

import (
	"errors"
	"fmt"

	"github.com/drossler/guildperm/permission"
)

var (
	// ErrInvalidArgument is the base sentinel for caller input errors. It is
	// the same value as [permission.ErrInvalidArgument], so list-validation
	// failures surfaced through engine methods match it under errors.Is.
	ErrInvalidArgument = permission.ErrInvalidArgument
	// ErrCrossGuild is returned when a channel-level resolution mixes a member
	// and a channel from different guilds. Matches ErrInvalidArgument under
	// errors.Is.
	ErrCrossGuild = fmt.Errorf("%w: member and channel belong to different guilds", ErrInvalidArgument)
	// ErrForeignMember is returned when a member snapshot does not belong to
	// the guild snapshot it is resolved against. Matches ErrInvalidArgument
	// under errors.Is.
	ErrForeignMember = fmt.Errorf("%w: member does not belong to this guild", ErrInvalidArgument)
	// ErrEngineNotReady is returned by Engine methods called on a nil or
	// unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderUsed is returned when Build is called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrOverrideBuilt is returned when an OverrideBuilder is finalized twice.
	ErrOverrideBuilt = errors.New("override already built")
	// ErrCacheDisabled is returned by cache management calls when no resolve
	// cache is configured.
	ErrCacheDisabled = errors.New("resolve cache disabled")
	// ErrCacheUnavailable wraps Redis failures from the resolve cache.
	ErrCacheUnavailable = errors.New("resolve cache unavailable")
	// ErrAttestationDisabled is returned by Attest calls when no attestation
	// signer is configured.
	ErrAttestationDisabled = errors.New("attestation disabled")
)
