package guildperm

import "context"

type requestIDContextKey struct{}
type shardIDContextKey struct{}

// WithRequestID attaches a caller-side correlation ID to ctx. The engine
// copies it into every audit event emitted during the call.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// WithShardID attaches the gateway shard number that sourced the entity
// snapshot. Audit-only; resolution itself never reads it.
func WithShardID(ctx context.Context, shardID string) context.Context {
	return context.WithValue(ctx, shardIDContextKey{}, shardID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func shardIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	shardID, _ := ctx.Value(shardIDContextKey{}).(string)
	return shardID
}
