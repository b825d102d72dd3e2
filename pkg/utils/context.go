package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ActorIDKey contextKey = "actor_id"
)

// SetActorContext stamps the acting user on the request context.
// Authorization itself is handled outside this service.
func SetActorContext(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, ActorIDKey, actorID.String())
}

func GetActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	actorVal := ctx.Value(ActorIDKey)
	if actorVal == nil {
		return uuid.Nil, false
	}

	actorStr, ok := actorVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	actorID, err := uuid.Parse(actorStr)
	if err != nil {
		return uuid.Nil, false
	}

	return actorID, true
}

// ActorString returns the actor id for audit log fields, or "unknown".
func ActorString(ctx context.Context) string {
	if id, ok := GetActorFromContext(ctx); ok {
		return id.String()
	}
	return "unknown"
}
