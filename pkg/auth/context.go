package auth

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const identityKey contextKey = "identity"

var ErrNoIdentity = errors.New("identity not found")

// CurrentIdentity retrieves the authenticated identity from the context.
// Returns ErrNoIdentity if not present.
func CurrentIdentity(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		log.Trace("identity not found in context")
		return Identity{}, ErrNoIdentity
	}
	return identity, nil
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
