// Package tenant carries the verified caller identity from the auth
// middleware to the handlers. Handlers read it once and pass the company id
// explicitly to every service call; nothing below the handler layer looks
// at the context for tenant information.
package tenant

import "context"

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller.
type Identity struct {
	CompanyID string
	UserID    string
	Role      string
}

// WithIdentity attaches the caller identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
