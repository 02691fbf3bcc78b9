package auth

import "context"

type ctxKey string

const identityContextKey ctxKey = "taskly.auth.identity"

func withIdentityContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityContextKey)
	id, ok := v.(Identity)
	return id, ok
}
