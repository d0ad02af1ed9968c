package auth

import "context"

type ctxKey struct{}

// CtxWithUser stores the validated claims in the request context.
func CtxWithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// UserFromCtx returns the claims stored by the auth middleware, or nil
// when the request was not authenticated.
func UserFromCtx(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ctxKey{}).(*Claims)
	return claims
}
