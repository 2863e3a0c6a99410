package auth

import (
	"context"

	"github.com/xpensecontrol/xpense/internal/user"
)

type ctxKey string

const userKey ctxKey = "currentUser"

// ContextWithUser attaches the authenticated user to the request context.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, if any. Handlers treat a
// missing user as 401; nothing below the transport layer reads ambient
// global state.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}
