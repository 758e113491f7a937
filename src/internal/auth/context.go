package auth

import (
	"context"

	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

type contextKey string

const userKey contextKey = "portal-auth-user"

// WithUser stores the resolved identity on the context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext retrieves the identity stored by WithUser.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}
