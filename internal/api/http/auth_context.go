package httpapi

import (
	"context"

	"github.com/docflow/docflow/internal/domain/user"
)

type authContextKey string

const authUserKey authContextKey = "authUser"

func withAuthUser(ctx context.Context, u *user.User) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, authUserKey, u)
}

func authUserFromContext(ctx context.Context) *user.User {
	val := ctx.Value(authUserKey)
	if v, ok := val.(*user.User); ok {
		return v
	}
	return nil
}
