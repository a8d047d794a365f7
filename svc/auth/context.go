package auth

import (
	"context"

	"github.com/dmitrymomot/newsdesk/storage"
)

type userContextKey struct{}

// SetUserToContext stores the resolved user in context for the middleware chain.
func SetUserToContext(ctx context.Context, user *storage.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext retrieves the resolved user from context.
// Returns nil if no user was previously stored.
func GetUserFromContext(ctx context.Context) *storage.User {
	user, _ := ctx.Value(userContextKey{}).(*storage.User)
	return user
}
