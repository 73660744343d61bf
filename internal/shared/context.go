package shared

import "context"

type userContextKey struct{}

// ContextWithUserID stores the authenticated user ID in context.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userContextKey{}, userID)
}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userContextKey{}).(int64)
	return userID, ok
}
