// Package contexthelpers carries request-scoped values set by the middleware
// chain.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const IsAuthenticatedContextKey = contextKey("isAuthenticated")
const AuthenticatedUserEmailContextKey = contextKey("authenticatedUserEmail")
const CurrentPathContextKey = contextKey("currentPath")

// GuestUserID namespaces records of visitors who have not logged in.
const GuestUserID = "guest"

func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}

	return isAuthenticated
}

func AuthenticatedUserEmail(ctx context.Context) string {
	email, ok := ctx.Value(AuthenticatedUserEmailContextKey).(string)
	if !ok {
		return ""
	}

	return email
}

// UserID resolves the storage namespace for the request: the authenticated
// email, or the shared guest namespace.
func UserID(ctx context.Context) string {
	if email := AuthenticatedUserEmail(ctx); email != "" {
		return email
	}
	return GuestUserID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func AuthenticateContext(r *http.Request, email string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, AuthenticatedUserEmailContextKey, email)
	return r.WithContext(ctx)
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}
