package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithUser returns a context carrying the given identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	recordCaller(ctx, userID)
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

// RequireAuth returns an interceptor that validates the bearer token and
// rejects the call when it is missing or invalid.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithUser(ctx, claims.UserID, claims.Email), req)
		}
	}
}

// OptionalAuth validates a bearer token when present but lets anonymous
// calls through. Handlers decide what an anonymous caller may do.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Invalid tokens are ignored here.
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithUser(ctx, claims.UserID, claims.Email)
				}
			}
			return next(ctx, req)
		}
	}
}
