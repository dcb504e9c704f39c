package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// callerKey carries a *caller from the logging interceptor down to the auth
// interceptors, which fill it in once the token has been checked.
type callerKey struct{}

type caller struct {
	userID string
}

func recordCaller(ctx context.Context, userID string) {
	if c, ok := ctx.Value(callerKey{}).(*caller); ok {
		c.userID = userID
	}
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Mount it outside the auth interceptors so rejected calls are logged too;
// the caller's user ID is still reported when authentication succeeds.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			c := &caller{userID: GetUserID(ctx)}

			resp, err := next(context.WithValue(ctx, callerKey{}, c), req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("user_id", c.userID),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if err == nil {
				logger.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, slog.String("code", code.String()), slog.Any("error", err))
			logger.LogAttrs(ctx, errorLevel(code), "RPC error", attrs...)
			return resp, err
		}
	}
}

// errorLevel reports caller mistakes at warn and server faults at error.
func errorLevel(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
