package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ugmi/ugmi/internal/auth"
	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/middleware"
)

// Token codes.
const (
	CodeTokenRequired = 101
	CodeTokenInvalid  = 102
	CodeTokenExpired  = 103
)

// TokenVerifier resolves API tokens. Implemented by *auth.Authority.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Verification, error)
}

// RequireToken authenticates the "token" payload field and stores the user
// on the request and in its context.
func RequireToken(verifier TokenVerifier, logger *slog.Logger, recorder metrics.Recorder) Guard {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(req *Request) *Response {
		ctx := req.HTTP.Context()

		token, ok := req.Payload["token"].(string)
		if !ok {
			logAuthFailure(logger, req, "missing_token")
			recorder.IncAuthFailure("missing_token")
			return Fail(http.StatusUnauthorized, CodeTokenRequired, "Private area, token required.")
		}

		v, err := verifier.Verify(ctx, token)
		if err != nil {
			logger.Error("token verification failed",
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetRequestID(ctx)),
			)
			return InternalError
		}

		switch v.Status {
		case auth.StatusValid:
			req.User = v.User
			req.HTTP = req.HTTP.WithContext(auth.ContextWithUser(ctx, v.User))
			return nil
		case auth.StatusExpired:
			logAuthFailure(logger, req, "expired_token")
			recorder.IncAuthFailure("expired_token")
			return Fail(http.StatusUnauthorized, CodeTokenExpired, "Token has expired.")
		default:
			logAuthFailure(logger, req, "invalid_token")
			recorder.IncAuthFailure("invalid_token")
			return Fail(http.StatusUnauthorized, CodeTokenInvalid, "Invalid token.")
		}
	}
}

func logAuthFailure(logger *slog.Logger, req *Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", req.HTTP.RemoteAddr),
		slog.String("endpoint", req.HTTP.Method+" "+req.HTTP.URL.Path),
		slog.String("request_id", middleware.GetRequestID(req.HTTP.Context())),
	)
}
