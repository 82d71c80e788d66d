package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/ugmi/ugmi/internal/auth"
	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/model"
)

type stubVerifier struct {
	v   auth.Verification
	err error
}

func (s stubVerifier) Verify(context.Context, string) (auth.Verification, error) {
	return s.v, s.err
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	alice := &model.User{ID: 7, Username: "alice"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		body       string
		verifier   stubVerifier
		wantStatus int
		wantCode   any
		wantMsg    string
		wantReason string
	}{
		{"missing token", `{"username":"x"}`, stubVerifier{}, 401, float64(101), "Private area, token required.", "missing_token"},
		{"null token", `{"token":null}`, stubVerifier{}, 401, float64(101), "Private area, token required.", "missing_token"},
		{"non-string token", `{"token":12}`, stubVerifier{}, 401, float64(101), "Private area, token required.", "missing_token"},
		{"invalid token", `{"token":"abc"}`, stubVerifier{v: auth.Verification{Status: auth.StatusInvalid}}, 401, float64(102), "Invalid token.", "invalid_token"},
		{"expired token", `{"token":"abc"}`, stubVerifier{v: auth.Verification{Status: auth.StatusExpired}}, 401, float64(103), "Token has expired.", "expired_token"},
		{"storage fault", `{"token":"abc"}`, stubVerifier{err: errors.New("db down")}, 500, nil, "Internal server error.", ""},
		{"valid token", `{"token":"abc"}`, stubVerifier{v: auth.Verification{Status: auth.StatusValid, User: alice}}, 200, nil, "hello alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := metrics.NewInMemory()
			endpoint := func(req *Request) *Response {
				if auth.UserFromContext(req.HTTP.Context()) != req.User {
					return FailNoCode(http.StatusTeapot, "context user mismatch")
				}
				return Success("hello "+req.User.Username, nil)
			}

			h := Handler(endpoint, RequireToken(tt.verifier, logger, rec))
			resp := serve(h, "application/json", tt.body)

			if resp.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.Code, tt.wantStatus, resp.Body.String())
			}
			body := decodeEnvelope(t, resp)
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if body["msg"] != tt.wantMsg {
				t.Errorf("msg = %q, want %q", body["msg"], tt.wantMsg)
			}
			if tt.wantReason != "" {
				if got := rec.Snapshot().AuthFailures[tt.wantReason]; got != 1 {
					t.Errorf("AuthFailures[%s] = %d, want 1", tt.wantReason, got)
				}
			}
		})
	}
}

func TestRequireToken_ShapeRunsFirst(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Handler(okEndpoint, Shape(String("username")), RequireToken(stubVerifier{}, logger, nil))

	resp := serve(h, "application/json", `{"token":"abc"}`)
	if !strings.Contains(resp.Body.String(), "Where is username?") {
		t.Errorf("expected shape failure before auth, got %s", resp.Body.String())
	}
}
