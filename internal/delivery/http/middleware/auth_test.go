package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	userID string
	role   string
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.userID, f.role, nil
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name            string
		authHeader      string
		verifier        domain.TokenVerifier
		wantStatus      int
		wantBodyCode    string
		nextCalled      bool
		wantContextID   string
		wantContextRole string
	}{
		{
			name:            "valid token sets caller and calls next",
			authHeader:      "Bearer valid-token",
			verifier:        &fakeTokenVerifier{userID: "user-123", role: domain.RoleStudent},
			wantStatus:      http.StatusOK,
			nextCalled:      true,
			wantContextID:   "user-123",
			wantContextRole: domain.RoleStudent,
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "verifier rejects token",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("token is expired")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID, capturedRole string
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := UserIDFromContext(r.Context()); ok {
					capturedUserID = id
				}
				if role, ok := RoleFromContext(r.Context()); ok {
					capturedRole = role
				}
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(tt.verifier)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/registrations/my-registrations", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, capturedUserID, "user ID in context")
				assert.Equal(t, tt.wantContextRole, capturedRole, "role in context")
			}
			if tt.wantStatus != http.StatusOK && tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		noCaller     bool
		allowed      []string
		wantStatus   int
		wantBodyCode string
		nextCalled   bool
	}{
		{
			name:       "allowed role passes through",
			role:       domain.RoleClub,
			allowed:    []string{domain.RoleClub, domain.RoleTNP, domain.RoleAdmin},
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "disallowed role gets 403",
			role:         domain.RoleStudent,
			allowed:      []string{domain.RoleClub, domain.RoleTNP, domain.RoleAdmin},
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
			nextCalled:   false,
		},
		{
			name:         "no caller in context gets 401",
			noCaller:     true,
			allowed:      []string{domain.RoleAdmin},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireRole(tt.allowed...)(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/events", nil)
			if !tt.noCaller {
				req = req.WithContext(SetCaller(req.Context(), "user-1", tt.role))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}
