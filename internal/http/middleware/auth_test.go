package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/user"
	"jobdesk/internal/security"
)

func identityEcho(t *testing.T, gotID *common.UUID, gotRole *user.Role) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			*gotID = id
		}
		if role, ok := RoleFromContext(r.Context()); ok {
			*gotRole = role
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	provider := security.NewJWTProvider("test-secret")
	userID := common.NewUUID()
	token, _, err := provider.Generate(userID, "employer", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var gotID common.UUID
	var gotRole user.Role
	handler := NewAuthMiddleware(provider).Authenticate(identityEcho(t, &gotID, &gotRole))

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != userID {
		t.Fatalf("expected identity %s, got %s", userID, gotID)
	}
	if gotRole != user.RoleEmployer {
		t.Fatalf("expected employer role, got %s", gotRole)
	}
}

func TestAuthenticateDenials(t *testing.T) {
	provider := security.NewJWTProvider("test-secret")
	other := security.NewJWTProvider("other-secret")
	expired, _, err := provider.Generate(common.NewUUID(), "seeker", -time.Minute)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	foreign, _, err := other.Generate(common.NewUUID(), "seeker", time.Hour)
	if err != nil {
		t.Fatalf("generate foreign: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"malformed token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"wrong signature", "Bearer " + foreign},
	}

	handler := NewAuthMiddleware(provider).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/applications", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if success, ok := body["success"].(bool); !ok || success {
				t.Fatalf("expected success=false, got %v", body["success"])
			}
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	provider := security.NewJWTProvider("test-secret")
	userID := common.NewUUID()
	token, _, err := provider.Generate(userID, "seeker", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Run("valid token attaches identity", func(t *testing.T) {
		var gotID common.UUID
		var gotRole user.Role
		handler := NewAuthMiddleware(provider).OptionalAuthenticate(identityEcho(t, &gotID, &gotRole))

		req := httptest.NewRequest(http.MethodPost, "/applications", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != userID {
			t.Fatalf("expected identity %s, got %s", userID, gotID)
		}
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		var gotID common.UUID
		var gotRole user.Role
		handler := NewAuthMiddleware(provider).OptionalAuthenticate(identityEcho(t, &gotID, &gotRole))

		req := httptest.NewRequest(http.MethodPost, "/applications", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected anonymous pass-through, got %d", rec.Code)
		}
		if gotID != "" {
			t.Fatalf("expected no identity, got %s", gotID)
		}
	})

	t.Run("no header passes through anonymously", func(t *testing.T) {
		var gotID common.UUID
		var gotRole user.Role
		handler := NewAuthMiddleware(provider).OptionalAuthenticate(identityEcho(t, &gotID, &gotRole))

		req := httptest.NewRequest(http.MethodPost, "/applications", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected anonymous pass-through, got %d", rec.Code)
		}
		if gotID != "" {
			t.Fatalf("expected no identity, got %s", gotID)
		}
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequireRole(user.RoleEmployer)(next)

	t.Run("matching role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		req = req.WithContext(withIdentity(req.Context(), common.NewUUID(), user.RoleEmployer))
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		req = req.WithContext(withIdentity(req.Context(), common.NewUUID(), user.RoleSeeker))
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("no identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
