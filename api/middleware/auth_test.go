package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/agrisphere/agrisphere-backend/pkg/auth"
	"github.com/agrisphere/agrisphere-backend/pkg/config"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

type fakeSessionChecker struct {
	sessions map[string]bool
}

func (f *fakeSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	return f.sessions[accessID], nil
}

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "agrisphere-test",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, accessID string, complete bool) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:          userID,
		Role:            enums.RoleFarmer,
		ProfileComplete: complete,
		JTI:             accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	t.Parallel()

	cfg := jwtTestConfig()
	token, userID := mintToken(t, cfg, "sess-ok", true)
	checker := &fakeSessionChecker{sessions: map[string]bool{"sess-ok": true}}

	var gotUser, gotRole, gotAccess string
	var gotComplete bool
	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotComplete = ProfileCompleteFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser != userID.String() || gotRole != "farmer" || !gotComplete || gotAccess != "sess-ok" {
		t.Fatalf("unexpected context: user=%s role=%s complete=%v access=%s", gotUser, gotRole, gotComplete, gotAccess)
	}
}

func TestAuthRejectsMissingAndRevokedSessions(t *testing.T) {
	t.Parallel()

	cfg := jwtTestConfig()
	checker := &fakeSessionChecker{sessions: map[string]bool{}}
	handler := Auth(cfg, checker, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rec.Code)
	}

	token, _ := mintToken(t, cfg, "sess-revoked", false)
	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session: expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleRestrictsAccess(t *testing.T) {
	t.Parallel()

	handler := RequireRole(nil, "admin")(okHandler())

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithRole(r.Context(), "customer"))
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithRole(r.Context(), "admin"))
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
