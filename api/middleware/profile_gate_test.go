package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrisphere/agrisphere-backend/pkg/config"
	"github.com/agrisphere/agrisphere-backend/pkg/types"
)

type fakeFlagStore struct {
	values map[string]string
}

func newFakeFlagStore() *fakeFlagStore {
	return &fakeFlagStore{values: map[string]string{}}
}

func (f *fakeFlagStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = "1"
	return true, nil
}

func (f *fakeFlagStore) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeFlagStore) ProfileReminderKey(accessID string) string {
	return "agri:profile_reminder:" + accessID
}

func (f *fakeFlagStore) ProfileSkipKey(accessID string) string {
	return "agri:profile_skip:" + accessID
}

func gateConfig() config.ProfileGateConfig {
	return config.ProfileGateConfig{
		CompleteProfilePath: "/api/v1/profile/complete",
		ReminderTTL:         time.Hour,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithClaims(complete bool, accessID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/products?draft=1", nil)
	ctx := WithProfileComplete(r.Context(), complete)
	ctx = WithAccessID(ctx, accessID)
	return r.WithContext(ctx)
}

func TestHardGateBlocksIncompleteProfile(t *testing.T) {
	t.Parallel()

	gate := NewProfileGate(gateConfig(), newFakeFlagStore(), nil)
	rec := httptest.NewRecorder()
	gate.Hard(okHandler()).ServeHTTP(rec, requestWithClaims(false, "sess-1"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "PROFILE_INCOMPLETE" {
		t.Fatalf("expected PROFILE_INCOMPLETE, got %s", envelope.Error.Code)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details, got %+v", envelope.Error.Details)
	}
	if details["complete_profile_url"] != "/api/v1/profile/complete" {
		t.Fatalf("unexpected complete_profile_url: %v", details["complete_profile_url"])
	}
	if details["next"] != "/api/v1/products?draft=1" {
		t.Fatalf("unexpected next: %v", details["next"])
	}
}

func TestHardGatePassesCompleteProfile(t *testing.T) {
	t.Parallel()

	gate := NewProfileGate(gateConfig(), newFakeFlagStore(), nil)
	rec := httptest.NewRecorder()
	gate.Hard(okHandler()).ServeHTTP(rec, requestWithClaims(true, "sess-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSoftGateRemindsOncePerSession(t *testing.T) {
	t.Parallel()

	gate := NewProfileGate(gateConfig(), newFakeFlagStore(), nil)
	handler := gate.Soft(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, requestWithClaims(false, "sess-2"))
	if first.Code != http.StatusOK {
		t.Fatalf("expected soft gate to pass, got %d", first.Code)
	}
	if first.Header().Get(ProfileReminderHeader) == "" {
		t.Fatalf("expected reminder header on first hit")
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, requestWithClaims(false, "sess-2"))
	if second.Header().Get(ProfileReminderHeader) != "" {
		t.Fatalf("expected no reminder on second hit")
	}
}

func TestSoftGateHonorsSkipFlag(t *testing.T) {
	t.Parallel()

	store := newFakeFlagStore()
	store.values[store.ProfileSkipKey("sess-3")] = "1"

	gate := NewProfileGate(gateConfig(), store, nil)
	rec := httptest.NewRecorder()
	gate.Soft(okHandler()).ServeHTTP(rec, requestWithClaims(false, "sess-3"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(ProfileReminderHeader) != "" {
		t.Fatalf("expected skip flag to suppress the reminder")
	}
}

func TestSkipNeverUnlocksHardGate(t *testing.T) {
	t.Parallel()

	store := newFakeFlagStore()
	store.values[store.ProfileSkipKey("sess-4")] = "1"

	gate := NewProfileGate(gateConfig(), store, nil)
	rec := httptest.NewRecorder()
	gate.Hard(okHandler()).ServeHTTP(rec, requestWithClaims(false, "sess-4"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected hard gate to stay closed, got %d", rec.Code)
	}
}
