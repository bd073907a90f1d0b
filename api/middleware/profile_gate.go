package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/pkg/config"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// ProfileReminderHeader carries the one-time completion nudge on soft-gated
// responses.
const ProfileReminderHeader = "X-Profile-Reminder"

// profileFlagStore is the Redis surface the gate needs: a one-shot reminder
// flag and a session-scoped skip flag, both keyed by the access id.
type profileFlagStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	ProfileReminderKey(accessID string) string
	ProfileSkipKey(accessID string) string
}

// ProfileGate blocks users with incomplete profiles. Routes wrapped with
// hard=true return PROFILE_INCOMPLETE; soft routes pass through, attaching a
// one-time reminder per session unless the user skipped it.
type ProfileGate struct {
	cfg   config.ProfileGateConfig
	store profileFlagStore
	logg  *logger.Logger
}

func NewProfileGate(cfg config.ProfileGateConfig, store profileFlagStore, logg *logger.Logger) *ProfileGate {
	return &ProfileGate{cfg: cfg, store: store, logg: logg}
}

// Hard rejects incomplete profiles outright. The response details tell the
// client where to complete the profile and where to come back to.
func (g *ProfileGate) Hard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ProfileCompleteFromContext(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		err := pkgerrors.New(pkgerrors.CodeProfileIncomplete, "complete your profile to use this feature").
			WithDetails(map[string]any{
				"complete_profile_url": g.cfg.CompleteProfilePath,
				"next":                 r.URL.RequestURI(),
			})
		responses.WriteError(r.Context(), g.logg, w, err)
	})
}

// Soft lets the request through and nudges once per session.
func (g *ProfileGate) Soft(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ProfileCompleteFromContext(ctx) || g.store == nil {
			next.ServeHTTP(w, r)
			return
		}

		accessID := AccessIDFromContext(ctx)
		if accessID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if skipped, err := g.store.Get(ctx, g.store.ProfileSkipKey(accessID)); err == nil && skipped != "" {
			next.ServeHTTP(w, r)
			return
		}

		// SetNX makes the reminder fire exactly once per session.
		first, err := g.store.SetNX(ctx, g.store.ProfileReminderKey(accessID), "1", g.cfg.ReminderTTL)
		if err != nil && g.logg != nil {
			g.logg.Warn(ctx, "profile reminder flag failed: "+err.Error())
		}
		if err == nil && first {
			w.Header().Set(ProfileReminderHeader, g.cfg.CompleteProfilePath)
			if g.logg != nil {
				g.logg.Info(g.logg.WithField(ctx, "complete_profile_url", g.cfg.CompleteProfilePath), "profile.reminder")
			}
		}

		next.ServeHTTP(w, r)
	})
}
