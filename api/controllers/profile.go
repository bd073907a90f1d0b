package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/agrisphere/agrisphere-backend/api/middleware"
	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/api/validators"
	"github.com/agrisphere/agrisphere-backend/internal/profile"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// profileFlagStore is the Redis surface the profile endpoints touch: the
// session-scoped skip flag plus the reminder flag cleared on completion.
type profileFlagStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProfileSkipKey(accessID string) string
	ProfileReminderKey(accessID string) string
}

// ProfileGet returns the caller's own profile.
func ProfileGet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// ProfileComplete fills in the role-specific required fields. Once the
// profile goes complete the session's skip and reminder flags are stale, so
// they are cleared best-effort.
func ProfileComplete(svc profile.Service, store profileFlagStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body profile.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Complete(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if store != nil && user.ProfileComplete {
			accessID := middleware.AccessIDFromContext(r.Context())
			if accessID != "" {
				if err := store.Del(r.Context(), store.ProfileSkipKey(accessID), store.ProfileReminderKey(accessID)); err != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "profile.flags_clear_failed")
				}
			}
		}
		responses.WriteSuccess(w, user)
	}
}

// ProfileEdit applies a partial update to the caller's profile.
func ProfileEdit(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body profile.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Edit(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// ProfileSkip mutes the soft-gate reminder for the rest of the session. It
// never unlocks hard-gated routes.
func ProfileSkip(store profileFlagStore, sessionTTL time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := store.Set(r.Context(), store.ProfileSkipKey(accessID), "1", sessionTTL); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store skip flag"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "skipped"})
	}
}
