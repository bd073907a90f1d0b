package controllers

import (
	"net/http"

	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/api/validators"
	adminsvc "github.com/agrisphere/agrisphere-backend/internal/admin"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

const adminListMaxLimit = 200

// AdminUsersList lists platform users, optionally narrowed by role or search.
func AdminUsersList(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, adminListMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := adminsvc.UserListFilter{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
			Role:  validators.SanitizeString(r.URL.Query().Get("role"), 20),
			Limit: limit,
		}

		list, err := svc.ListUsers(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"users": list})
	}
}

// AdminUsersSetRole reassigns a user's role, syncing the consultant shadow
// record on promotion or demotion.
func AdminUsersSetRole(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminsvc.SetRoleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SetUserRole(r.Context(), userID, body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminUsersSetVerified flips a user's verification badge.
func AdminUsersSetVerified(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminUserToggle(svc, logg, func(svc adminsvc.Service, r *http.Request, value bool) error {
		userID, err := pathUUID(r, "userID")
		if err != nil {
			return err
		}
		return svc.SetUserVerified(r.Context(), userID, value)
	})
}

// AdminUsersSetActive activates or deactivates an account.
func AdminUsersSetActive(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminUserToggle(svc, logg, func(svc adminsvc.Service, r *http.Request, value bool) error {
		userID, err := pathUUID(r, "userID")
		if err != nil {
			return err
		}
		return svc.SetUserActive(r.Context(), userID, value)
	})
}

func adminUserToggle(svc adminsvc.Service, logg *logger.Logger, apply func(adminsvc.Service, *http.Request, bool) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var body adminsvc.ToggleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(svc, r, body.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"value": body.Value})
	}
}
