package controllers

import (
	"net/http"

	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/api/validators"
	adminsvc "github.com/agrisphere/agrisphere-backend/internal/admin"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// AdminConsultantsList merges shadow consultant records with consultant-role
// users that have no shadow yet.
func AdminConsultantsList(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		list, err := svc.ListConsultants(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"consultants": list})
	}
}

// AdminConsultantsSetVerified flips the verification badge on a shadow record.
func AdminConsultantsSetVerified(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminConsultantToggle(svc, logg, func(svc adminsvc.Service, r *http.Request, value bool) error {
		consultantID, err := pathUUID(r, "consultantID")
		if err != nil {
			return err
		}
		return svc.SetConsultantVerified(r.Context(), consultantID, value)
	})
}

// AdminConsultantsSetActive hides or restores a consultant in the directory.
func AdminConsultantsSetActive(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminConsultantToggle(svc, logg, func(svc adminsvc.Service, r *http.Request, value bool) error {
		consultantID, err := pathUUID(r, "consultantID")
		if err != nil {
			return err
		}
		return svc.SetConsultantActive(r.Context(), consultantID, value)
	})
}

// AdminConsultantRequests lists every booking aimed at one consultant.
func AdminConsultantRequests(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		consultantID, err := pathUUID(r, "consultantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ConsultantRequests(r.Context(), consultantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"consultations": list})
	}
}

func adminConsultantToggle(svc adminsvc.Service, logg *logger.Logger, apply func(adminsvc.Service, *http.Request, bool) error) http.HandlerFunc {
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
