package controllers

import (
	"net/http"

	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/api/validators"
	consultsvc "github.com/agrisphere/agrisphere-backend/internal/consultations"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// ConsultantsList is the public directory of active consultants.
func ConsultantsList(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
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

// ConsultantsGet shows a single consultant's public profile.
func ConsultantsGet(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
			return
		}

		userID, err := pathUUID(r, "consultantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		consultant, err := svc.ViewConsultant(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, consultant)
	}
}

// ConsultationsBook requests a session with a consultant.
func ConsultationsBook(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body consultsvc.BookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		consultation, err := svc.Book(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, consultation)
	}
}

// ConsultationsMine lists the consultations the caller booked as a client.
func ConsultationsMine(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMine(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"consultations": list})
	}
}

// ConsultationsAccept lets the booked consultant take a pending request.
func ConsultationsAccept(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return consultationRespond(svc, logg, func(svc consultsvc.Service, r *http.Request) (any, error) {
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			return nil, err
		}
		consultationID, err := pathUUID(r, "consultationID")
		if err != nil {
			return nil, err
		}
		return svc.Accept(r.Context(), actorID, consultationID)
	})
}

// ConsultationsDecline lets the booked consultant turn a pending request down.
func ConsultationsDecline(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return consultationRespond(svc, logg, func(svc consultsvc.Service, r *http.Request) (any, error) {
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			return nil, err
		}
		consultationID, err := pathUUID(r, "consultationID")
		if err != nil {
			return nil, err
		}
		return svc.Decline(r.Context(), actorID, consultationID)
	})
}

// ConsultationsComplete closes an accepted session with notes and
// recommendations.
func ConsultationsComplete(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		consultationID, err := pathUUID(r, "consultationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body consultsvc.CompleteRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		consultation, err := svc.Complete(r.Context(), actorID, role, consultationID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, consultation)
	}
}

// ConsultationsDashboard returns the consultant's own profile plus workload.
func ConsultationsDashboard(svc consultsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

func consultationRespond(svc consultsvc.Service, logg *logger.Logger, respond func(consultsvc.Service, *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "consultation service unavailable"))
			return
		}

		result, err := respond(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
