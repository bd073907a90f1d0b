package controllers

import (
	"net/http"

	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/api/validators"
	adminsvc "github.com/agrisphere/agrisphere-backend/internal/admin"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// AdminOrdersList lists orders across all buyers, filterable by status or
// buyer email.
func AdminOrdersList(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		filter := adminsvc.OrderListFilter{
			Status:     validators.SanitizeString(r.URL.Query().Get("status"), 20),
			BuyerEmail: validators.SanitizeString(r.URL.Query().Get("buyer_email"), 254),
			Limit:      limit,
		}

		list, err := svc.ListOrders(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": list})
	}
}

// AdminOrdersSetStatus moves an order to any valid status. Admin overrides
// skip transition checks so support can fix mis-shipped state.
func AdminOrdersSetStatus(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminsvc.SetOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetOrderStatus(r.Context(), orderID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminDashboard aggregates the platform-wide stats panel.
func AdminDashboard(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
