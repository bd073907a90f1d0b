package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agrisphere/agrisphere-backend/api/responses"
	"github.com/agrisphere/agrisphere-backend/api/validators"
	adminsvc "github.com/agrisphere/agrisphere-backend/internal/admin"
	"github.com/agrisphere/agrisphere-backend/internal/products"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// AdminProductsList lists products across all sellers, hidden ones included.
func AdminProductsList(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		filter := adminsvc.ProductListFilter{
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 120),
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 80),
			Limit:    limit,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid active"))
				return
			}
			filter.Active = &active
		}

		list, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": list})
	}
}

// AdminProductsSetActive hides or restores a listing.
func AdminProductsSetActive(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminsvc.ToggleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetProductActive(r.Context(), productID, body.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"value": body.Value})
	}
}

// AdminProductsEdit edits any listing with the same rules as a seller edit,
// inventory adjustment logging included.
func AdminProductsEdit(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body products.UpdateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.EditProduct(r.Context(), actorID, productID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminCategoriesRename bulk-renames a category across the catalog.
func AdminCategoriesRename(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var body adminsvc.RenameCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.RenameCategory(r.Context(), body.OldName, body.NewName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}

// AdminCategoriesDelete clears a category from every product carrying it.
// Products survive with no category.
func AdminCategoriesDelete(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		name := validators.SanitizeString(r.URL.Query().Get("name"), 80)
		updated, err := svc.DeleteCategory(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
