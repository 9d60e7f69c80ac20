package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/services"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// InsufficientStock carries both quantities so the caller can retry
// with a corrected value.
func writeServiceError(w http.ResponseWriter, err error) {
	var nf *services.NotFoundError
	var is *services.InsufficientStockError
	var ve *services.ValidationError
	switch {
	case errors.As(err, &nf):
		httpx.JSONError(w, http.StatusNotFound, "not_found", map[string]any{"entity": nf.Entity, "id": nf.ID})
	case errors.As(err, &is):
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
			"item_id":   is.ItemID,
			"available": is.Available,
			"requested": is.Requested,
		})
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// pathID parses a positive integer path segment registered with the
// route pattern (e.g. {id}).
func pathID(r *http.Request, name string) (uint, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}
