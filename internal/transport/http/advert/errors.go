package advert

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/pkg/apperr"
)

// errorResponse carries the failed operation and the cause.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusErrorResponse is the status-change variant: the cause is the message.
type statusErrorResponse struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// writeError maps err to its HTTP status. Untagged errors are 500 and their
// text is still returned.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	kind := h.recordError(r, err)
	writeJSON(w, kind.HTTPStatus(), errorResponse{
		Message: operation,
		Error:   apperr.Message(err),
	})
}

func (h *Handler) writeStatusError(w http.ResponseWriter, r *http.Request, err error) {
	kind := h.recordError(r, err)
	writeJSON(w, kind.HTTPStatus(), statusErrorResponse{
		Message: apperr.Message(err),
		Error:   true,
	})
}

func (h *Handler) recordError(r *http.Request, err error) apperr.Kind {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	if h.metrics != nil {
		h.metrics.APIErrorsTotal.WithLabelValues(routePattern(r), kind.String()).Inc()
	}
	return kind
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
