package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"identity-console/internal/domain"
	"identity-console/internal/middleware"
	"identity-console/internal/reconcile"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes. A
// partially applied mutation is a server error whatever its cause, since the
// addressed principal exists and some of the changes were kept.
func httpStatusFromDomainError(err error) int {
	var (
		partial      *reconcile.PartialError
		notFound     *domain.NotFoundError
		accessDenied *domain.AccessDeniedError
		validation   *domain.ValidationError
		conflict     *domain.ConflictError
		unknownField *domain.UnknownFieldError
		invalidPage  *domain.InvalidPageRequestError
		unknownClaim *domain.UnknownClaimTypeError
		unavailable  *domain.UnavailableError
	)

	switch {
	case errors.As(err, &partial):
		return http.StatusInternalServerError
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation),
		errors.As(err, &unknownField),
		errors.As(err, &invalidPage),
		errors.As(err, &unknownClaim):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the JSON error envelope. Partial is set when a mutation
// stopped part way and some of its changes were kept.
type errorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Partial   bool   `json:"partial,omitempty"`
}

// writeError renders err. Client errors carry their message; server errors
// carry a generic one plus the request id, with the detail only in the log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatusFromDomainError(err)
	resp := errorResponse{
		Code:      code,
		Message:   err.Error(),
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}
	var partial *reconcile.PartialError
	resp.Partial = errors.As(err, &partial)

	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", resp.RequestID, "error", err)
		switch {
		case resp.Partial:
			resp.Message = fmt.Sprintf("update partially applied: %s %s failed after %d of %d changes",
				partial.Op, partial.Key, partial.Applied, partial.Applied+partial.Pending)
		case code == http.StatusServiceUnavailable:
			resp.Message = "identity store unavailable"
		default:
			resp.Message = "internal error"
		}
	} else {
		h.logger.Debug("request rejected",
			"method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode response", "error", err)
	}
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}
