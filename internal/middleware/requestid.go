package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDHeader carries the correlation token in both directions.
const RequestIDHeader = "X-Request-ID"

// CorrelationIDHeader is accepted from gateways that use it instead of
// X-Request-ID. Responses always use RequestIDHeader.
const CorrelationIDHeader = "X-Correlation-ID"

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

// RequestID assigns a correlation token to each request. A well-formed
// incoming token is reused; anything else is replaced with a new UUID so
// that client input never reaches the logs or error bodies unchecked.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := incomingRequestID(r)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func incomingRequestID(r *http.Request) string {
	for _, h := range []string{RequestIDHeader, CorrelationIDHeader} {
		if id := r.Header.Get(h); validRequestID.MatchString(id) {
			return id
		}
	}
	return ""
}

// RequestIDFromContext returns the request's correlation token, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
