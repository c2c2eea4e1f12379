package middleware

import (
	"net/http"
	"strings"

	"identity-console/internal/domain"
)

// AnonymousCaller is the actor recorded when authentication is disabled.
const AnonymousCaller = "anonymous"

// Authenticate requires a valid bearer token and stores the caller in the
// request context. A nil validator disables authentication and every request
// runs as AnonymousCaller.
func Authenticate(v JWTValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{Name: AnonymousCaller})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="identity-console"`)
				writeError(w, r, http.StatusUnauthorized, "unauthorized: bearer token required")
				return
			}
			claims, err := v.Validate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				writeError(w, r, http.StatusUnauthorized, "unauthorized: invalid bearer token")
				return
			}
			caller := claims.Caller()
			if caller == "" {
				writeError(w, r, http.StatusUnauthorized, "unauthorized: token has no subject")
				return
			}
			ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{Name: caller, Issuer: claims.Issuer})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
