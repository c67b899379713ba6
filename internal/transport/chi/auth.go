package chi

import (
	"net/http"
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ViewerMiddleware resolves "Authorization: Token <token>" to the viewer the
// search is made for. Requests without a token stay anonymous; other schemes
// are ignored. An unknown token is rejected.
func ViewerMiddleware(tokens map[string]int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const tokenPrefix = "Token "
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, tokenPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := tokens[strings.TrimSpace(auth[len(tokenPrefix):])]
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeNotAuthenticated, "invalid token")
				return
			}
			ctx := domain.ContextWithViewer(r.Context(), domain.Viewer{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
