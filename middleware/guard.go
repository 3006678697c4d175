package middleware

import (
	"context"
	"net/http"
	"strings"

	grcAuth "github.com/MrEthical07/grcAuth"
)

type subjectContextKey struct{}

// SubjectFromContext returns the authenticated account id stored by Guard.
func SubjectFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(subjectContextKey{}).(string)
	return uid, ok
}

// Guard authenticates the request's bearer token against the engine and
// injects the subject account id into the request context. Requests without
// a valid session token get 401 and never reach the next handler.
func Guard(engine *grcAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			uid, err := engine.ParseAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey{}, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
