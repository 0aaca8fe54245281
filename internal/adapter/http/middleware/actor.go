package middleware

import (
	"context"
	"net/http"
	"strings"
)

// UserIDHeader carries the id of the user acting on the ledger. Every
// mutation is attributed to it.
const UserIDHeader = "X-User-ID"

// ContextKey is the type for context keys
type ContextKey string

const (
	// ActorContextKey is the context key for the acting user id
	ActorContextKey ContextKey = "actor"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	VerifyActor(token string) (string, error)
}

// Actor reads the acting user from UserIDHeader. Mutating requests without
// it are rejected with 401; reads pass through anonymously.
func Actor(next http.Handler) http.Handler {
	return ActorWithTokens(nil)(next)
}

// ActorWithTokens is Actor that also accepts "Authorization: Bearer" tokens.
// A token, when present, takes precedence over UserIDHeader and must verify.
func ActorWithTokens(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(UserIDHeader))

			if token, ok := bearerToken(r); ok && verifier != nil {
				verified, err := verifier.VerifyActor(token)
				if err != nil {
					writeJSONError(w, http.StatusUnauthorized, "invalid bearer token")
					return
				}
				actor = verified
			}

			if actor == "" {
				if isMutating(r.Method) {
					writeJSONError(w, http.StatusUnauthorized, "missing "+UserIDHeader+" header")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			noteActor(r.Context(), actor)
			ctx := context.WithValue(r.Context(), ActorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the acting user id set by Actor.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(ActorContextKey).(string)
	return actor, ok && actor != ""
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}

	return false
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
