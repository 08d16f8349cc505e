// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is an alias for the firebase auth client so wiring code
// can take *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type instead of string (SA1029)
type ctxKey struct{ name string }

var ctxKeyUID = ctxKey{name: "uid"}

// AuthMiddleware verifies
//
//   - Authorization: Bearer <ID_TOKEN>
//
// and puts the verified uid (= shopperId) on the request context.
//
// Routes registered through Handler require a valid token. Public routes
// (product detail, healthz) are registered outside the chain.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		log.Printf("[AuthMiddleware] path=%s uid=%s", r.URL.Path, uid)

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UIDFromContext returns the verified shopper uid, or "" when the request did
// not pass through the auth chain.
func UIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyUID)
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
