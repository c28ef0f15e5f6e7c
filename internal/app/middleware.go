package app

import (
	"net/http"
	"strings"

	"github.com/eqsched/eqsched/internal/config"
	"github.com/eqsched/eqsched/pkg/auth"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Endpoints reachable without a session.
var publicEndpoints = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/password": true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resolve the bearer token into an identity for downstream services.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !strings.HasPrefix(req.URL.Path, "/api/") || publicEndpoints[req.URL.Path] {
				next.ServeHTTP(w, req)
				return
			}

			token, err := auth.ExtractTokenFromRequest(req)
			if err != nil {
				log.Debugf("missing session token: %v", err)
				http.Error(w, "missing session token", http.StatusUnauthorized)
				return
			}

			identity, err := deps.AuthService.Authenticate(req.Context(), token)
			if err != nil {
				log.Debugf("rejected session token: %v", err)
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithIdentity(req.Context(), identity)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
