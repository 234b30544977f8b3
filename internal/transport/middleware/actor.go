package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

// ActorClaims is the JWT payload issued for payroll staff. DepartmentID is
// set for department heads only.
type ActorClaims struct {
	UserID       int64    `json:"user_id"`
	Name         string   `json:"name"`
	DepartmentID *int64   `json:"department_id,omitempty"`
	Permissions  []string `json:"permissions"`
	jwt.RegisteredClaims
}

// ActorContext validates the Bearer token and places the acting user into the
// request context. Handlers downstream read it via internal.ActorFromContext.
func ActorContext(jwtSecret string, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims := &ActorClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				lg.Warn("token validation failed", "error", err, "path", r.URL.Path)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			actor := &internal.Actor{
				ID:           claims.UserID,
				Name:         claims.Name,
				DepartmentID: claims.DepartmentID,
				Permissions:  claims.Permissions,
			}

			ctx := internal.ContextWithActor(r.Context(), actor)
			ctx = logger.With(ctx, "userID", actor.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on one of the listed permissions.
func RequirePermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "authentication required")
				return
			}

			for _, perm := range permissions {
				if actor.HasPermission(perm) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Warn("access denied: missing permission",
				"user_id", actor.ID,
				"required_permissions", permissions)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    http.StatusForbidden,
				"message": "insufficient permissions",
			})
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
