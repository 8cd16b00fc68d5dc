package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/havenhouse/hms/internal/service"
)

type key string

const (
	contextStaffIDKey    key = "staff_id"
	contextStaffEmailKey key = "staff_email"
	contextResidentIDKey key = "resident_id"
)

// StaffCookieName is the session cookie set by the staff login endpoint.
const StaffCookieName = "staff-auth-token"

// ResidentCookieName is the session cookie set by the portal login.
const ResidentCookieName = "resident-auth-token"

func StaffIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextStaffIDKey).(string)
	return id, ok
}

func StaffEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(contextStaffEmailKey).(string)
	return email, ok
}

func ResidentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextResidentIDKey).(string)
	return id, ok
}

// tokenFromRequest accepts either the session cookie or a Bearer header,
// cookie first.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// StaffAuth gates the dashboard API. Requests without a valid staff
// session get a 401.
func StaffAuth(tokenSvc service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r, StaffCookieName)
			if tokenStr == "" {
				http.Error(w, "missing or malformed token", http.StatusUnauthorized)
				return
			}

			claims, err := tokenSvc.ValidateStaffToken(tokenStr)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextStaffIDKey, claims.StaffID)
			ctx = context.WithValue(ctx, contextStaffEmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResidentAuth gates the resident portal.
func ResidentAuth(tokenSvc service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r, ResidentCookieName)
			if tokenStr == "" {
				http.Error(w, "missing or malformed token", http.StatusUnauthorized)
				return
			}

			residentID, err := tokenSvc.ValidateResidentToken(tokenStr)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextResidentIDKey, residentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
