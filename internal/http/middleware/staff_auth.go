package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const staffClaimsKey contextKey = "staffClaims"

// StaffJWT gates the front-desk endpoints (visitor log, analytics) behind an
// HMAC-signed staff token. Patients never hold these; they are provisioned
// out of band for reception staff. An empty secret disables the endpoints
// entirely rather than leaving them open.
func StaffJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "staff access not configured", http.StatusUnauthorized)
				return
			}
			claims, err := parseStaffToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				http.Error(w, "staff token required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseStaffToken(header, secret string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	if !strings.HasPrefix(header, "Bearer ") {
		return claims, jwt.ErrTokenMalformed
	}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid || claims.Subject == "" {
		return claims, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// StaffFromContext returns the staff claims set by StaffJWT.
func StaffFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(staffClaimsKey).(jwt.RegisteredClaims)
	return claims, ok
}
