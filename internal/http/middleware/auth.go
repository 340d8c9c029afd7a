package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/princekumarofficial/tourism-media-service/internal/utils/jwt"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

var (
	errNoAuthHeader  = errors.New("Authorization header required")
	errBadAuthScheme = errors.New("Invalid authorization header format")
	errNoToken       = errors.New("Token not provided")
	errBadToken      = errors.New("Invalid token")
)

// bearerToken pulls the token out of "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoAuthHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadAuthScheme
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNoToken
	}
	return token, nil
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="media"`)
	response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
}

// AuthMiddleware guards the media mutation routes. The caller's user ID is put
// on the request context for the rate limiter.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err)
				return
			}

			userID, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
			if err != nil {
				slog.Debug("rejected token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				unauthorized(w, errBadToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, userID)))
		})
	}
}

// GetUserIDFromContext returns the user set by AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
