package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/heartcraft/storefront/internal/utils/response"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// SessionValidator reports whether the session named by a token's jti is
// still live for the given user. Sign-out revokes it.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string, userID uuid.UUID) error
}

type AuthMiddleware struct {
	jwtKey   []byte
	sessions SessionValidator
}

func NewAuthMiddleware(jwtKey []byte, sessions SessionValidator) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey, sessions: sessions}

}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}

// Authenticate rejects any request without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, appErr := m.verify(r)
		if appErr != nil {
			logger.Warn("Authentication failed", slog.String("reason", appErr.Message))
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.withClaims(r.Context(), logger, claims)))
	}
}

// Optional authenticates the request when it carries a token and otherwise
// passes it through anonymously; handlers decide what an anonymous caller sees.
func (m *AuthMiddleware) Optional(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, appErr := m.verify(r)
		if appErr != nil {
			if r.Header.Get("Authorization") != "" {
				logger.Info("Ignoring invalid credentials on optional route", slog.String("reason", appErr.Message))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.withClaims(r.Context(), logger, claims)))
	}
}

func (m *AuthMiddleware) verify(r *http.Request) (*models.Claims, *errors.AppError) {

	// Get token from Authorization header
	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		return nil, errors.UnauthorizedError("Authorization header is required")
	}

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		return m.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if m.sessions != nil {
		if err := m.sessions.ValidateSession(r.Context(), claims.ID, claims.UserID); err != nil {
			return nil, errors.UnauthorizedError("Session expired or signed out")
		}
	}

	return claims, nil
}

func (m *AuthMiddleware) withClaims(ctx context.Context, logger *slog.Logger, claims *models.Claims) context.Context {

	ctx = context.WithValue(ctx, UserContextKey, claims)

	requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
	requestScopedLogger.Debug("User authenticated")

	return WithLogger(ctx, requestScopedLogger)
}
