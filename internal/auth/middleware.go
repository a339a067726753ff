package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth/jwt"
	httperrors "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/errors"
)

type contextKey struct{}

// TokenValidator is implemented by *jwt.Manager.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// WithStudentID stores the authenticated student id in ctx.
func WithStudentID(ctx context.Context, studentID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, studentID)
}

// StudentIDFromContext returns the student id set by RequireStudent.
func StudentIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// StudentFromToken validates a raw token and extracts the student id.
func StudentFromToken(validator TokenValidator, token string) (uuid.UUID, error) {
	claims, err := validator.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.StudentID()
}

// RequireStudent validates the bearer token and injects the student id into
// the request context. Requests without a valid token are rejected.
func RequireStudent(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
				return
			}

			// Parse "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			studentID, err := StudentFromToken(validator, parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				code := httperrors.ErrCodeInvalidToken
				if errors.Is(err, jwt.ErrExpiredToken) {
					code = httperrors.ErrCodeTokenExpired
				}
				httperrors.RespondUnauthorized(w, code, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStudentID(r.Context(), studentID)))
		})
	}
}
