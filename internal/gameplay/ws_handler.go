package gameplay

import (
	"net/http"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/server"
	httperrors "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/errors"
)

// HandleWebSocket upgrades HTTP connection to WebSocket and authenticates the student.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on the upgrade request
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Missing token")
		return
	}

	studentID, err := auth.StudentFromToken(h.validator, token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.HandleConnection(conn, studentID)
}
