package gameplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth"
	httperrors "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/errors"
	ws "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/ws"
)

const wsRequestTimeout = 10 * time.Second

// Handler manages WebSocket connections and routes gameplay commands.
type Handler struct {
	service   *Service
	hub       *ws.Hub
	validator auth.TokenValidator
	logger    zerolog.Logger
}

// NewHandler creates a gameplay WebSocket handler.
func NewHandler(service *Service, hub *ws.Hub, validator auth.TokenValidator, logger zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		hub:       hub,
		validator: validator,
		logger:    logger.With().Str("component", "gameplay_ws").Logger(),
	}
}

// HandleConnection serves an upgraded connection until the client leaves.
func (h *Handler) HandleConnection(conn *websocket.Conn, studentID uuid.UUID) {
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(studentID, wsConn)

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		ctx, cancel := context.WithTimeout(context.Background(), wsRequestTimeout)
		defer cancel()
		return h.handleMessage(ctx, studentID, msg)
	})

	h.hub.UnregisterConnection(studentID, wsConn)
}

// handleMessage routes one client command and replies on the same connection.
func (h *Handler) handleMessage(ctx context.Context, studentID uuid.UUID, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		return h.reply(studentID, ws.TypePong, msg.RequestID, struct{}{})
	case ws.TypeWatchSession:
		return h.handleWatchSession(ctx, studentID, msg)
	case ws.TypeCurrentQuestion:
		return h.handleCurrentQuestion(ctx, studentID, msg)
	case ws.TypeRevealHint:
		return h.handleRevealHint(ctx, studentID, msg)
	case ws.TypeSubmitAnswer:
		return h.handleSubmitAnswer(ctx, studentID, msg)
	case ws.TypeCompleteSession:
		return h.handleCompleteSession(ctx, studentID, msg)
	default:
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Handler) handleWatchSession(ctx context.Context, studentID uuid.UUID, msg ws.Message) error {
	sessionID, ok, err := h.sessionOf(studentID, msg)
	if !ok {
		return err
	}
	session, err := h.service.Session(ctx, sessionID, studentID)
	if err != nil {
		return h.sendServiceError(studentID, msg.RequestID, err)
	}
	h.hub.WatchSession(sessionID, studentID)
	return h.reply(studentID, ws.TypeSessionEvent, msg.RequestID, session)
}

func (h *Handler) handleCurrentQuestion(ctx context.Context, studentID uuid.UUID, msg ws.Message) error {
	sessionID, ok, err := h.sessionOf(studentID, msg)
	if !ok {
		return err
	}
	view, err := h.service.CurrentQuestion(ctx, sessionID, studentID)
	if err != nil {
		return h.sendServiceError(studentID, msg.RequestID, err)
	}
	return h.reply(studentID, ws.TypeQuestion, msg.RequestID, view)
}

func (h *Handler) handleRevealHint(ctx context.Context, studentID uuid.UUID, msg ws.Message) error {
	var req ws.RevealHintPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid reveal_hint payload")
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidSessionID, "Invalid session ID")
	}
	questionID, qErr := uuid.Parse(req.QuestionID)
	hintID, hErr := uuid.Parse(req.HintID)
	if qErr != nil || hErr != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "question_id and hint_id must be UUIDs")
	}

	hint, err := h.service.RevealHint(ctx, sessionID, questionID, hintID, studentID)
	if err != nil {
		return h.sendServiceError(studentID, msg.RequestID, err)
	}
	return h.reply(studentID, ws.TypeHintRevealed, msg.RequestID, hint)
}

func (h *Handler) handleSubmitAnswer(ctx context.Context, studentID uuid.UUID, msg ws.Message) error {
	var req ws.SubmitAnswerPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid submit_answer payload")
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidSessionID, "Invalid session ID")
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "question_id must be a UUID")
	}

	result, err := h.service.SubmitAnswer(ctx, SubmitRequest{
		SessionID:        sessionID,
		StudentID:        studentID,
		QuestionID:       questionID,
		Selected:         req.Selected,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		return h.sendServiceError(studentID, msg.RequestID, err)
	}
	return h.reply(studentID, ws.TypeAnswerResult, msg.RequestID, result)
}

func (h *Handler) handleCompleteSession(ctx context.Context, studentID uuid.UUID, msg ws.Message) error {
	var req ws.CompleteSessionPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid complete_session payload")
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidSessionID, "Invalid session ID")
	}

	session, err := h.service.Complete(ctx, sessionID, req.TimeSpentSeconds, studentID)
	if err != nil {
		return h.sendServiceError(studentID, msg.RequestID, err)
	}
	h.hub.UnwatchSession(sessionID, studentID)
	return h.reply(studentID, ws.TypeSessionComplete, msg.RequestID, session)
}

// sessionOf decodes a {session_id} payload. When ok is false the error reply
// has already been sent and err is its delivery result.
func (h *Handler) sessionOf(studentID uuid.UUID, msg ws.Message) (uuid.UUID, bool, error) {
	var req ws.SessionPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return uuid.Nil, false, h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidPayload, fmt.Sprintf("Invalid %s payload", msg.Type))
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return uuid.Nil, false, h.sendError(studentID, msg.RequestID, httperrors.ErrCodeInvalidSessionID, "Invalid session ID")
	}
	return sessionID, true, nil
}

func (h *Handler) reply(studentID uuid.UUID, msgType, requestID string, payload any) error {
	msg, err := ws.NewMessage(msgType, requestID, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}
	return h.hub.SendToUser(studentID, msg)
}

func (h *Handler) sendServiceError(studentID uuid.UUID, requestID string, err error) error {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("student_id", studentID.String()).Msg("gameplay command failed")
		return h.sendError(studentID, requestID, code, "Internal server error")
	}
	return h.sendError(studentID, requestID, code, err.Error())
}

func (h *Handler) sendError(studentID uuid.UUID, requestID, code, message string) error {
	return h.reply(studentID, ws.TypeError, requestID, ws.ErrorPayload{
		Code:    code,
		Message: message,
	})
}
