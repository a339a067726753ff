package gameplay

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth"
	httperrors "github.com/ehteshamawan1/quiz-app-sub000/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for the session lifecycle.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for gameplay endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "gameplay_http").Logger(),
	}
}

// Register mounts the session routes on mux behind the auth middleware.
func (h *HTTPHandlers) Register(mux *http.ServeMux, requireStudent func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireStudent(fn))
	}
	handle("POST /v1/gameplay/sessions", h.StartSession)
	handle("GET /v1/gameplay/sessions/{id}", h.GetSession)
	handle("GET /v1/gameplay/sessions/{id}/current-question", h.CurrentQuestion)
	handle("GET /v1/gameplay/sessions/{id}/questions/{questionID}", h.GetQuestion)
	handle("POST /v1/gameplay/sessions/{id}/hints", h.RevealHint)
	handle("POST /v1/gameplay/sessions/{id}/answers", h.SubmitAnswer)
	handle("POST /v1/gameplay/sessions/{id}/complete", h.CompleteSession)
	handle("POST /v1/gameplay/sessions/{id}/abandon", h.AbandonSession)
	handle("GET /v1/gameplay/sessions/{id}/results", h.Results)
}

// StartSessionRequest is the body of POST /v1/gameplay/sessions.
type StartSessionRequest struct {
	GameID       string `json:"game_id"`
	AssignmentID string `json:"assignment_id,omitempty"`
}

// RevealHintRequest is the body of POST .../hints.
type RevealHintRequest struct {
	QuestionID string `json:"question_id"`
	HintID     string `json:"hint_id"`
}

// CompleteSessionRequest is the body of POST .../complete.
type CompleteSessionRequest struct {
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

// StartSession handles POST /v1/gameplay/sessions
func (h *HTTPHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.student(w, r)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "game_id must be a UUID", "game_id")
		return
	}
	var assignmentID *uuid.UUID
	if req.AssignmentID != "" {
		id, err := uuid.Parse(req.AssignmentID)
		if err != nil {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "assignment_id must be a UUID", "assignment_id")
			return
		}
		assignmentID = &id
	}

	session, err := h.service.Start(r.Context(), studentID, gameID, assignmentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /v1/gameplay/sessions/{id}
func (h *HTTPHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	session, err := h.service.Session(r.Context(), sessionID, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, session)
}

// CurrentQuestion handles GET /v1/gameplay/sessions/{id}/current-question
func (h *HTTPHandlers) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	view, err := h.service.CurrentQuestion(r.Context(), sessionID, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

// GetQuestion handles GET /v1/gameplay/sessions/{id}/questions/{questionID}
func (h *HTTPHandlers) GetQuestion(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	questionID, err := uuid.Parse(r.PathValue("questionID"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "question id must be a UUID", "questionID")
		return
	}
	view, err := h.service.Question(r.Context(), sessionID, questionID, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

// RevealHint handles POST /v1/gameplay/sessions/{id}/hints
func (h *HTTPHandlers) RevealHint(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	var req RevealHintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "question_id must be a UUID", "question_id")
		return
	}
	hintID, err := uuid.Parse(req.HintID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "hint_id must be a UUID", "hint_id")
		return
	}

	hint, err := h.service.RevealHint(r.Context(), sessionID, questionID, hintID, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, hint)
}

// SubmitAnswer handles POST /v1/gameplay/sessions/{id}/answers
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuestionID == uuid.Nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "question_id is required", "question_id")
		return
	}
	req.SessionID = sessionID
	req.StudentID = studentID

	result, err := h.service.SubmitAnswer(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, result)
}

// CompleteSession handles POST /v1/gameplay/sessions/{id}/complete
func (h *HTTPHandlers) CompleteSession(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}
	}

	session, err := h.service.Complete(r.Context(), sessionID, req.TimeSpentSeconds, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, session)
}

// AbandonSession handles POST /v1/gameplay/sessions/{id}/abandon
func (h *HTTPHandlers) AbandonSession(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	session, err := h.service.Abandon(r.Context(), sessionID, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, session)
}

// Results handles GET /v1/gameplay/sessions/{id}/results
func (h *HTTPHandlers) Results(w http.ResponseWriter, r *http.Request) {
	studentID, sessionID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}
	results, err := h.service.Results(r.Context(), sessionID, studentID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, results)
}

func (h *HTTPHandlers) student(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	studentID, ok := auth.StudentIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return uuid.Nil, false
	}
	return studentID, true
}

func (h *HTTPHandlers) sessionRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	studentID, ok := h.student(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "Invalid session ID")
		return uuid.Nil, uuid.Nil, false
	}
	return studentID, sessionID, true
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("gameplay request failed")
		httperrors.RespondInternalError(w, "Internal server error")
		return
	}
	httperrors.RespondError(w, status, code, err.Error())
}

// classifyError maps service errors to an HTTP status and error code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, httperrors.ErrCodeNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, httperrors.ErrCodeForbidden
	case errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest, httperrors.ErrCodeInvalidPayload
	case errors.Is(err, ErrAttemptLimitExceeded):
		return http.StatusConflict, httperrors.ErrCodeAttemptLimitExceeded
	case errors.Is(err, ErrAlreadyAnswered):
		return http.StatusConflict, httperrors.ErrCodeAlreadyAnswered
	case errors.Is(err, ErrAlreadyRevealed):
		return http.StatusConflict, httperrors.ErrCodeAlreadyRevealed
	case errors.Is(err, ErrQuestionAlreadyAnswered):
		return http.StatusConflict, httperrors.ErrCodeQuestionAlreadyAnswered
	case errors.Is(err, ErrBusy):
		return http.StatusConflict, httperrors.ErrCodeSessionBusy
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity, httperrors.ErrCodeInvalidState
	case errors.Is(err, ErrOutOfRange):
		return http.StatusUnprocessableEntity, httperrors.ErrCodeOutOfRange
	default:
		return http.StatusInternalServerError, httperrors.ErrCodeInternalError
	}
}
