package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeCurrentQuestion = "current_question"
	TypeRevealHint      = "reveal_hint"
	TypeSubmitAnswer    = "submit_answer"
	TypeCompleteSession = "complete_session"
	TypeWatchSession    = "watch_session"

	// Server -> Client
	TypeQuestion        = "question"
	TypeHintRevealed    = "hint_revealed"
	TypeAnswerResult    = "answer_result"
	TypeSessionComplete = "session_complete"
	TypeSessionEvent    = "session_event"
	TypeError           = "error"
	TypePing            = "ping"
	TypePong            = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type SessionPayload struct {
	SessionID string `json:"session_id"`
}

type RevealHintPayload struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	HintID     string `json:"hint_id"`
}

type SubmitAnswerPayload struct {
	SessionID        string          `json:"session_id"`
	QuestionID       string          `json:"question_id"`
	Selected         json.RawMessage `json:"selected"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
}

type CompleteSessionPayload struct {
	SessionID        string `json:"session_id"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// Server Messages (outgoing) reuse the gameplay JSON views; only errors are
// shaped here.

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage marshals payload into a typed envelope.
func NewMessage(msgType, requestID string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw, RequestID: requestID}, nil
}
