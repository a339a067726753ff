package gameplay

import (
	"errors"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/gameplay/grading"
)

// Error kinds returned by the service. Callers match them with errors.Is.
var (
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("session belongs to another student")
	ErrInvalidState            = errors.New("session is not in a valid state for this operation")
	ErrOutOfRange              = errors.New("no question at the current position")
	ErrAlreadyAnswered         = errors.New("question already answered")
	ErrAlreadyRevealed         = errors.New("hint already revealed")
	ErrQuestionAlreadyAnswered = errors.New("hints are closed for an answered question")
	ErrAttemptLimitExceeded    = errors.New("attempt limit reached")
	ErrInvalidPayload          = grading.ErrInvalidPayload
	ErrBusy                    = errors.New("another operation holds the attempt lock")
)
