package gameplay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/auth"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

// headerStudent stands in for the JWT middleware.
func headerStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-Student-ID"))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithStudentID(r.Context(), id)))
	})
}

type apiClient struct {
	t       *testing.T
	mux     *http.ServeMux
	student uuid.UUID
}

func newAPIClient(t *testing.T, svc *Service) *apiClient {
	mux := http.NewServeMux()
	NewHTTPHandlers(svc, zerolog.New(io.Discard)).Register(mux, headerStudent)
	return &apiClient{t: t, mux: mux, student: uuid.New()}
}

func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Student-ID", c.student.String())
	rec := httptest.NewRecorder()
	c.mux.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHTTPSessionLifecycle(t *testing.T) {
	h := game.Hint{ID: uuid.New(), Text: "think", Penalty: 4}
	q := mcqQuestion(10, h)
	g := newGame(game.VariantMCQ, q)
	f := newFixture(g)
	c := newAPIClient(t, f.svc)

	var session Session
	code := c.do(http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: g.ID.String()}, &session)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, session.AttemptNumber)
	base := "/v1/gameplay/sessions/" + session.ID.String()

	var view QuestionView
	code = c.do(http.MethodGet, base+"/current-question", nil, &view)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, q.ID, view.ID)

	var hint RevealedHint
	code = c.do(http.MethodPost, base+"/hints", RevealHintRequest{QuestionID: q.ID.String(), HintID: h.ID.String()}, &hint)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "think", hint.Text)

	var result SubmitResult
	code = c.do(http.MethodPost, base+"/answers", map[string]any{
		"question_id": q.ID,
		"selected":    json.RawMessage(correctPayload(q)),
	}, &result)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, "6", result.PointsEarned.String())

	var errResp map[string]any
	code = c.do(http.MethodGet, base+"/results", nil, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "invalid_state", errResp["error"])

	code = c.do(http.MethodPost, base+"/complete", CompleteSessionRequest{TimeSpentSeconds: 12}, &session)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusCompleted, session.Status)
	assert.Equal(t, "60", session.PercentageScore.String())

	var results Results
	code = c.do(http.MethodGet, base+"/results", nil, &results)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, results.Passed)
	assert.Equal(t, 1, results.CorrectCount)
}

func TestHTTPErrorMapping(t *testing.T) {
	q := mcqQuestion(10)
	g := newGame(game.VariantMCQ, q)
	f := newFixture(g)
	c := newAPIClient(t, f.svc)

	var session Session
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: g.ID.String()}, &session))
	base := "/v1/gameplay/sessions/" + session.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"bad session id", http.MethodGet, "/v1/gameplay/sessions/nope", nil, http.StatusBadRequest, "invalid_session_id"},
		{"unknown session", http.MethodGet, "/v1/gameplay/sessions/" + uuid.NewString(), nil, http.StatusNotFound, "not_found"},
		{"unknown game", http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: uuid.NewString()}, http.StatusNotFound, "not_found"},
		{"invalid game id", http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: "x"}, http.StatusBadRequest, "validation_failed"},
		{"missing question", http.MethodPost, base + "/answers", map[string]any{"selected": []string{}}, http.StatusBadRequest, "missing_field"},
		{"malformed answer", http.MethodPost, base + "/answers", map[string]any{"question_id": q.ID, "selected": map[string]int{"a": 1}}, http.StatusBadRequest, "invalid_payload"},
		{"unknown hint", http.MethodPost, base + "/hints", RevealHintRequest{QuestionID: q.ID.String(), HintID: uuid.NewString()}, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.t = t
			var resp map[string]any
			assert.Equal(t, tt.status, c.do(tt.method, tt.path, tt.body, &resp))
			assert.Equal(t, tt.code, resp["error"])
		})
	}

	t.Run("other student", func(t *testing.T) {
		other := &apiClient{t: t, mux: c.mux, student: uuid.New()}
		var resp map[string]any
		assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, base, nil, &resp))
		assert.Equal(t, "forbidden", resp["error"])
	})

	t.Run("attempt limit", func(t *testing.T) {
		c.t = t
		for i := 0; i < 2; i++ {
			require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: g.ID.String()}, nil))
		}
		var resp map[string]any
		assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: g.ID.String()}, &resp))
		assert.Equal(t, "attempt_limit_exceeded", resp["error"])
	})
}

func TestHTTPAbandon(t *testing.T) {
	q := mcqQuestion(10)
	g := newGame(game.VariantMCQ, q)
	f := newFixture(g)
	c := newAPIClient(t, f.svc)

	var session Session
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/v1/gameplay/sessions", StartSessionRequest{GameID: g.ID.String()}, &session))
	base := "/v1/gameplay/sessions/" + session.ID.String()

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/abandon", nil, &session))
	assert.Equal(t, StatusAbandoned, session.Status)

	var resp map[string]any
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, base+"/complete", nil, &resp))
}
