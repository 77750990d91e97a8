package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/accountabot/internal/bot"
	"github.com/templui/accountabot/internal/repository"
	"github.com/templui/accountabot/internal/service"
	"github.com/templui/accountabot/internal/validation"
)

func setupMux(t *testing.T) *http.ServeMux {
	t.Helper()
	repos, err := repository.Open(repository.BackendMemory, "", nil)
	require.NoError(t, err)

	b := bot.New(
		service.NewGoalService(repos.Goals, nil),
		service.NewVoteService(repos.Votes, repos.Goals, nil),
		service.NewEvidenceService(repos.Evidences, repos.Goals, nil),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /commands/{name}", NewCommandHandler(b).Handle)
	mux.HandleFunc("GET /healthz", Healthz)
	return mux
}

func post(t *testing.T, mux http.Handler, name, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/commands/"+name, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCommandFlow(t *testing.T) {
	mux := setupMux(t)

	rec := post(t, mux, "goal", `{"userId":"u1","channelId":"c1","args":{"goal":"Run 5k","dueDate":"2030-01-01"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Goal created with ID: 1", decodeReply(t, rec)["text"])

	for _, v := range []struct{ user, vote string }{{"u1", "true"}, {"u2", "true"}, {"u3", "false"}} {
		rec = post(t, mux, "vote", `{"userId":"`+v.user+`","channelId":"c1","args":{"goalId":"1","vote":"`+v.vote+`"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = post(t, mux, "check", `{"userId":"u4","channelId":"c1","args":{"goalId":"1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decodeReply(t, rec)
	assert.Equal(t, "For: 2, Against: 1", reply["text"])
	assert.Equal(t, map[string]any{"goalId": 1.0, "for": 2.0, "against": 1.0, "completed": true}, reply["data"])
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		cmd    string
		body   string
		status int
	}{
		{"malformed body", "goal", `{`, http.StatusBadRequest},
		{"missing user", "listgoals", `{"channelId":"c1"}`, http.StatusBadRequest},
		{"unknown command", "dance", `{"userId":"u1"}`, http.StatusBadRequest},
		{"bad argument", "vote", `{"userId":"u1","args":{"goalId":"x","vote":"true"}}`, http.StatusBadRequest},
		{"missing channel", "goal", `{"userId":"u1","args":{"goal":"Run","dueDate":"2030-01-01"}}`, http.StatusBadRequest},
		{"check unknown goal", "check", `{"userId":"u1","args":{"goalId":"7"}}`, http.StatusNotFound},
		{"vote unknown goal", "vote", `{"userId":"u1","args":{"goalId":"7","vote":"yes"}}`, http.StatusUnprocessableEntity},
		{"evidence unknown goal", "evidence", `{"userId":"u1","args":{"goalId":"7","evidence":"pic"}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, setupMux(t), tt.cmd, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeReply(t, rec)["error"])
		})
	}
}

func TestStatusForUnexpectedError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestStatusForInvalidText(t *testing.T) {
	_, err := validation.Text("evidence", "pic \xff", validation.MaxEvidenceLength)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusFor(err))
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
