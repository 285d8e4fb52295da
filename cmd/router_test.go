//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopassist-cli/internal/assistant"
	"github.com/sells-group/shopassist-cli/internal/model"
	"github.com/sells-group/shopassist-cli/internal/ner"
	"github.com/sells-group/shopassist-cli/internal/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	sessions := session.NewManager(session.DefaultConfig())
	t.Cleanup(sessions.Close)

	a := assistant.New(ner.NewService(ner.DefaultTables()), sessions)
	a.SetProducts([]model.Product{
		{ID: "1", Name: "Blue Tote Bag", Brand: "Coach", Price: 150, Description: "a roomy blue tote"},
		{ID: "2", Name: "Red Crossbody Bag", Brand: "Kate Spade", Price: 250, Description: "compact red crossbody"},
	})
	return newRouter(a)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Chat_NewSession(t *testing.T) {
	r := newTestRouter(t)

	payload := map[string]string{"message": "show me blue bags under $200"}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result assistant.TurnResult
	err := json.Unmarshal(rr.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "1", result.Products[0].ID)
	assert.Contains(t, result.Summary, "blue")
}

func TestRouter_Chat_ReusesSession(t *testing.T) {
	r := newTestRouter(t)

	send := func(sessionID, message string) assistant.TurnResult {
		t.Helper()
		body, _ := json.Marshal(map[string]string{"session_id": sessionID, "message": message})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var result assistant.TurnResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		return result
	}

	first := send("", "I want a blue bag")
	second := send(first.SessionID, "under $200")

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, second.Summary, "blue")
	assert.Contains(t, second.Summary, "Under $200")
}

func TestRouter_Chat_InvalidBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestRouter_Preferences(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"message": "red bags"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var result assistant.TurnResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))

	req = httptest.NewRequest(http.MethodGet, "/sessions/"+result.SessionID+"/preferences", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var prefs struct {
		SessionID string `json:"session_id"`
		Summary   string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &prefs))
	assert.Equal(t, result.SessionID, prefs.SessionID)
	assert.Contains(t, prefs.Summary, "red")
}

func TestRouter_Preferences_UnknownSession(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/nope/preferences", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown session")
}

func TestRouter_DeleteSession(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"message": "blue bags"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var result assistant.TurnResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))

	req = httptest.NewRequest(http.MethodDelete, "/sessions/"+result.SessionID+"/preferences", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Preferences are wiped but the session still resolves.
	req = httptest.NewRequest(http.MethodGet, "/sessions/"+result.SessionID+"/preferences", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No preferences set")
}

func TestRouter_DeleteSession_Unknown(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/nope/preferences", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
