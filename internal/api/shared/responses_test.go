package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/api/test", nil)
	recorder := httptest.NewRecorder()

	RespondWithJSON(recorder, req, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("includes trace ID from the request context", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/api/test", nil)
		req = req.WithContext(SetTraceID(req.Context()))
		recorder := httptest.NewRecorder()

		RespondWithError(recorder, req, http.StatusNotFound, "Bookmark not found")

		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Bookmark not found", resp.Error)
		assert.Len(t, resp.TraceID, TraceIDLength*2)
	})

	t.Run("omits trace ID when absent", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/api/test", nil)
		recorder := httptest.NewRecorder()

		RespondWithError(recorder, req, http.StatusBadRequest, "Invalid request")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "trace_id")
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/api/bookmarks", nil)
	recorder := httptest.NewRecorder()

	err := errors.New("pq: connection to postgres://user:hunter2@db:5432 failed")
	RespondWithErrorAndLog(recorder, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.NotContains(t, recorder.Body.String(), "hunter2", "raw error details must not reach the client")
}
