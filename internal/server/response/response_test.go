package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessAndFail(t *testing.T) {
	ok := Success(map[string]string{"message": "success"})
	assert.NotNil(t, ok.Data)
	assert.Nil(t, ok.Error)

	fail := Fail("TEST_ERROR", "Test error message", "Additional details")
	assert.Nil(t, fail.Data)
	require.NotNil(t, fail.Error)
	assert.Equal(t, Error{Code: "TEST_ERROR", Message: "Test error message", Details: "Additional details"}, *fail.Error)
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]int{"files": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decode(t, w)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"files": float64(3)}, resp.Data)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad", "") }, http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "gone", "") }, http.StatusNotFound, "NOT_FOUND"},
		{"method", func(w http.ResponseWriter) { MethodNotAllowed(w, "POST") }, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, errors.New("secret")) }, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errors.NewNotFoundError("csv directory", "data/csvs", nil), http.StatusNotFound},
		{"validation", errors.NewValidationError("dir", "x", "not a directory"), http.StatusBadRequest},
		{"schema", errors.NewSchemaError("t.csv", "cell", nil), http.StatusBadRequest},
		{"io", errors.NewIOError("read", "x", errors.New("disk")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
