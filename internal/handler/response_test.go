package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/memories/internal/apperror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.ValidationFailed("text", "text is required"), http.StatusBadRequest, "text is required"},
		{"wrapped not found", fmt.Errorf("updating: %w", apperror.NotFound("poem", "p1")), http.StatusNotFound, "poem not found with id p1"},
		{"store failure passes message through", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "pq: relation does not exist"},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "request body exceeds 10 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, map[string]any{"error": tt.message}, body, "error bodies have exactly one field")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type target struct {
		Name *string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"ok", `{"name":"x"}`, false},
		{"empty object", `{}`, false},
		{"unknown field", `{"nmae":"x"}`, true},
		{"empty", ``, true},
		{"garbage", `{"name":`, true},
		{"trailing value", `{"name":"x"} {"name":"y"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst target
			err := decodeJSON(r, &dst)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
