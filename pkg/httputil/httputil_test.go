package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccess(rr, map[string]int{"count": 3})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, StatusSuccess, env.Status)
	assert.Empty(t, env.Message)
}

func TestWriteFailure(t *testing.T) {
	t.Run("domain failures keep a 200", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteFailure(rr, http.StatusOK, "student is not active")

		assert.Equal(t, http.StatusOK, rr.Code)

		var env Envelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
		assert.Equal(t, StatusError, env.Status)
		assert.Equal(t, "student is not active", env.Message)
	})

	t.Run("transport failures carry their code", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteFailure(rr, http.StatusBadGateway, "audit log unavailable")
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestDecode(t *testing.T) {
	type payload struct {
		StudentID int64 `json:"studentId"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"studentId":42}`))
		v, err := Decode[payload](req)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v.StudentID)
	})

	t.Run("tolerates unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"studentId":42,"extra":true}`))
		_, err := Decode[payload](req)
		assert.NoError(t, err)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"studentId":`))
		_, err := Decode[payload](req)
		assert.Error(t, err)
	})
}
