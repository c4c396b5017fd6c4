package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIMailer_SendPasswordReset(t *testing.T) {
	var received sendRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(srv.URL, "api-key", "no-reply@biblioteca.local", "Biblioteca", "http://app.local/recover")
	err := m.SendPasswordReset(context.Background(), "a@x.com", "ana garcia", "tok123")

	assert.NoError(t, err)
	assert.Equal(t, "Bearer api-key", gotAuth)
	assert.Equal(t, "a@x.com", received.To[0].Email)
	assert.Equal(t, "ana garcia", received.To[0].Name)
	assert.Contains(t, received.Text, "http://app.local/recover?token=tok123")
	assert.Equal(t, "password-reset", received.Category)
}

func TestAPIMailer_SurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := New(srv.URL, "api-key", "no-reply@biblioteca.local", "Biblioteca", "http://app.local/recover")
	err := m.SendPasswordReset(context.Background(), "a@x.com", "ana", "tok123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
