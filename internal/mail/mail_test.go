package mail_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findash/internal/mail"
)

func TestResendClient_SendWelcome(t *testing.T) {
	var got map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"49a3999c"}`))
	}))
	defer ts.Close()

	client := mail.NewResendClient(ts.URL+"/", "re_test", "FinDash <hello@example.com>")

	require.NoError(t, client.SendWelcome(context.Background(), "ada@example.com", "<Ada>"))

	assert.Equal(t, "FinDash <hello@example.com>", got["from"])
	assert.Equal(t, []any{"ada@example.com"}, got["to"])
	assert.Contains(t, got["html"], "&lt;Ada&gt;")
}

func TestResendClient_SendWelcome_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer ts.Close()

	err := mail.NewResendClient(ts.URL, "re_test", "bad").SendWelcome(context.Background(), "ada@example.com", "Ada")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestNoop_SendWelcome(t *testing.T) {
	var m mail.Mailer = mail.Noop{}

	assert.NoError(t, m.SendWelcome(context.Background(), "ada@example.com", "Ada"))
}
