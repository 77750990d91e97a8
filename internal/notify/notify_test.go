package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-webhook-secret"

func TestWebhookNotifierDeliversSignedPayload(t *testing.T) {
	verifier, err := standardwebhooks.NewWebhookRaw([]byte(testSecret))
	require.NoError(t, err)

	var got WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, verifier.Verify(body, r.Header))
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(map[string]string{"c1": srv.URL}, testSecret, srv.Client())
	require.NoError(t, err)

	err = n.Notify(context.Background(), "c1", "Goal with ID: 1 is overdue.")
	require.NoError(t, err)
	assert.Equal(t, WebhookPayload{ChannelID: "c1", Content: "Goal with ID: 1 is overdue."}, got)
}

func TestWebhookNotifierUnknownChannel(t *testing.T) {
	n, err := NewWebhookNotifier(map[string]string{}, testSecret, nil)
	require.NoError(t, err)

	err = n.Notify(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestWebhookNotifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(map[string]string{"c1": srv.URL}, testSecret, srv.Client())
	require.NoError(t, err)

	err = n.Notify(context.Background(), "c1", "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrChannelNotFound)
}

func TestWebhookNotifierRequiresSecret(t *testing.T) {
	_, err := NewWebhookNotifier(map[string]string{}, "", nil)
	assert.Error(t, err)
}

func TestLogNotifierResolvesEveryChannel(t *testing.T) {
	assert.NoError(t, NewLogNotifier().Notify(context.Background(), "anything", "hello"))
}
