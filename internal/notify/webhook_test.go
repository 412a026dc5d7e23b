package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secops-tools/inspector-notify/internal/config"
	pipeerrors "github.com/secops-tools/inspector-notify/pkg/shared/errors"
)

func webhookConfig(url string) *config.Config {
	cfg := config.Default()
	cfg.WebhookURL = url
	cfg.RequestTimeout = 2 * time.Second
	return &cfg
}

func TestWebhookPublishPostsMessage(t *testing.T) {
	var received webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewWebhookPublisher(hclog.NewNullLogger(), webhookConfig(srv.URL))
	receipt, err := p.Publish(context.Background(), Message{Subject: "subj", Body: "body"})

	require.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)
	assert.Equal(t, "subj", received.Subject)
	assert.Equal(t, "body", received.Body)
}

func TestWebhookPublishRejectionSurfacesPublishError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewWebhookPublisher(hclog.NewNullLogger(), webhookConfig(srv.URL))
	_, err := p.Publish(context.Background(), Message{Subject: "subj", Body: "body"})

	require.Error(t, err)
	var perr *pipeerrors.PublishError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "webhook", perr.Channel)
}

func TestWebhookPublishTransportFailure(t *testing.T) {
	p := NewWebhookPublisher(hclog.NewNullLogger(), webhookConfig("http://127.0.0.1:1"))
	_, err := p.Publish(context.Background(), Message{Subject: "subj", Body: "body"})

	require.Error(t, err)
	var perr *pipeerrors.PublishError
	assert.ErrorAs(t, err, &perr)
}
