package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// WebhookNotifier posts notifications to a per-channel webhook URL, signed
// with the Standard Webhooks scheme so receivers can verify the sender.
type WebhookNotifier struct {
	client   *http.Client
	channels map[string]string
	signer   *standardwebhooks.Webhook
	now      func() time.Time
}

// WebhookPayload is the JSON body of every delivery.
type WebhookPayload struct {
	ChannelID string `json:"channelId"`
	Content   string `json:"content"`
}

func NewWebhookNotifier(channels map[string]string, secret string, client *http.Client) (*WebhookNotifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is required")
	}

	signer, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook signer: %w", err)
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &WebhookNotifier{
		client:   client,
		channels: channels,
		signer:   signer,
		now:      time.Now,
	}, nil
}

func (n *WebhookNotifier) Notify(ctx context.Context, channelID, text string) error {
	url, ok := n.channels[channelID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	payload, err := json.Marshal(WebhookPayload{ChannelID: channelID, Content: text})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	msgID := "msg_" + uuid.New().String()
	ts := n.now()
	signature, err := n.signer.Sign(msgID, ts, payload)
	if err != nil {
		return fmt.Errorf("failed to sign payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("webhook-id", msgID)
	req.Header.Set("webhook-timestamp", strconv.FormatInt(ts.Unix(), 10))
	req.Header.Set("webhook-signature", signature)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver to channel %s: %w", channelID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("channel %s webhook returned status %d", channelID, resp.StatusCode)
	}

	return nil
}
