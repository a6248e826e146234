package odf

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier receives a "data changed" signal after each committed
// message. Delivery is fire-and-forget; a notifier failure never
// affects the ingestion outcome.
type Notifier interface {
	DataChanged(messageType string)
}

// NopNotifier discards every signal.
type NopNotifier struct{}

func (NopNotifier) DataChanged(string) {}

// WebhookNotifier posts the signal to a configured URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a notifier posting to url.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// DataChanged posts the signal in the background. Failures are logged
// and dropped.
func (n *WebhookNotifier) DataChanged(messageType string) {
	go func() {
		payload, _ := json.Marshal(map[string]string{
			"event": "data_changed",
			"type":  messageType,
		})
		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(payload))
		if err != nil {
			n.logger.Warn("change notification failed", zap.Error(err))
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			n.logger.Warn("change notification rejected",
				zap.Int("status", resp.StatusCode))
		}
	}()
}
