package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/UnknownOlympus/hestia/internal/config"
)

var ErrPushRejected = errors.New("push provider rejected the message")

// WebPushSender delivers VAPID-signed web push messages.
type WebPushSender struct {
	options webpush.Options
}

func NewWebPushSender(cfg config.WebPushConfig, client *http.Client) *WebPushSender {
	return &WebPushSender{
		options: webpush.Options{
			HTTPClient:      client,
			Subscriber:      cfg.Subscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             cfg.TTL,
			Urgency:         webpush.UrgencyHigh,
		},
	}
}

// Send expects subscription to be the JSON document produced by the browser's PushManager.
func (s *WebPushSender) Send(ctx context.Context, subscription string, payload []byte) error {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(subscription), &sub); err != nil {
		return fmt.Errorf("failed to decode push subscription: %w", err)
	}

	opts := s.options

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &opts)
	if err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: status code %d", ErrSubscriptionGone, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: status code %d", ErrPushRejected, resp.StatusCode)
	}

	return nil
}
