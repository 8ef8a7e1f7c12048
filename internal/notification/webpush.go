package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"salon-booking-backend/internal/model"
)

// PushClient sends a single web push message.
type PushClient interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

type webpushClient struct{}

func (webpushClient) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}

// WebPushSender notifies the owner's browser subscription about new bookings.
type WebPushSender struct {
	sub     *webpush.Subscription
	options *webpush.Options
	client  PushClient
}

// NewWebPushSender creates a sender for a single subscription.
func NewWebPushSender(sub *webpush.Subscription, options *webpush.Options) *WebPushSender {
	return &WebPushSender{sub: sub, options: options, client: webpushClient{}}
}

func (s *WebPushSender) Name() string { return "webpush" }

type pushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	BookingID string `json:"booking_id"`
}

// Send pushes a short notice about b.
func (s *WebPushSender) Send(ctx context.Context, b model.Booking) error {
	payload, err := json.Marshal(pushPayload{
		Title:     Title(b),
		Body:      fmt.Sprintf("%s, %s", b.ClientName, b.Phone),
		BookingID: b.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	resp, err := s.client.Send(ctx, payload, s.sub, s.options)
	if err != nil {
		return fmt.Errorf("push to %s failed: %w", s.sub.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("push subscription %s is expired (status %d)", s.sub.Endpoint, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}
