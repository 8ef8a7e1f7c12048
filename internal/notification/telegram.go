package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/model"
)

// TelegramSender posts booking summaries to a chat through the Bot API.
type TelegramSender struct {
	token   string
	chatID  string
	baseURL string
	loc     *time.Location
	client  *http.Client
}

// NewTelegramSender creates a sender from cfg. Timestamps in messages are shown in loc.
func NewTelegramSender(cfg config.TelegramConfig, loc *time.Location) *TelegramSender {
	return &TelegramSender{
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		loc:     loc,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *TelegramSender) Name() string { return "telegram" }

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers the summary of b. A response without "ok": true is an error
// even when the HTTP status is 200.
func (s *TelegramSender) Send(ctx context.Context, b model.Booking) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: s.chatID, Text: FormatMessage(b, s.loc)})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of logs.
		return fmt.Errorf("telegram request failed: %w", redactToken(err, s.token))
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram returned status %d with unreadable body: %w", resp.StatusCode, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram rejected message (status %d): %s", resp.StatusCode, result.Description)
	}
	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), err: err}
}
