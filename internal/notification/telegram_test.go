package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/model"
)

func newTelegramServer(t *testing.T, handler http.HandlerFunc) *TelegramSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTelegramSender(config.TelegramConfig{
		BotToken:   "123:secret",
		ChatID:     "-1001",
		APIBaseURL: srv.URL + "/",
		Timeout:    time.Second,
	}, time.UTC)
}

func TestTelegramSender_Send(t *testing.T) {
	var got sendMessageRequest
	sender := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bot123:secret/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	})

	b := testBooking("bk-1")
	b.Email = "anna@example.com"
	require.NoError(t, sender.Send(context.Background(), b))

	assert.Equal(t, "-1001", got.ChatID)
	assert.Contains(t, got.Text, "Client: Anna")
	assert.Contains(t, got.Text, "Email: anna@example.com")
	assert.Contains(t, got.Text, "Booking ID: bk-1")
}

func TestTelegramSender_Rejected(t *testing.T) {
	sender := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	err := sender.Send(context.Background(), testBooking("bk-1"))
	assert.ErrorContains(t, err, "chat not found")
	assert.ErrorContains(t, err, "status 400")
}

func TestTelegramSender_NotOKWithStatus200(t *testing.T) {
	sender := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	})

	err := sender.Send(context.Background(), testBooking("bk-1"))
	assert.ErrorContains(t, err, "bot was blocked")
}

func TestTelegramSender_Unreachable(t *testing.T) {
	sender := NewTelegramSender(config.TelegramConfig{
		BotToken:   "123:secret",
		ChatID:     "-1001",
		APIBaseURL: "http://127.0.0.1:1",
		Timeout:    time.Second,
	}, time.UTC)

	err := sender.Send(context.Background(), testBooking("bk-1"))
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "123:secret"), "token leaked: %v", err)
}

func TestFormatMessage(t *testing.T) {
	b := testBooking("bk-9")
	msg := FormatMessage(b, time.UTC)

	assert.Contains(t, msg, "Service: Gel polish")
	assert.Contains(t, msg, "Date: Wednesday, 2024-01-10")
	assert.Contains(t, msg, "Time: 10:00 (120 min)")
	assert.Contains(t, msg, "Created: 2024-01-09 12:30:00")
	assert.NotContains(t, msg, "Email:")
	assert.NotContains(t, msg, "Notes:")

	b.Notes = "almond shape"
	b.ServiceCode = model.ServiceCode("retired")
	b.DurationMinutes = 0
	msg = FormatMessage(b, time.UTC)
	assert.Contains(t, msg, "Notes: almond shape")
	assert.Contains(t, msg, "Service: Service")
	assert.Contains(t, msg, "(60 min)")
}
