package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entradalert/internal/config"
	"entradalert/internal/detect"
	"entradalert/internal/logger"
	"entradalert/internal/monitor"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *TelegramClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewTelegramClient("test-token")
	require.NoError(t, err)
	return client.WithBaseURL(server.URL + "/bot")
}

func TestNewTelegramClient(t *testing.T) {
	_, err := NewTelegramClient("")
	assert.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotPath string
		var gotPayload map[string]interface{}

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.Write([]byte(`{"ok":true}`))
		})

		err := client.SendMessage(context.Background(), "12345", "🎟 <b>hola</b>")
		require.NoError(t, err)

		assert.Equal(t, "/bottest-token/sendMessage", gotPath)
		assert.Equal(t, "12345", gotPayload["chat_id"])
		assert.Equal(t, "🎟 <b>hola</b>", gotPayload["text"])
		assert.Equal(t, "HTML", gotPayload["parse_mode"])
	})

	t.Run("api rejection", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
		})

		err := client.SendMessage(context.Background(), "12345", "hola")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat not found")
	})

	t.Run("http error status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		assert.Error(t, client.SendMessage(context.Background(), "12345", "hola"))
	})

	t.Run("empty text", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"ok":true}`))
		})

		assert.Error(t, client.SendMessage(context.Background(), "12345", ""))
	})
}

func TestGetUpdates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(42), payload["offset"])

		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":43,"message":{"message_id":1,"text":"/lista","chat":{"id":12345}}}
		]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 42, 1)
	require.NoError(t, err)

	require.Len(t, updates, 1)
	assert.Equal(t, int64(43), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "/lista", updates[0].Message.Text)
	assert.Equal(t, int64(12345), updates[0].Message.Chat.ID)
}

func TestNotificationHelperQuietHours(t *testing.T) {
	newHelper := func(t *testing.T, sent *int) *NotificationHelper {
		t.Helper()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			*sent++
			w.Write([]byte(`{"ok":true}`))
		})

		monitorCfg := config.NewDefaultMonitorConfig()
		monitorCfg.Timezone = "UTC"
		monitorCfg.QuietHoursStart = 0
		monitorCfg.QuietHoursEnd = 9

		notificationCfg := config.NewDefaultNotificationConfig()
		notificationCfg.TelegramChatID = "12345"

		log, err := logger.New(logger.NewDefaultLogConfig())
		require.NoError(t, err)

		helper, err := NewNotificationHelper(client, notificationCfg, monitorCfg, log)
		require.NoError(t, err)
		return helper
	}

	t.Run("non-forced suppressed inside window", func(t *testing.T) {
		sent := 0
		helper := newHelper(t, &sent)
		helper.now = func() time.Time { return time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC) }

		helper.Send(context.Background(), "hola", false)
		assert.Zero(t, sent)
	})

	t.Run("forced bypasses window", func(t *testing.T) {
		sent := 0
		helper := newHelper(t, &sent)
		helper.now = func() time.Time { return time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC) }

		helper.NotifyTransition(context.Background(), monitor.StateChange{
			Current: monitor.TargetState{URL: "https://a.example", Status: detect.CollapsedAvailable, RawStatus: detect.StatusAvailableNoDates},
			Forced:  true,
		})
		assert.Equal(t, 1, sent)
	})

	t.Run("non-forced delivered outside window", func(t *testing.T) {
		sent := 0
		helper := newHelper(t, &sent)
		helper.now = func() time.Time { return time.Date(2025, 10, 1, 15, 0, 0, 0, time.UTC) }

		helper.Send(context.Background(), "hola", false)
		assert.Equal(t, 1, sent)
	})
}
