package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"entradalert/internal/common"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org/bot"
	sendTimeout       = 10 * time.Second
)

// TelegramClient talks to the Telegram Bot API: outbound messages for the
// monitor, getUpdates long-polling for the command bot.
type TelegramClient struct {
	botToken   string
	baseURL    string
	httpClient *http.Client
}

// NewTelegramClient creates a new Telegram API client
func NewTelegramClient(botToken string) (*TelegramClient, error) {
	if botToken == "" {
		return nil, common.NewError("telegram bot token is required")
	}
	return &TelegramClient{
		botToken:   botToken,
		baseURL:    defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: sendTimeout},
	}, nil
}

// WithBaseURL overrides the API endpoint, for tests.
func (c *TelegramClient) WithBaseURL(baseURL string) *TelegramClient {
	c.baseURL = baseURL
	return c
}

func (c *TelegramClient) methodURL(method string) string {
	return fmt.Sprintf("%s%s/%s", c.baseURL, c.botToken, method)
}

// SendMessage delivers an HTML-formatted message to a chat.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string) error {
	if text == "" {
		return common.NewError("message text is required")
	}

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	body, err := c.call(ctx, "sendMessage", payload, sendTimeout)
	if err != nil {
		return err
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return common.WrapError(err, "failed to parse sendMessage response")
	}
	if !result.OK {
		return common.NewError("telegram API error: %s", result.Description)
	}
	return nil
}

// Update is one inbound event from getUpdates. Only text messages matter here.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the text-message subset of a Telegram update.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

// Chat identifies where a message came from.
type Chat struct {
	ID int64 `json:"id"`
}

// GetUpdates long-polls for inbound updates past offset. Blocks up to
// timeoutSecs on the server side.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]Update, error) {
	payload := map[string]interface{}{
		"offset":          offset,
		"timeout":         timeoutSecs,
		"allowed_updates": []string{"message"},
	}
	// The HTTP deadline must outlast the server-side hold.
	body, err := c.call(ctx, "getUpdates", payload, time.Duration(timeoutSecs)*time.Second+sendTimeout)
	if err != nil {
		return nil, err
	}

	var result struct {
		OK          bool     `json:"ok"`
		Description string   `json:"description"`
		Result      []Update `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, common.WrapError(err, "failed to parse getUpdates response")
	}
	if !result.OK {
		return nil, common.NewError("telegram API error: %s", result.Description)
	}
	return result.Result, nil
}

func (c *TelegramClient) call(ctx context.Context, method string, payload map[string]interface{}, timeout time.Duration) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, common.WrapError(err, "failed to marshal request payload")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, common.WrapError(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewNetworkError(method, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.WrapError(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, common.NewError("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
