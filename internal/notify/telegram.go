// Package notify delivers dataset lifecycle alerts to a Telegram chat.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GoPolymarket/vesting-dashboard/internal/report"
)

// Notifier posts messages through the Telegram Bot API.
type Notifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
	enabled    bool
	baseURL    string // overridable for testing; defaults to Telegram API
}

// NewNotifier returns a notifier that is enabled only when both botToken
// and chatID are set.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		enabled:    botToken != "" && chatID != "",
	}
}

func (n *Notifier) Enabled() bool { return n.enabled }

// Send posts an HTML message. A disabled notifier drops it silently.
func (n *Notifier) Send(ctx context.Context, msg string) error {
	if !n.enabled {
		return nil
	}

	endpoint := n.baseURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	}
	form := url.Values{
		"chat_id":    {n.chatID},
		"text":       {msg},
		"parse_mode": {"HTML"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("notify: telegram %d: %s", resp.StatusCode, body.Description)
	}
	return nil
}

// NotifyLoad reports a load or reload outcome, success or failure.
func (n *Notifier) NotifyLoad(ctx context.Context, d report.LoadData) error {
	return n.Send(ctx, report.RenderLoadHTML(d))
}

// NotifyStarted announces the dashboard surface that came up.
func (n *Notifier) NotifyStarted(ctx context.Context, mode, addr string) error {
	msg := fmt.Sprintf("<b>Vesting Dashboard Started</b>\nMode: %s", strings.ToUpper(mode))
	if addr != "" {
		msg += fmt.Sprintf("\nAPI: <code>%s</code>", addr)
	}
	return n.Send(ctx, msg)
}
