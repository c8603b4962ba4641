package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiURL = "https://api.telegram.org/bot"

type Bot struct {
	baseURL string
	chatID  string
	client  *http.Client
}

// NewBot creates a bot that posts to chatID unless a message names another chat.
func NewBot(token, chatID string, timeout time.Duration) *Bot {
	return &Bot{
		baseURL: apiURL + token,
		chatID:  chatID,
		client:  &http.Client{Timeout: timeout},
	}
}

// Notify sends text to the configured operator chat.
func (b *Bot) Notify(ctx context.Context, text string) error {
	return b.SendMessage(ctx, b.chatID, text)
}

func (b *Bot) SendMessage(ctx context.Context, chatID, text string) error {
	params := url.Values{}
	params.Add("chat_id", chatID)
	params.Add("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/sendMessage", strings.NewReader(params.Encode()))
	if err != nil {
		return errors.New("telegram sendMessage: cannot build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		// URL запроса содержит токен бота, поэтому в ошибку попадает только причина
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("telegram sendMessage: %w", uerr.Err)
		}
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}
