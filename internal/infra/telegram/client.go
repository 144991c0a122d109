package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client sends operator alerts to a fixed set of admin chats.
type Client struct {
	api      botAPI
	logger   *slog.Logger
	limiter  *rate.Limiter
	adminIDs []int64
}

func NewClient(token string, adminIDs []int64, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return newClient(bot, adminIDs, logger), nil
}

func newClient(api botAPI, adminIDs []int64, logger *slog.Logger) *Client {
	// Telegram allows about 30 messages per second
	return &Client{
		api:      api,
		logger:   logger,
		limiter:  rate.NewLimiter(30, 1),
		adminIDs: adminIDs,
	}
}

// SendMessage waits for the limiter before sending.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("Failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()))
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// NotifyAdmins sends text to every admin chat and returns the first failure.
// A failing chat does not stop delivery to the rest.
func (c *Client) NotifyAdmins(ctx context.Context, text string) error {
	var firstErr error
	for _, id := range c.adminIDs {
		if err := c.SendMessage(ctx, id, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
