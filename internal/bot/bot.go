package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/router-bot/internal/models"
	"go.uber.org/zap"
)

const (
	maxMessageLength = 4096

	// EmptyReplyText stands in for replies that are blank, which Telegram rejects.
	EmptyReplyText = "(empty)"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, msg models.InboundMessage)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func New(token string, debug bool, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	return &Bot{
		api:    api,
		logger: logger,
	}, nil
}

// Run long-polls for updates until ctx is cancelled, then waits for in-flight dispatches.
func (b *Bot) Run(ctx context.Context, d Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	queue := newChatQueue(d.Dispatch)

	b.logger.Info("Telegram bot is running",
		zap.String("username", b.api.Self.UserName))

	defer queue.wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Stopping bot, waiting for in-flight messages")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg, ok := inboundMessage(update)
			if !ok {
				continue
			}
			queue.enqueue(ctx, msg)
		}
	}
}

func inboundMessage(update tgbotapi.Update) (models.InboundMessage, bool) {
	if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
		return models.InboundMessage{}, false
	}
	return models.InboundMessage{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
	}, true
}

// Send delivers text as plain-text messages, split to fit Telegram's length limit.
func (b *Bot) Send(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range outgoingChunks(text) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

// outgoingChunks splits text into sendable messages. Blank chunks are dropped,
// and a reply that is blank as a whole becomes EmptyReplyText.
func outgoingChunks(text string) []string {
	var chunks []string
	for _, chunk := range splitText(text, maxMessageLength) {
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	if len(chunks) == 0 {
		return []string{EmptyReplyText}
	}
	return chunks
}

func splitText(text string, chunkSize int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
