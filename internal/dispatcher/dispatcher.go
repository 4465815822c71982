package dispatcher

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/xaenox/router-bot/internal/classifier"
	"github.com/xaenox/router-bot/internal/models"
	"go.uber.org/zap"
)

// Sink delivers one reply to a chat.
type Sink interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type Searcher interface {
	Search(ctx context.Context, query string) string
}

type Calculator interface {
	Evaluate(expression string) string
}

type JokeTeller interface {
	Joke(ctx context.Context) string
}

type Chatter interface {
	Chat(ctx context.Context, prompt string) string
}

type Handlers struct {
	Search Searcher
	Math   Calculator
	Joke   JokeTeller
	Chat   Chatter
}

type Dispatcher struct {
	classifier classifier.Classifier
	handlers   Handlers
	sink       Sink
	logger     *zap.Logger
}

func New(cls classifier.Classifier, handlers Handlers, sink Sink, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		classifier: cls,
		handlers:   handlers,
		sink:       sink,
		logger:     logger,
	}
}

// Dispatch classifies msg and sends the resulting replies to its chat.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.InboundMessage) {
	d.Execute(ctx, msg.ChatID, d.classifier.Classify(msg.Text))
}

// Execute runs cmd and sends its replies in order. Each Send returns before the
// next reply is produced, so an acknowledgement always precedes its result.
func (d *Dispatcher) Execute(ctx context.Context, chatID int64, cmd models.Command) {
	logger := d.logger.With(
		zap.String("dispatch_id", uuid.NewString()),
		zap.Int64("chat_id", chatID),
		zap.String("command", cmd.Kind.String()))

	logger.Debug("Dispatching command")

	reply := func(text string) {
		d.send(ctx, logger, chatID, text)
	}

	switch cmd.Kind {
	case models.CommandGreeting:
		reply(WelcomeMessage)
	case models.CommandHelp:
		reply(HelpMessage)
	case models.CommandSearch:
		reply(SearchingMessage)
		reply(d.handlers.Search.Search(ctx, cmd.Payload))
	case models.CommandSolve:
		reply(d.handlers.Math.Evaluate(cmd.Payload))
	case models.CommandJoke:
		reply(d.handlers.Joke.Joke(ctx))
	case models.CommandChat:
		if strings.TrimSpace(cmd.Payload) == "" {
			reply(PromptRequiredMessage)
			return
		}
		reply(ThinkingMessage)
		reply(d.handlers.Chat.Chat(ctx, cmd.Payload))
	default:
		reply(UnknownCommandMessage)
	}
}

func (d *Dispatcher) send(ctx context.Context, logger *zap.Logger, chatID int64, text string) {
	if err := d.sink.Send(ctx, chatID, text); err != nil {
		logger.Error("Failed to send message", zap.Error(err))
	}
}
