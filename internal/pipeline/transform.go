package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/covid19-tracker-bot/internal/bot"
	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
)

// Responder answers one chat command.
type Responder interface {
	Respond(ctx context.Context, cmd domain.ChatCommand) (domain.ChatReply, error)
}

// CommandTransformer implements Transformer by decoding a chat command,
// answering it and serializing the reply.
type CommandTransformer struct {
	responder Responder
	logger    *slog.Logger
}

// NewTransformer creates a CommandTransformer.
func NewTransformer(responder Responder, logger *slog.Logger) *CommandTransformer {
	return &CommandTransformer{
		responder: responder,
		logger:    logger,
	}
}

func (t *CommandTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	cmd, err := domain.ParseChatCommand(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	reply, err := t.responder.Respond(ctx, cmd)
	if errors.Is(err, bot.ErrNotACommand) {
		return domain.OutputEvent{}, fmt.Errorf("%w: %w", ErrSkipped, err)
	}
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.logger.Info("command answered",
		"command", reply.Command,
		"chat_id", reply.ChatID,
		"request_id", reply.RequestID,
	)
	return domain.SerializeReply(reply)
}
