package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawEvent represents an unprocessed message from the command topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the reply topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ChatCommand is an inbound chat message published by the chat gateway.
type ChatCommand struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	From      string `json:"from,omitempty"`
}

// ChatReply is the message the gateway sends back to the chat.
type ChatReply struct {
	ChatID                int64  `json:"chat_id"`
	ReplyTo               int64  `json:"reply_to,omitempty"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`

	// Envelope fields carried as message headers, not in the payload.
	Command     string    `json:"-"`
	RequestID   string    `json:"-"`
	ProcessedAt time.Time `json:"-"`
}

// ParseMarkdown is the parse mode replies are sent with; reports rely on its
// ``` monospace blocks.
const ParseMarkdown = "Markdown"

// ParseChatCommand deserializes a RawEvent's value into a ChatCommand.
func ParseChatCommand(raw RawEvent) (ChatCommand, error) {
	var cmd ChatCommand
	if err := json.Unmarshal(raw.Value, &cmd); err != nil {
		return ChatCommand{}, fmt.Errorf("parse chat command: %w", err)
	}
	if cmd.ChatID == 0 {
		return ChatCommand{}, fmt.Errorf("parse chat command: missing chat_id")
	}
	if strings.TrimSpace(cmd.Text) == "" {
		return ChatCommand{}, fmt.Errorf("parse chat command: empty text")
	}
	return cmd, nil
}

// NewReply builds the reply to cmd, stamping it with the current time.
func NewReply(cmd ChatCommand, command, requestID, text string) ChatReply {
	return ChatReply{
		ChatID:                cmd.ChatID,
		ReplyTo:               cmd.MessageID,
		Text:                  text,
		ParseMode:             ParseMarkdown,
		DisableWebPagePreview: true,
		Command:               command,
		RequestID:             requestID,
		ProcessedAt:           clock.Now().UTC(),
	}
}

// SerializeReply converts a ChatReply into an OutputEvent keyed by chat id so
// that replies to one chat stay ordered within a partition.
func SerializeReply(reply ChatReply) (OutputEvent, error) {
	value, err := json.Marshal(reply)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize reply: %w", err)
	}
	return OutputEvent{
		Key:   []byte(strconv.FormatInt(reply.ChatID, 10)),
		Value: value,
		Headers: map[string]string{
			"command":      reply.Command,
			"request_id":   reply.RequestID,
			"processed_at": reply.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
