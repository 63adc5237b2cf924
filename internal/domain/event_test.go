package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"chat_id":-100123,"message_id":42,"text":"/india active","from":"asha"}`)}
		cmd, err := ParseChatCommand(raw)
		require.NoError(t, err)
		assert.Equal(t, ChatCommand{ChatID: -100123, MessageID: 42, Text: "/india active", From: "asha"}, cmd)
	})

	tests := []struct {
		name  string
		value string
	}{
		{"invalid json", `{not json`},
		{"missing chat", `{"text":"/india"}`},
		{"empty text", `{"chat_id":1,"text":"  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChatCommand(RawEvent{Value: []byte(tt.value)})
			assert.Error(t, err)
		})
	}
}

func TestSerializeReply(t *testing.T) {
	fixed := time.Date(2020, 6, 1, 10, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	reply := NewReply(ChatCommand{ChatID: 7, MessageID: 3, Text: "/india"}, "india", "req-1", "```\nbody\n```")
	assert.Equal(t, fixed, reply.ProcessedAt)

	out, err := SerializeReply(reply)
	require.NoError(t, err)
	assert.Equal(t, []byte("7"), out.Key)
	assert.Equal(t, map[string]string{
		"command":      "india",
		"request_id":   "req-1",
		"processed_at": "2020-06-01T10:30:00Z",
	}, out.Headers)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &payload))
	assert.Equal(t, map[string]any{
		"chat_id":                  float64(7),
		"reply_to":                 float64(3),
		"text":                     "```\nbody\n```",
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	}, payload)
}
