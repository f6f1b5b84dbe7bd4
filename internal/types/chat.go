package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType tags a transcript entry. It is a closed set: decoding an unknown
// tag is an error rather than a silently accepted string.
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageBot    MessageType = "bot"
	MessageSystem MessageType = "system"
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageUser, MessageBot, MessageSystem:
		return true
	}
	return false
}

// UnmarshalJSON enforces the closed set on decode.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mt := MessageType(s)
	if !mt.Valid() {
		return fmt.Errorf("unknown message type %q", s)
	}
	*t = mt
	return nil
}

// ChatMessage is one entry in the append-only interview transcript.
type ChatMessage struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewChatMessage builds a transcript entry with a fresh unique ID.
func NewChatMessage(t MessageType, content string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Type:      t,
		Content:   content,
		Timestamp: now,
	}
}
