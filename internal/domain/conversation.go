package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a follow-up chat session attached to a completed
// symptom check.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	CheckID   string    `json:"check_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conversation message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn in a conversation.
type ConversationMessage struct {
	ID             int64     `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
