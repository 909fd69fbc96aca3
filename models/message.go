package models

import "time"

// Message carries only what the core needs: identity and its conversation.
// Content is opaque text; rendering, delivery and ordering live elsewhere.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
