package models

import "time"

type Conversation struct {
	ID        string    `json:"id"`
	IsGroup   bool      `json:"is_group"`
	Name      string    `json:"name,omitempty"` // set only for groups
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationMembership struct {
	ID                string    `json:"id"`
	ConversationID    string    `json:"conversation_id"`
	MemberID          string    `json:"member_id"`
	LastSeenMessageID *string   `json:"last_seen_message_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// OtherMember is the peer of a direct conversation, enriched with their read
// pointer.
type OtherMember struct {
	UserResponse
	LastSeenMessageID *string `json:"last_seen_message_id"`
}

// ConversationDetail is the shape returned by conversation.get. Exactly one of
// OtherMember / OtherMembers is set, depending on the variant.
type ConversationDetail struct {
	Conversation
	OtherMember  *OtherMember   `json:"other_member"`
	OtherMembers []UserResponse `json:"other_members"`
}
