package models

import "time"

type FriendRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestWithSender is an incoming pending request joined with the sender's
// user record.
type RequestWithSender struct {
	FriendRequest
	Sender UserResponse `json:"sender"`
}

// Friendship is one confirmed edge of the social graph. The pair is unordered
// but stored in two fixed slots; lookups go through both slots.
type Friendship struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	User1ID        string    `json:"user1_id"`
	User2ID        string    `json:"user2_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// OtherUser returns the slot that is not userID.
func (f *Friendship) OtherUser(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}
