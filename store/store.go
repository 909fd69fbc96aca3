// Package store defines the persistence primitives the core mutations are
// built from. Lookups return (nil, nil) when no row matches.
package store

import (
	"context"

	"mingle/models"
)

// Store runs units of work. Every public operation of the service layer is a
// single RunTx call: all reads and writes inside fn commit or roll back
// together.
type Store interface {
	RunTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row-level primitives available inside a unit of work.
type Tx interface {
	UserByID(id string) (*models.User, error)
	UserByExternalID(externalID string) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	UpsertUser(u *models.User) error

	RequestByID(id string) (*models.FriendRequest, error)
	RequestBetween(senderID, receiverID string) (*models.FriendRequest, error)
	RequestsForReceiver(receiverID string) ([]*models.FriendRequest, error)
	InsertRequest(r *models.FriendRequest) error
	// DeleteRequest reports whether a row was actually removed, so callers
	// can re-check existence inside the transaction that deletes.
	DeleteRequest(id string) (bool, error)

	FriendshipsByUser1(userID string) ([]*models.Friendship, error)
	FriendshipsByUser2(userID string) ([]*models.Friendship, error)
	FriendshipByConversation(conversationID string) (*models.Friendship, error)
	InsertFriendship(f *models.Friendship) error
	DeleteFriendship(id string) error

	ConversationByID(id string) (*models.Conversation, error)
	ConversationsForMember(memberID string) ([]*models.Conversation, error)
	InsertConversation(c *models.Conversation) error
	DeleteConversation(id string) error

	MembershipFor(memberID, conversationID string) (*models.ConversationMembership, error)
	MembershipsByConversation(conversationID string) ([]*models.ConversationMembership, error)
	InsertMembership(m *models.ConversationMembership) error
	DeleteMembership(id string) error
	// SetLastSeen patches the read pointer; nil clears it.
	SetLastSeen(membershipID string, messageID *string) error

	MessageByID(id string) (*models.Message, error)
	MessagesByConversation(conversationID string, limit int) ([]*models.Message, error)
	InsertMessage(m *models.Message) error
	DeleteMessagesByConversation(conversationID string) error
}
