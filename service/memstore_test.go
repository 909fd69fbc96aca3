package service

import (
	"context"
	"sync"

	"mingle/models"
	"mingle/store"
)

// memStore is an in-memory store.Store for exercising the core mutations
// without a database. The mutex stands in for the store's transaction
// serialization.
type memStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	requests      map[string]*models.FriendRequest
	friendships   map[string]*models.Friendship
	conversations map[string]*models.Conversation
	memberships   map[string]*models.ConversationMembership
	messages      map[string]*models.Message
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[string]*models.User),
		requests:      make(map[string]*models.FriendRequest),
		friendships:   make(map[string]*models.Friendship),
		conversations: make(map[string]*models.Conversation),
		memberships:   make(map[string]*models.ConversationMembership),
		messages:      make(map[string]*models.Message),
	}
}

func (s *memStore) RunTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{s: s})
}

func (s *memStore) addUser(id, username, email string) *models.User {
	u := &models.User{ID: id, ExternalID: "ext-" + id, Username: username, Email: email}
	s.users[id] = u
	return u
}

type memTx struct {
	s *memStore
}

func (t *memTx) UserByID(id string) (*models.User, error) {
	return t.s.users[id], nil
}

func (t *memTx) UserByExternalID(externalID string) (*models.User, error) {
	for _, u := range t.s.users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return nil, nil
}

func (t *memTx) UserByEmail(email string) (*models.User, error) {
	for _, u := range t.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (t *memTx) UpsertUser(u *models.User) error {
	t.s.users[u.ID] = u
	return nil
}

func (t *memTx) RequestByID(id string) (*models.FriendRequest, error) {
	return t.s.requests[id], nil
}

func (t *memTx) RequestBetween(senderID, receiverID string) (*models.FriendRequest, error) {
	for _, r := range t.s.requests {
		if r.SenderID == senderID && r.ReceiverID == receiverID {
			return r, nil
		}
	}
	return nil, nil
}

func (t *memTx) RequestsForReceiver(receiverID string) ([]*models.FriendRequest, error) {
	var out []*models.FriendRequest
	for _, r := range t.s.requests {
		if r.ReceiverID == receiverID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *memTx) InsertRequest(r *models.FriendRequest) error {
	t.s.requests[r.ID] = r
	return nil
}

func (t *memTx) DeleteRequest(id string) (bool, error) {
	if _, ok := t.s.requests[id]; !ok {
		return false, nil
	}
	delete(t.s.requests, id)
	return true, nil
}

func (t *memTx) FriendshipsByUser1(userID string) ([]*models.Friendship, error) {
	var out []*models.Friendship
	for _, f := range t.s.friendships {
		if f.User1ID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (t *memTx) FriendshipsByUser2(userID string) ([]*models.Friendship, error) {
	var out []*models.Friendship
	for _, f := range t.s.friendships {
		if f.User2ID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (t *memTx) FriendshipByConversation(conversationID string) (*models.Friendship, error) {
	for _, f := range t.s.friendships {
		if f.ConversationID == conversationID {
			return f, nil
		}
	}
	return nil, nil
}

func (t *memTx) InsertFriendship(f *models.Friendship) error {
	t.s.friendships[f.ID] = f
	return nil
}

func (t *memTx) DeleteFriendship(id string) error {
	delete(t.s.friendships, id)
	return nil
}

func (t *memTx) ConversationByID(id string) (*models.Conversation, error) {
	return t.s.conversations[id], nil
}

func (t *memTx) ConversationsForMember(memberID string) ([]*models.Conversation, error) {
	var out []*models.Conversation
	for _, m := range t.s.memberships {
		if m.MemberID == memberID {
			if c, ok := t.s.conversations[m.ConversationID]; ok {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (t *memTx) InsertConversation(c *models.Conversation) error {
	t.s.conversations[c.ID] = c
	return nil
}

func (t *memTx) DeleteConversation(id string) error {
	delete(t.s.conversations, id)
	return nil
}

func (t *memTx) MembershipFor(memberID, conversationID string) (*models.ConversationMembership, error) {
	for _, m := range t.s.memberships {
		if m.MemberID == memberID && m.ConversationID == conversationID {
			return m, nil
		}
	}
	return nil, nil
}

func (t *memTx) MembershipsByConversation(conversationID string) ([]*models.ConversationMembership, error) {
	var out []*models.ConversationMembership
	for _, m := range t.s.memberships {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (t *memTx) InsertMembership(m *models.ConversationMembership) error {
	t.s.memberships[m.ID] = m
	return nil
}

func (t *memTx) DeleteMembership(id string) error {
	delete(t.s.memberships, id)
	return nil
}

func (t *memTx) SetLastSeen(membershipID string, messageID *string) error {
	if m, ok := t.s.memberships[membershipID]; ok {
		m.LastSeenMessageID = messageID
	}
	return nil
}

func (t *memTx) MessageByID(id string) (*models.Message, error) {
	return t.s.messages[id], nil
}

func (t *memTx) MessagesByConversation(conversationID string, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range t.s.messages {
		if m.ConversationID == conversationID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (t *memTx) InsertMessage(m *models.Message) error {
	t.s.messages[m.ID] = m
	return nil
}

func (t *memTx) DeleteMessagesByConversation(conversationID string) error {
	for id, m := range t.s.messages {
		if m.ConversationID == conversationID {
			delete(t.s.messages, id)
		}
	}
	return nil
}

var _ store.Store = (*memStore)(nil)
var _ store.Tx = (*memTx)(nil)
