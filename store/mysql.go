package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mingle/models"
)

// MySQLStore implements Store on top of database/sql. Each RunTx is one
// database transaction.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) RunTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&mysqlTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type mysqlTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *mysqlTx) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.ExternalID, &u.Username, &u.Email, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (t *mysqlTx) UserByID(id string) (*models.User, error) {
	return t.scanUser(t.tx.QueryRowContext(t.ctx,
		"SELECT id, external_id, username, email, avatar, created_at, updated_at FROM users WHERE id = ?", id))
}

func (t *mysqlTx) UserByExternalID(externalID string) (*models.User, error) {
	return t.scanUser(t.tx.QueryRowContext(t.ctx,
		"SELECT id, external_id, username, email, avatar, created_at, updated_at FROM users WHERE external_id = ?", externalID))
}

func (t *mysqlTx) UserByEmail(email string) (*models.User, error) {
	return t.scanUser(t.tx.QueryRowContext(t.ctx,
		"SELECT id, external_id, username, email, avatar, created_at, updated_at FROM users WHERE email = ?", email))
}

func (t *mysqlTx) UpsertUser(u *models.User) error {
	now := time.Now()
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO users (id, external_id, username, email, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE username = VALUES(username), email = VALUES(email),
			avatar = VALUES(avatar), updated_at = VALUES(updated_at)
	`, u.ID, u.ExternalID, u.Username, u.Email, u.Avatar, now, now)
	return err
}

func (t *mysqlTx) scanRequest(row *sql.Row) (*models.FriendRequest, error) {
	r := &models.FriendRequest{}
	err := row.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (t *mysqlTx) RequestByID(id string) (*models.FriendRequest, error) {
	return t.scanRequest(t.tx.QueryRowContext(t.ctx,
		"SELECT id, sender_id, receiver_id, created_at FROM friend_requests WHERE id = ?", id))
}

func (t *mysqlTx) RequestBetween(senderID, receiverID string) (*models.FriendRequest, error) {
	return t.scanRequest(t.tx.QueryRowContext(t.ctx,
		"SELECT id, sender_id, receiver_id, created_at FROM friend_requests WHERE sender_id = ? AND receiver_id = ?",
		senderID, receiverID))
}

func (t *mysqlTx) RequestsForReceiver(receiverID string) ([]*models.FriendRequest, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		"SELECT id, sender_id, receiver_id, created_at FROM friend_requests WHERE receiver_id = ? ORDER BY created_at DESC",
		receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.FriendRequest
	for rows.Next() {
		r := &models.FriendRequest{}
		if err := rows.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (t *mysqlTx) InsertRequest(r *models.FriendRequest) error {
	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO friend_requests (id, sender_id, receiver_id, created_at) VALUES (?, ?, ?, ?)",
		r.ID, r.SenderID, r.ReceiverID, r.CreatedAt)
	return err
}

func (t *mysqlTx) DeleteRequest(id string) (bool, error) {
	result, err := t.tx.ExecContext(t.ctx, "DELETE FROM friend_requests WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (t *mysqlTx) friendshipsWhere(column, userID string) ([]*models.Friendship, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		"SELECT id, conversation_id, user1_id, user2_id, created_at FROM friendships WHERE "+column+" = ?",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		f := &models.Friendship{}
		if err := rows.Scan(&f.ID, &f.ConversationID, &f.User1ID, &f.User2ID, &f.CreatedAt); err != nil {
			return nil, err
		}
		friendships = append(friendships, f)
	}
	return friendships, rows.Err()
}

func (t *mysqlTx) FriendshipsByUser1(userID string) ([]*models.Friendship, error) {
	return t.friendshipsWhere("user1_id", userID)
}

func (t *mysqlTx) FriendshipsByUser2(userID string) ([]*models.Friendship, error) {
	return t.friendshipsWhere("user2_id", userID)
}

func (t *mysqlTx) FriendshipByConversation(conversationID string) (*models.Friendship, error) {
	f := &models.Friendship{}
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT id, conversation_id, user1_id, user2_id, created_at FROM friendships WHERE conversation_id = ?",
		conversationID,
	).Scan(&f.ID, &f.ConversationID, &f.User1ID, &f.User2ID, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (t *mysqlTx) InsertFriendship(f *models.Friendship) error {
	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO friendships (id, conversation_id, user1_id, user2_id, created_at) VALUES (?, ?, ?, ?, ?)",
		f.ID, f.ConversationID, f.User1ID, f.User2ID, f.CreatedAt)
	return err
}

func (t *mysqlTx) DeleteFriendship(id string) error {
	_, err := t.tx.ExecContext(t.ctx, "DELETE FROM friendships WHERE id = ?", id)
	return err
}

func (t *mysqlTx) ConversationByID(id string) (*models.Conversation, error) {
	c := &models.Conversation{}
	var name sql.NullString
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT id, is_group, name, created_at, updated_at FROM conversations WHERE id = ?", id,
	).Scan(&c.ID, &c.IsGroup, &name, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Name = name.String
	return c, nil
}

func (t *mysqlTx) ConversationsForMember(memberID string) ([]*models.Conversation, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT c.id, c.is_group, c.name, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_members m ON c.id = m.conversation_id
		WHERE m.member_id = ?
		ORDER BY c.updated_at DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		c := &models.Conversation{}
		var name sql.NullString
		if err := rows.Scan(&c.ID, &c.IsGroup, &name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Name = name.String
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (t *mysqlTx) InsertConversation(c *models.Conversation) error {
	var name sql.NullString
	if c.Name != "" {
		name = sql.NullString{String: c.Name, Valid: true}
	}
	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO conversations (id, is_group, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.IsGroup, name, c.CreatedAt, c.UpdatedAt)
	return err
}

func (t *mysqlTx) DeleteConversation(id string) error {
	_, err := t.tx.ExecContext(t.ctx, "DELETE FROM conversations WHERE id = ?", id)
	return err
}

func (t *mysqlTx) scanMembership(row *sql.Row) (*models.ConversationMembership, error) {
	m := &models.ConversationMembership{}
	var lastSeen sql.NullString
	err := row.Scan(&m.ID, &m.ConversationID, &m.MemberID, &lastSeen, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		m.LastSeenMessageID = &lastSeen.String
	}
	return m, nil
}

func (t *mysqlTx) MembershipFor(memberID, conversationID string) (*models.ConversationMembership, error) {
	return t.scanMembership(t.tx.QueryRowContext(t.ctx,
		"SELECT id, conversation_id, member_id, last_seen_message_id, created_at FROM conversation_members WHERE member_id = ? AND conversation_id = ?",
		memberID, conversationID))
}

func (t *mysqlTx) MembershipsByConversation(conversationID string) ([]*models.ConversationMembership, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		"SELECT id, conversation_id, member_id, last_seen_message_id, created_at FROM conversation_members WHERE conversation_id = ?",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.ConversationMembership
	for rows.Next() {
		m := &models.ConversationMembership{}
		var lastSeen sql.NullString
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.MemberID, &lastSeen, &m.CreatedAt); err != nil {
			return nil, err
		}
		if lastSeen.Valid {
			m.LastSeenMessageID = &lastSeen.String
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (t *mysqlTx) InsertMembership(m *models.ConversationMembership) error {
	var lastSeen sql.NullString
	if m.LastSeenMessageID != nil {
		lastSeen = sql.NullString{String: *m.LastSeenMessageID, Valid: true}
	}
	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO conversation_members (id, conversation_id, member_id, last_seen_message_id, created_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.ConversationID, m.MemberID, lastSeen, m.CreatedAt)
	return err
}

func (t *mysqlTx) DeleteMembership(id string) error {
	_, err := t.tx.ExecContext(t.ctx, "DELETE FROM conversation_members WHERE id = ?", id)
	return err
}

func (t *mysqlTx) SetLastSeen(membershipID string, messageID *string) error {
	var lastSeen sql.NullString
	if messageID != nil {
		lastSeen = sql.NullString{String: *messageID, Valid: true}
	}
	_, err := t.tx.ExecContext(t.ctx,
		"UPDATE conversation_members SET last_seen_message_id = ? WHERE id = ?",
		lastSeen, membershipID)
	return err
}

func (t *mysqlTx) MessageByID(id string) (*models.Message, error) {
	m := &models.Message{}
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT id, conversation_id, sender_id, content, created_at FROM messages WHERE id = ?", id,
	).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (t *mysqlTx) MessagesByConversation(conversationID string, limit int) ([]*models.Message, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		"SELECT id, conversation_id, sender_id, content, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at DESC LIMIT ?",
		conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (t *mysqlTx) InsertMessage(m *models.Message) error {
	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO messages (id, conversation_id, sender_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.ConversationID, m.SenderID, m.Content, m.CreatedAt)
	return err
}

func (t *mysqlTx) DeleteMessagesByConversation(conversationID string) error {
	_, err := t.tx.ExecContext(t.ctx, "DELETE FROM messages WHERE conversation_id = ?", conversationID)
	return err
}

// compile-time interface checks
var (
	_ Store = (*MySQLStore)(nil)
	_ Tx    = (*mysqlTx)(nil)
)
