package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mingle/models"
	"mingle/store"
	"mingle/utils"
)

type ConversationService struct {
	store store.Store
}

func NewConversationService(s store.Store) *ConversationService {
	return &ConversationService{store: s}
}

// Get returns a conversation the caller belongs to. The direct variant is
// enriched with the single other member and their read pointer; the group
// variant carries the other members without read-state.
func (s *ConversationService) Get(ctx context.Context, callerID, conversationID string) (*models.ConversationDetail, error) {
	var detail *models.ConversationDetail
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		conversation, err := tx.ConversationByID(conversationID)
		if err != nil {
			return err
		}
		if conversation == nil {
			return models.NewConversationNotFoundError()
		}

		membership, err := tx.MembershipFor(callerID, conversationID)
		if err != nil {
			return err
		}
		if membership == nil {
			return models.NewNotMemberError()
		}

		memberships, err := tx.MembershipsByConversation(conversationID)
		if err != nil {
			return err
		}

		detail = &models.ConversationDetail{Conversation: *conversation}
		if !conversation.IsGroup {
			var other *models.ConversationMembership
			for _, m := range memberships {
				if m.MemberID != callerID {
					other = m
					break
				}
			}
			if other == nil {
				return fmt.Errorf("direct conversation %s has no other member", conversationID)
			}
			user, err := tx.UserByID(other.MemberID)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("membership %s references missing user", other.ID)
			}
			detail.OtherMember = &models.OtherMember{
				UserResponse:      *user.ToResponse(),
				LastSeenMessageID: other.LastSeenMessageID,
			}
			return nil
		}

		for _, m := range memberships {
			if m.MemberID == callerID {
				continue
			}
			user, err := tx.UserByID(m.MemberID)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("membership %s references missing user", m.ID)
			}
			detail.OtherMembers = append(detail.OtherMembers, *user.ToResponse())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ConversationService) List(ctx context.Context, callerID string) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		var err error
		conversations, err = tx.ConversationsForMember(callerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// CreateGroup creates a named group conversation with the caller and every
// distinct member. Duplicate member ids are collapsed so the unique
// (conversation, member) key is never violated.
func (s *ConversationService) CreateGroup(ctx context.Context, callerID, name string, memberIDs []string) (*models.Conversation, []string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, models.NewInvalidGroupError("group name is required")
	}

	seen := map[string]bool{callerID: true}
	members := []string{callerID}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) < 2 {
		return nil, nil, models.NewInvalidGroupError("a group needs at least one other member")
	}

	var conversation *models.Conversation
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		for _, memberID := range members {
			user, err := tx.UserByID(memberID)
			if err != nil {
				return err
			}
			if user == nil {
				return models.NewUserNotFoundError(memberID)
			}
		}

		now := time.Now()
		conversation = &models.Conversation{
			ID:        utils.GenerateUUID(),
			IsGroup:   true,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.InsertConversation(conversation); err != nil {
			return err
		}

		for _, memberID := range members {
			membership := &models.ConversationMembership{
				ID:             utils.GenerateUUID(),
				ConversationID: conversation.ID,
				MemberID:       memberID,
				CreatedAt:      now,
			}
			if err := tx.InsertMembership(membership); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return conversation, members, nil
}

// DeleteGroup removes a conversation with its memberships and messages as one
// unit. Conversations with one or fewer memberships are rejected. Returns the
// removed member ids.
func (s *ConversationService) DeleteGroup(ctx context.Context, callerID, conversationID string) ([]string, error) {
	var memberIDs []string
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		conversation, err := tx.ConversationByID(conversationID)
		if err != nil {
			return err
		}
		if conversation == nil {
			return models.NewConversationNotFoundError()
		}

		memberships, err := tx.MembershipsByConversation(conversationID)
		if err != nil {
			return err
		}
		if len(memberships) <= 1 {
			return models.NewNotEnoughMembersError()
		}

		if err := tx.DeleteConversation(conversationID); err != nil {
			return err
		}
		for _, membership := range memberships {
			if err := tx.DeleteMembership(membership.ID); err != nil {
				return err
			}
			memberIDs = append(memberIDs, membership.MemberID)
		}
		return tx.DeleteMessagesByConversation(conversationID)
	})
	if err != nil {
		return nil, err
	}
	return memberIDs, nil
}

// LeaveGroup removes only the caller's membership.
func (s *ConversationService) LeaveGroup(ctx context.Context, callerID, conversationID string) error {
	return s.store.RunTx(ctx, func(tx store.Tx) error {
		conversation, err := tx.ConversationByID(conversationID)
		if err != nil {
			return err
		}
		if conversation == nil {
			return models.NewConversationNotFoundError()
		}

		membership, err := tx.MembershipFor(callerID, conversationID)
		if err != nil {
			return err
		}
		if membership == nil {
			return models.NewNotMemberError()
		}
		return tx.DeleteMembership(membership.ID)
	})
}

// MarkRead moves the caller's read pointer to messageID. A message that no
// longer exists clears the pointer instead of failing, which tolerates a
// caller racing a concurrent message deletion.
func (s *ConversationService) MarkRead(ctx context.Context, callerID, conversationID, messageID string) error {
	return s.store.RunTx(ctx, func(tx store.Tx) error {
		membership, err := tx.MembershipFor(callerID, conversationID)
		if err != nil {
			return err
		}
		if membership == nil {
			return models.NewNotMemberError()
		}

		message, err := tx.MessageByID(messageID)
		if err != nil {
			return err
		}
		if message == nil {
			return tx.SetLastSeen(membership.ID, nil)
		}
		return tx.SetLastSeen(membership.ID, &message.ID)
	})
}

// SendMessage stores a message and returns it with the conversation's member
// ids so the caller can fan out a notification.
func (s *ConversationService) SendMessage(ctx context.Context, callerID, conversationID, content string) (*models.Message, []string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, models.NewEmptyMessageError()
	}

	var message *models.Message
	var memberIDs []string
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		membership, err := tx.MembershipFor(callerID, conversationID)
		if err != nil {
			return err
		}
		if membership == nil {
			return models.NewNotMemberError()
		}

		message = &models.Message{
			ID:             utils.GenerateUUID(),
			ConversationID: conversationID,
			SenderID:       callerID,
			Content:        content,
			CreatedAt:      time.Now(),
		}
		if err := tx.InsertMessage(message); err != nil {
			return err
		}

		memberships, err := tx.MembershipsByConversation(conversationID)
		if err != nil {
			return err
		}
		for _, m := range memberships {
			memberIDs = append(memberIDs, m.MemberID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return message, memberIDs, nil
}

func (s *ConversationService) ListMessages(ctx context.Context, callerID, conversationID string, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var messages []*models.Message
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		membership, err := tx.MembershipFor(callerID, conversationID)
		if err != nil {
			return err
		}
		if membership == nil {
			return models.NewNotMemberError()
		}
		messages, err = tx.MessagesByConversation(conversationID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
