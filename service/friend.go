package service

import (
	"context"
	"fmt"
	"time"

	"mingle/models"
	"mingle/store"
	"mingle/utils"
)

type FriendService struct {
	store store.Store
}

func NewFriendService(s store.Store) *FriendService {
	return &FriendService{store: s}
}

// CreateRequest opens a pending friend request from the caller to the user
// behind email. A pending request in either direction is a conflict: the
// reverse case forces the caller to accept or deny the existing request
// instead of creating a duplicate edge in the opposite direction.
func (s *FriendService) CreateRequest(ctx context.Context, caller *models.User, email string) (*models.FriendRequest, error) {
	if email == caller.Email {
		return nil, models.NewSelfRequestError()
	}

	var request *models.FriendRequest
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		receiver, err := tx.UserByEmail(email)
		if err != nil {
			return err
		}
		if receiver == nil {
			return models.NewUserNotFoundError(email)
		}

		friends, err := friendshipExists(tx, caller.ID, receiver.ID)
		if err != nil {
			return err
		}
		if friends {
			return models.NewAlreadyFriendsError()
		}

		forward, err := tx.RequestBetween(caller.ID, receiver.ID)
		if err != nil {
			return err
		}
		if forward != nil {
			return models.NewRequestExistsError()
		}

		reverse, err := tx.RequestBetween(receiver.ID, caller.ID)
		if err != nil {
			return err
		}
		if reverse != nil {
			return models.NewRequestReceivedError()
		}

		request = &models.FriendRequest{
			ID:         utils.GenerateUUID(),
			SenderID:   caller.ID,
			ReceiverID: receiver.ID,
			CreatedAt:  time.Now(),
		}
		return tx.InsertRequest(request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// AcceptRequest turns a pending request into a friendship with its backing
// direct conversation and both memberships, and removes the request — all in
// one transaction. The receiver-scoped delete is the existence re-check: when
// two accepts race, the loser's delete affects zero rows and surfaces
// not-found instead of duplicating the edge.
func (s *FriendService) AcceptRequest(ctx context.Context, callerID, requestID string) (*models.Friendship, error) {
	var friendship *models.Friendship
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		request, err := tx.RequestByID(requestID)
		if err != nil {
			return err
		}
		if request == nil || request.ReceiverID != callerID {
			return models.NewRequestNotFoundError()
		}

		deleted, err := tx.DeleteRequest(requestID)
		if err != nil {
			return err
		}
		if !deleted {
			return models.NewRequestNotFoundError()
		}

		now := time.Now()
		conversation := &models.Conversation{
			ID:        utils.GenerateUUID(),
			IsGroup:   false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.InsertConversation(conversation); err != nil {
			return err
		}

		friendship = &models.Friendship{
			ID:             utils.GenerateUUID(),
			ConversationID: conversation.ID,
			User1ID:        callerID,
			User2ID:        request.SenderID,
			CreatedAt:      now,
		}
		if err := tx.InsertFriendship(friendship); err != nil {
			return err
		}

		for _, memberID := range []string{callerID, request.SenderID} {
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
		return nil, err
	}
	return friendship, nil
}

// DenyRequest removes a pending request addressed to the caller. A stale
// request between users who are already friends is rejected instead of
// silently swallowed.
func (s *FriendService) DenyRequest(ctx context.Context, callerID, requestID string) error {
	return s.store.RunTx(ctx, func(tx store.Tx) error {
		request, err := tx.RequestByID(requestID)
		if err != nil {
			return err
		}
		if request == nil || request.ReceiverID != callerID {
			return models.NewRequestNotFoundError()
		}

		friends, err := friendshipExists(tx, callerID, request.SenderID)
		if err != nil {
			return err
		}
		if friends {
			return models.NewAlreadyFriendsError()
		}

		deleted, err := tx.DeleteRequest(requestID)
		if err != nil {
			return err
		}
		if !deleted {
			return models.NewRequestNotFoundError()
		}
		return nil
	})
}

// ListRequests returns the caller's incoming pending requests with sender
// details.
func (s *FriendService) ListRequests(ctx context.Context, callerID string) ([]models.RequestWithSender, error) {
	var result []models.RequestWithSender
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		requests, err := tx.RequestsForReceiver(callerID)
		if err != nil {
			return err
		}
		for _, request := range requests {
			sender, err := tx.UserByID(request.SenderID)
			if err != nil {
				return err
			}
			if sender == nil {
				return fmt.Errorf("request %s references missing sender %s", request.ID, request.SenderID)
			}
			result = append(result, models.RequestWithSender{
				FriendRequest: *request,
				Sender:        *sender.ToResponse(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListFriends returns the users on the other end of every friendship edge the
// caller occupies, from either slot. The store has no symmetric index, so the
// two slot lookups are unioned.
func (s *FriendService) ListFriends(ctx context.Context, callerID string) ([]*models.User, error) {
	var friends []*models.User
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		asUser1, err := tx.FriendshipsByUser1(callerID)
		if err != nil {
			return err
		}
		asUser2, err := tx.FriendshipsByUser2(callerID)
		if err != nil {
			return err
		}

		for _, edge := range append(asUser1, asUser2...) {
			friend, err := tx.UserByID(edge.OtherUser(callerID))
			if err != nil {
				return err
			}
			if friend == nil {
				return fmt.Errorf("friendship %s references missing user", edge.ID)
			}
			friends = append(friends, friend)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return friends, nil
}

// RemoveFriend tears down a direct conversation and everything hanging off
// it: the friendship edge, both memberships and all messages. Returns the ids
// of the two former members.
func (s *FriendService) RemoveFriend(ctx context.Context, callerID, conversationID string) ([]string, error) {
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
		if len(memberships) != 2 {
			return models.NewNotEnoughMembersError()
		}

		friendship, err := tx.FriendshipByConversation(conversationID)
		if err != nil {
			return err
		}
		if friendship == nil {
			return models.NewFriendshipNotFoundError()
		}

		if err := tx.DeleteConversation(conversationID); err != nil {
			return err
		}
		if err := tx.DeleteFriendship(friendship.ID); err != nil {
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

// friendshipExists checks both slots for an edge between a and b.
func friendshipExists(tx store.Tx, a, b string) (bool, error) {
	asUser1, err := tx.FriendshipsByUser1(a)
	if err != nil {
		return false, err
	}
	for _, edge := range asUser1 {
		if edge.User2ID == b {
			return true, nil
		}
	}

	asUser2, err := tx.FriendshipsByUser2(a)
	if err != nil {
		return false, err
	}
	for _, edge := range asUser2 {
		if edge.User1ID == b {
			return true, nil
		}
	}
	return false, nil
}
