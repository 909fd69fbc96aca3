// Package service implements the relational-consistency core: every public
// method resolves to a single store transaction, and every cross-row
// invariant is re-checked inside that transaction.
package service

import (
	"context"
	"time"

	"mingle/models"
	"mingle/store"
	"mingle/utils"
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// Resolve maps a verified external subject to the internal user record.
func (s *UserService) Resolve(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, models.NewNotAuthenticatedError()
	}

	var user *models.User
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		u, err := tx.UserByExternalID(externalID)
		if err != nil {
			return err
		}
		if u == nil {
			return models.NewCurrentUserNotFoundError()
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := s.store.RunTx(ctx, func(tx store.Tx) error {
		u, err := tx.UserByEmail(email)
		if err != nil {
			return err
		}
		if u == nil {
			return models.NewUserNotFoundError(email)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ApplyIdentityEvent upserts a user from an upstream identity event. Unknown
// event types are ignored; the webhook handler logs them.
func (s *UserService) ApplyIdentityEvent(ctx context.Context, event *models.IdentityEvent) error {
	switch event.Type {
	case "user.created", "user.updated":
	default:
		return nil
	}

	return s.store.RunTx(ctx, func(tx store.Tx) error {
		existing, err := tx.UserByExternalID(event.Data.ID)
		if err != nil {
			return err
		}

		user := &models.User{
			ExternalID: event.Data.ID,
			Username:   event.Data.Username,
			Email:      event.Data.Email,
			Avatar:     event.Data.ImageURL,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if existing != nil {
			user.ID = existing.ID
		} else {
			user.ID = utils.GenerateUUID()
		}
		return tx.UpsertUser(user)
	})
}
