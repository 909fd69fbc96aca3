package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/models"
)

func TestResolve_MapsExternalSubject(t *testing.T) {
	s := newMemStore()
	alice := s.addUser("u1", "alice", "alice@example.com")

	svc := NewUserService(s)
	user, err := svc.Resolve(context.Background(), alice.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
}

func TestResolve_EmptySubjectUnauthenticated(t *testing.T) {
	svc := NewUserService(newMemStore())
	_, err := svc.Resolve(context.Background(), "")
	assert.Equal(t, models.KindUnauthenticated, apiErr(t, err).Kind)
}

func TestResolve_UnknownSubjectNotFound(t *testing.T) {
	svc := NewUserService(newMemStore())
	_, err := svc.Resolve(context.Background(), "ext-ghost")
	assert.Equal(t, models.ErrCodeCurrentUserNotFound, apiErr(t, err).Code)
}

func TestFindByEmail(t *testing.T) {
	s := newMemStore()
	alice := s.addUser("u1", "alice", "alice@example.com")

	svc := NewUserService(s)
	user, err := svc.FindByEmail(context.Background(), alice.Email)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = svc.FindByEmail(context.Background(), "nobody@example.com")
	assert.Equal(t, models.KindNotFound, apiErr(t, err).Kind)
}

func TestApplyIdentityEvent_CreatesThenUpdates(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(s)
	ctx := context.Background()

	created := &models.IdentityEvent{
		Type: "user.created",
		Data: models.IdentityEventData{
			ID:       "ext-42",
			Username: "Dana Scully",
			Email:    "dana@example.com",
			ImageURL: "https://cdn.example.com/dana.png",
		},
	}
	require.NoError(t, svc.ApplyIdentityEvent(ctx, created))
	require.Len(t, s.users, 1)

	user, err := svc.Resolve(ctx, "ext-42")
	require.NoError(t, err)
	assert.Equal(t, "Dana Scully", user.Username)

	updated := &models.IdentityEvent{
		Type: "user.updated",
		Data: models.IdentityEventData{
			ID:       "ext-42",
			Username: "D. Scully",
			Email:    "dana@example.com",
		},
	}
	require.NoError(t, svc.ApplyIdentityEvent(ctx, updated))
	require.Len(t, s.users, 1, "update must not create a second user")

	user, err = svc.Resolve(ctx, "ext-42")
	require.NoError(t, err)
	assert.Equal(t, "D. Scully", user.Username)
}

func TestApplyIdentityEvent_IgnoresUnknownTypes(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(s)

	event := &models.IdentityEvent{Type: "session.created"}
	require.NoError(t, svc.ApplyIdentityEvent(context.Background(), event))
	assert.Empty(t, s.users)
}
