package service

import (
	"context"
	"testing"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, model.SessionCredentials{})

	err := svc.Store(context.Background(), testUserID, model.SessionCredentials{
		LeetCodeSession: "  sess  ",
		CSRFToken:       " csrf ",
	})
	require.NoError(t, err)

	stored := repo.sessions[testUserID]
	assert.Equal(t, "sess", stored.LeetCodeSession)
	assert.Equal(t, "csrf", stored.CSRFToken)
}

func TestSessionStore_RequiresBothCookies(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo(), model.SessionCredentials{})

	tests := []model.SessionCredentials{
		{},
		{LeetCodeSession: "sess"},
		{CSRFToken: "csrf"},
		{LeetCodeSession: "   ", CSRFToken: "csrf"},
	}
	for _, creds := range tests {
		err := svc.Store(context.Background(), testUserID, creds)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrBadRequest)
	}
}

func TestSessionStatus(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, model.SessionCredentials{LeetCodeSession: "env", CSRFToken: "env"})

	// No stored session: disconnected even when the env fallback exists.
	status, err := svc.Status(context.Background(), testUserID)
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Empty(t, status.LeetCodeSession)

	repo.sessions[testUserID] = model.SessionCredentials{LeetCodeSession: "sess", CSRFToken: "csrf"}
	status, err = svc.Status(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sess", status.LeetCodeSession)
	assert.Equal(t, "csrf", status.CSRFToken)
}

func TestSessionActive(t *testing.T) {
	repo := newFakeSessionRepo()
	fallback := model.SessionCredentials{LeetCodeSession: "env-sess", CSRFToken: "env-csrf"}
	svc := NewSessionService(repo, fallback)

	creds, err := svc.Active(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, fallback, creds)

	stored := model.SessionCredentials{LeetCodeSession: "sess", CSRFToken: "csrf"}
	repo.sessions[testUserID] = stored
	creds, err = svc.Active(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, stored, creds)
}

func TestSessionClear(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.sessions[testUserID] = model.SessionCredentials{LeetCodeSession: "sess", CSRFToken: "csrf"}
	svc := NewSessionService(repo, model.SessionCredentials{})

	require.NoError(t, svc.Clear(context.Background(), testUserID))
	_, ok := repo.sessions[testUserID]
	assert.False(t, ok)
}
