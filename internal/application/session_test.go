package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-lens/internal/domain/entity"
	"defect-lens/internal/infrastructure/storage"
)

func TestSessionService_ResetIsIdempotent(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)
	ctx := context.Background()

	session, err := svc.Reset(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, session.State)

	session, err = svc.Reset(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, session.State)
	require.Equal(t, uint64(0), session.Seq)
}

func TestSessionService_Get(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	svc := NewSessionService(repo)

	session, err := svc.Get(context.Background(), 2, 20)
	require.NoError(t, err)
	require.Equal(t, int64(20), session.ChatID)
	require.Equal(t, entity.StateIdle, session.State)
}
