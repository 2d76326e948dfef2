package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-lens/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreates(t *testing.T) {
	repo := NewMemorySessionRepository()

	s, err := repo.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, s.State)
	require.Equal(t, int64(10), s.ChatID)
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	s.State = entity.StateError

	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, again.State)

	require.NoError(t, repo.Save(ctx, s))
	again, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateError, again.State)
}

func TestMemorySessionRepository_UpdateRollsBackOnError(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	boom := errors.New("boom")

	s, err := repo.Update(ctx, 1, 10, func(s *entity.Session) error {
		s.State = entity.StateResult
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, entity.StateIdle, s.State)
}

func TestMemorySessionRepository_ConcurrentUpdates(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, 1, 10, func(s *entity.Session) error {
				s.Seq++
				return nil
			})
		}()
	}
	wg.Wait()

	s, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(50), s.Seq)
}
