package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and returns a copy", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := NewMemorySessionRepository()
		session := entity.NewSession("123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: the caller keeps playing on its own value
		session.History.Play(0)

		// Then: the stored session should be unchanged
		stored, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.History.Len())

		// And: changes to the returned value should not leak back
		stored.History.Play(4)
		again, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, 1, again.History.Len())
	})

	t.Run("Missing session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		_, err := sessionRepo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		err = sessionRepo.DeleteByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, entity.NewSession("123")))

		require.NoError(t, sessionRepo.DeleteByID(ctx, "123"))

		_, err := sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Rejects a session without history", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		err := sessionRepo.CreateOrUpdate(ctx, &entity.Session{ID: "broken"})
		require.ErrorIs(t, err, apperror.ErrInvalidSession)
	})

	t.Run("Concurrent writers", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()

				session := entity.NewSession("shared")
				session.History.Play(i % entity.BoardSize)
				assert.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))
			}()
		}
		wg.Wait()

		stored, err := sessionRepo.GetByID(ctx, "shared")
		require.NoError(t, err)
		assert.Equal(t, 2, stored.History.Len())
	})
}
