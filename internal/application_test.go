package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

func TestNewSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory storage", func(t *testing.T) {
		// Given: a config asking for memory storage
		conf := &config.Config{Storage: config.StorageMemory}

		// When: building the repository
		repo, closeStorage, err := newSessionRepository(ctx, conf)

		// Then: it should store sessions
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("s1")))
		_, err = repo.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.NoError(t, closeStorage())
	})

	t.Run("Unknown storage", func(t *testing.T) {
		conf := &config.Config{Storage: "etcd"}

		_, _, err := newSessionRepository(ctx, conf)

		require.ErrorIs(t, err, apperror.ErrUnknownStorage)
	})
}
