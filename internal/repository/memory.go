package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository - process-local store, lost on restart.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		sessions: make(map[string]*entity.Session),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	if session.History == nil {
		return fmt.Errorf("session %q: %w", session.ID, apperror.ErrInvalidSession)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = cloneSession(session)

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return cloneSession(session), nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func cloneSession(session *entity.Session) *entity.Session {
	return &entity.Session{
		ID: session.ID,
		History: &entity.GameHistory{
			Snapshots:   slices.Clone(session.History.Snapshots),
			CurrentMove: session.History.CurrentMove,
		},
		Order: session.Order,
	}
}
