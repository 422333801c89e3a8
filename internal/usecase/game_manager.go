package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

// GameManager - loads a session, applies one player action and stores the result.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	generateID  func() string
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		generateID:  pkg.GenerateNewSessionID,
	}
}

// GetOrCreateSession - returns the stored session. An unknown id starts a new game under that id,
// an empty one gets a fresh id.
func (that *GameManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return that.createSession(ctx, that.generateID())
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.logger.Info("session expired or unknown, starting a new one", "sessionID", id)

		return that.createSession(ctx, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// Play - places the next mark. A rejected move is not an error: the session comes back unchanged.
func (that *GameManager) Play(ctx context.Context, id string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "Play", "sessionID", id, "cell", cell)

	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if !session.History.Play(cell) {
		log.Debug("move ignored")

		return session, nil
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info("move played", "move", session.History.CurrentMove, "status", session.History.Status().String())

	return session, nil
}

func (that *GameManager) JumpTo(ctx context.Context, id string, move int) (*entity.Session, error) {
	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = session.History.JumpTo(move); err != nil {
		return session, fmt.Errorf("failed to jump: %w", err)
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *GameManager) ToggleOrder(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Order.Toggle()

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *GameManager) Restart(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Restart()

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("game restarted", "sessionID", id)

	return session, nil
}

func (that *GameManager) createSession(ctx context.Context, id string) (*entity.Session, error) {
	session := entity.NewSession(id)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, nil
}

func (that *GameManager) getSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
