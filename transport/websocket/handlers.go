package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/view"
)

const (
	actionConnect = "connect"
	actionPlay    = "game:play"
	actionJump    = "game:jump"
	actionSort    = "game:sort"
	actionRestart = "game:restart"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := that.parsePayload(msg, conn)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	session, err := that.gameUseCase.GetOrCreateSession(ctx, payloadReq.SessionID)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to start a game")
	}

	log.Info("player connected", "sessionID", session.ID)

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handlePlay(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := that.parsePayload(msg, conn)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "cell is required")
	}

	session, err := that.gameUseCase.Play(ctx, payloadReq.SessionID, *payloadReq.Cell)
	if err != nil {
		return that.handleUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleJump(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := that.parsePayload(msg, conn)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Move == nil {
		return that.sendErrorResponse(conn, msg.Action, "move is required")
	}

	session, err := that.gameUseCase.JumpTo(ctx, payloadReq.SessionID, *payloadReq.Move)
	if err != nil {
		return that.handleUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleSort(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := that.parsePayload(msg, conn)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	session, err := that.gameUseCase.ToggleOrder(ctx, payloadReq.SessionID)
	if err != nil {
		return that.handleUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

func (that *Server) handleRestart(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := that.parsePayload(msg, conn)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	session, err := that.gameUseCase.Restart(ctx, payloadReq.SessionID)
	if err != nil {
		return that.handleUseCaseError(conn, msg.Action, err)
	}

	return that.sendSession(conn, msg.Action, session)
}

// parsePayload - decodes the request; a missing session id falls back to the connection's one.
func (that *Server) parsePayload(msg *Message, conn *connection) (RequestPayload, error) {
	var payloadReq RequestPayload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			that.logger.Error("failed to unmarshal payload", "action", msg.Action, "error", err)
			return payloadReq, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if payloadReq.SessionID == "" {
		payloadReq.SessionID = conn.sessionID
	}

	return payloadReq, nil
}

func (that *Server) handleUseCaseError(conn *connection, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrMoveOutOfRange):
		return that.sendErrorResponse(conn, action, apperror.ErrMoveOutOfRange.Error())
	case errors.Is(err, apperror.ErrSessionNotFound):
		return that.sendErrorResponse(conn, action, apperror.ErrSessionNotFound.Error())
	default:
		that.logger.Error("failed to process action", "action", action, "error", err)
		return that.sendErrorResponse(conn, action, "internal error")
	}
}

func (that *Server) sendSession(conn *connection, action string, session *entity.Session) error {
	conn.sessionID = session.ID

	gameView := view.RenderSession(session)

	if err := sendMessage(conn.rw, action, ResponsePayload{SessionID: session.ID, View: &gameView}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := sendMessage(conn.rw, action, ResponsePayload{SessionID: conn.sessionID, Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
