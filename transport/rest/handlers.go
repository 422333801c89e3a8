package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/view"
)

const (
	sessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour
)

type playRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Move *int `json:"move"`
}

type gameResponse struct {
	SessionID string     `json:"session_id"`
	View      *view.View `json:"view,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.GetOrCreateSession(r.Context(), sessionID(r))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, session)
}

func (that *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, gameResponse{Error: "cell is required"})
		return
	}

	session, err := that.gameUseCase.Play(r.Context(), sessionID(r), *req.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, session)
}

func (that *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Move == nil {
		writeJSON(w, http.StatusBadRequest, gameResponse{Error: "move is required"})
		return
	}

	session, err := that.gameUseCase.JumpTo(r.Context(), sessionID(r), *req.Move)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, session)
}

func (that *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.ToggleOrder(r.Context(), sessionID(r))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, session)
}

func (that *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.Restart(r.Context(), sessionID(r))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, session)
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// writeSession - renders the session and refreshes its cookie.
func (that *Server) writeSession(w http.ResponseWriter, session *entity.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Expires:  time.Now().Add(sessionCookieTTL),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	gameView := view.RenderSession(session)

	writeJSON(w, http.StatusOK, gameResponse{SessionID: session.ID, View: &gameView})
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrMoveOutOfRange):
		writeJSON(w, http.StatusUnprocessableEntity, gameResponse{SessionID: sessionID(r), Error: apperror.ErrMoveOutOfRange.Error()})
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, gameResponse{Error: apperror.ErrSessionNotFound.Error()})
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body gameResponse) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
