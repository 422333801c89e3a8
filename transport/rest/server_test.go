package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type apiClient struct {
	t      *testing.T
	url    string
	client *http.Client
}

func newAPIClient(t *testing.T, handler http.Handler) *apiClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &apiClient{t: t, url: server.URL, client: &http.Client{Jar: jar}}
}

func newGameServer(t *testing.T) *apiClient {
	t.Helper()

	manager := usecase.NewGameManager(discardLogger, repository.NewMemorySessionRepository())

	return newAPIClient(t, New(discardLogger, manager).Handler())
}

func (that *apiClient) do(method, path, body string) (int, gameResponse) {
	that.t.Helper()

	req, err := http.NewRequest(method, that.url+path, strings.NewReader(body))
	require.NoError(that.t, err)

	resp, err := that.client.Do(req)
	require.NoError(that.t, err)
	defer resp.Body.Close()

	var payload gameResponse
	require.NoError(that.t, json.NewDecoder(resp.Body).Decode(&payload))

	return resp.StatusCode, payload
}

func TestServer_Game(t *testing.T) {
	t.Run("Full game over the API", func(t *testing.T) {
		// Given: a client that has opened the game
		api := newGameServer(t)
		status, resp := api.do(http.MethodGet, "/api/game", "")
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, resp.SessionID)
		sessionID := resp.SessionID

		// When: X takes the top row while O plays the middle row
		for _, cell := range []string{"0", "3", "1", "4", "2"} {
			status, resp = api.do(http.MethodPost, "/api/game/play", `{"cell":`+cell+`}`)
			require.Equal(t, http.StatusOK, status)
		}

		// Then: X wins in the same session
		assert.Equal(t, sessionID, resp.SessionID)
		assert.Equal(t, "Winner: X", resp.View.Status)
		assert.Equal(t, entity.X, resp.View.Winner)

		// When: O tries to play after the win
		_, resp = api.do(http.MethodPost, "/api/game/play", `{"cell":5}`)

		// Then: the move is ignored
		assert.Len(t, resp.View.Moves, 6)
		assert.Equal(t, entity.Empty, resp.View.Rows[1][2].Mark)
	})

	t.Run("Jump, sort and restart", func(t *testing.T) {
		api := newGameServer(t)
		api.do(http.MethodGet, "/api/game/", "")
		api.do(http.MethodPost, "/api/game/play", `{"cell":0}`)
		api.do(http.MethodPost, "/api/game/play", `{"cell":1}`)

		status, resp := api.do(http.MethodPost, "/api/game/jump", `{"move":0}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 0, resp.View.CurrentMove)
		assert.Equal(t, "You are at move #0", resp.View.Moves[0].Label)
		assert.Equal(t, "Next player: X", resp.View.Status)

		status, resp = api.do(http.MethodPost, "/api/game/sort", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 2, resp.View.Moves[0].Move)
		assert.False(t, resp.View.Ascending)

		status, resp = api.do(http.MethodPost, "/api/game/restart", "")
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, resp.View.Moves, 1)
		assert.False(t, resp.View.Ascending)
	})

	t.Run("Rejects bad requests", func(t *testing.T) {
		api := newGameServer(t)
		api.do(http.MethodGet, "/api/game", "")

		status, resp := api.do(http.MethodPost, "/api/game/play", `{"cell":"x"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "cell is required", resp.Error)

		status, _ = api.do(http.MethodPost, "/api/game/jump", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)

		status, resp = api.do(http.MethodPost, "/api/game/jump", `{"move":5}`)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "move is out of history range", resp.Error)
	})

	t.Run("Playing without a session", func(t *testing.T) {
		api := newGameServer(t)

		status, resp := api.do(http.MethodPost, "/api/game/play", `{"cell":0}`)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "session not found", resp.Error)
	})
}

type failingGame struct {
	gameUseCase
}

func (failingGame) GetOrCreateSession(context.Context, string) (*entity.Session, error) {
	return nil, errors.New("redis down")
}

func TestServer_StorageFailure(t *testing.T) {
	api := newAPIClient(t, New(discardLogger, failingGame{}).Handler())

	status, resp := api.do(http.MethodGet, "/api/game", "")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", resp.Error)
}

func TestServer_Static(t *testing.T) {
	server := httptest.NewServer(New(discardLogger, failingGame{}).Handler())
	defer server.Close()

	t.Run("Ping", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/ping")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "pong", string(body))
	})

	t.Run("Browser client", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "Tic-Tac-Toe")
	})
}
