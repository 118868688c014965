package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rallypoint/scorekeeper/internal/config"
	"github.com/rallypoint/scorekeeper/internal/database"
	"github.com/rallypoint/scorekeeper/internal/engine"
	"github.com/rallypoint/scorekeeper/internal/league"
	"github.com/rallypoint/scorekeeper/internal/metrics"
	"github.com/rallypoint/scorekeeper/internal/notifier"
	"github.com/rallypoint/scorekeeper/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock collaborators.
func setupTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	gameEngine := engine.New(store, metricsSvc, pubsub.NewMock())

	server := NewServer(store, gameEngine, metricsSvc, metricsHandler, notifier.NewMock(), pubsub.NewMock(), config.Config{})
	return server, dbTeardown
}

func doJSON(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

// createRoster posts a location and four players, returning the player ids.
func createRoster(t *testing.T, server *Server) []int64 {
	t.Helper()

	rr := doJSON(t, server, "POST", "/locations", map[string]string{"name": "Downtown Courts"})
	require.Equal(t, http.StatusOK, rr.Code)
	locID := decode[map[string]int64](t, rr)["locationId"]

	ids := make([]int64, 0, 4)
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		rr := doJSON(t, server, "POST", "/players", map[string]any{
			"name":       name,
			"email":      name + "@example.com",
			"locationId": locID,
		})
		require.Equal(t, http.StatusOK, rr.Code)
		ids = append(ids, decode[map[string]int64](t, rr)["playerId"])
	}
	return ids
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayersEndpoints(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "GET", "/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	ids := createRoster(t, server)

	rr = doJSON(t, server, "GET", "/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	players := decode[[]league.Player](t, rr)
	require.Len(t, players, 4)
	assert.Equal(t, ids[0], players[0].ID)
	assert.Equal(t, "Alice", players[0].Name)
}

func TestCreatePlayer_MissingFields(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "POST", "/players", map[string]string{"name": "NoEmail"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "required")
}

func TestLocationsEndpoints(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "POST", "/locations", map[string]string{"name": "North Hall"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotZero(t, decode[map[string]int64](t, rr)["locationId"])

	rr = doJSON(t, server, "GET", "/locations", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	locations := decode[[]league.Location](t, rr)
	require.Len(t, locations, 1)
	assert.Equal(t, "North Hall", locations[0].Name)
}

func TestCreateGame(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	ids := createRoster(t, server)

	rr := doJSON(t, server, "POST", "/games", map[string]int64{
		"team1Player1": ids[0], "team1Player2": ids[1],
		"team2Player1": ids[2], "team2Player2": ids[3],
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotZero(t, decode[map[string]int64](t, rr)["gameId"])
}

func TestCreateGame_UnknownPlayer(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	ids := createRoster(t, server)

	rr := doJSON(t, server, "POST", "/games", map[string]int64{
		"team1Player1": ids[0], "team1Player2": ids[1],
		"team2Player1": ids[2], "team2Player2": 999,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "do not exist")
}

func TestGameLifecycle(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	ids := createRoster(t, server)

	rr := doJSON(t, server, "POST", "/games", map[string]int64{
		"team1Player1": ids[0], "team1Player2": ids[1],
		"team2Player1": ids[2], "team2Player2": ids[3],
	})
	require.Equal(t, http.StatusOK, rr.Code)
	gameID := decode[map[string]int64](t, rr)["gameId"]
	gamePath := fmt.Sprintf("/games/%d", gameID)

	// Two events: live totals, still ongoing.
	for _, pts := range [][2]int{{11, 0}, {5, 19}} {
		rr = doJSON(t, server, "POST", gamePath+"/events", map[string]any{
			"eventType": "rally", "pointsTeam1": pts[0], "pointsTeam2": pts[1],
		})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success": true}`, rr.Body.String())
	}

	rr = doJSON(t, server, "GET", gamePath, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[engine.GameView](t, rr)
	assert.Equal(t, league.StatusOngoing, view.Game.Status)
	assert.Equal(t, 16, view.Game.ScoreTeam1)
	assert.Equal(t, 19, view.Game.ScoreTeam2)
	require.Len(t, view.Events, 2)

	// Third event completes the game, team 1 on the tie-break.
	rr = doJSON(t, server, "POST", gamePath+"/events", map[string]any{
		"eventType": "rally", "pointsTeam1": 5, "pointsTeam2": 2,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, "GET", gamePath, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[engine.GameView](t, rr)
	assert.Equal(t, league.StatusComplete, view.Game.Status)
	require.NotNil(t, view.Game.Winner)
	assert.Equal(t, 1, *view.Game.Winner)
	assert.Equal(t, 21, view.Game.ScoreTeam1)
	assert.Equal(t, 21, view.Game.ScoreTeam2)

	// Further events are rejected.
	rr = doJSON(t, server, "POST", gamePath+"/events", map[string]any{
		"eventType": "rally", "pointsTeam1": 1, "pointsTeam2": 0,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Winners and losers got their counters.
	rr = doJSON(t, server, "GET", "/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	players := decode[[]league.Player](t, rr)
	byID := make(map[int64]league.Player)
	for _, p := range players {
		byID[p.ID] = p
	}
	assert.Equal(t, 1, byID[ids[0]].Wins)
	assert.Equal(t, 1, byID[ids[1]].Wins)
	assert.Equal(t, 1, byID[ids[2]].Losses)
	assert.Equal(t, 1, byID[ids[3]].Losses)
}

func TestGetGame_NotFound(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "GET", "/games/42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetGame_InvalidID(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "GET", "/games/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordEvent_ValidationErrors(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	ids := createRoster(t, server)

	rr := doJSON(t, server, "POST", "/games", map[string]int64{
		"team1Player1": ids[0], "team1Player2": ids[1],
		"team2Player1": ids[2], "team2Player2": ids[3],
	})
	require.Equal(t, http.StatusOK, rr.Code)
	gameID := decode[map[string]int64](t, rr)["gameId"]

	rr = doJSON(t, server, "POST", fmt.Sprintf("/games/%d/events", gameID), map[string]any{
		"pointsTeam1": 1, "pointsTeam2": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing eventType")

	rr = doJSON(t, server, "POST", fmt.Sprintf("/games/%d/events", gameID), map[string]any{
		"eventType": "rally", "pointsTeam1": -1, "pointsTeam2": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "negative points")

	rr = doJSON(t, server, "POST", "/games/999/events", map[string]any{
		"eventType": "rally", "pointsTeam1": 1, "pointsTeam2": 0,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code, "unknown game")
}

// pushEnvelope wraps a msgpack payload the way the push subscription
// delivers it.
func pushEnvelope(t *testing.T, payload any) map[string]any {
	t.Helper()
	data, err := msgpack.Marshal(payload)
	require.NoError(t, err)
	return map[string]any{
		"subscription": "game-completed-sub",
		"message": map[string]string{
			"data": base64.StdEncoding.EncodeToString(data),
		},
	}
}

func TestGameCompletedHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	ids := createRoster(t, server)

	rr := doJSON(t, server, "POST", "/games", map[string]int64{
		"team1Player1": ids[0], "team1Player2": ids[1],
		"team2Player1": ids[2], "team2Player2": ids[3],
	})
	require.Equal(t, http.StatusOK, rr.Code)
	gameID := decode[map[string]int64](t, rr)["gameId"]

	rr = doJSON(t, server, "POST", fmt.Sprintf("/games/%d/events", gameID), map[string]any{
		"eventType": "rally", "pointsTeam1": 21, "pointsTeam2": 7,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, "POST", "/pubsub/game-completed", pushEnvelope(t, pubsub.GameCompletedMessage{
		GameID:     gameID,
		Winner:     1,
		ScoreTeam1: 21,
		ScoreTeam2: 7,
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	mock := server.Notifier.(*notifier.Mock)
	require.Equal(t, 1, mock.ResultCount())
	call := mock.SendGameResultCalls[0]
	assert.Equal(t, gameID, call.Game.ID)
	assert.Equal(t, league.StatusComplete, call.Game.Status)
	require.Len(t, call.Players, 4)
	assert.Equal(t, "Alice", call.Players[0].Name)
}

func TestGameCompletedHandler_BadPayload(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("POST", "/pubsub/game-completed", bytes.NewBufferString("not json"))
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "invalid envelope")

	rr = doJSON(t, server, "POST", "/pubsub/game-completed", map[string]any{
		"subscription": "game-completed-sub",
		"message":      map[string]string{"data": "!!not-base64!!"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "invalid base64")

	rr = doJSON(t, server, "POST", "/pubsub/game-completed", pushEnvelope(t, pubsub.GameCompletedMessage{GameID: 404}))
	assert.Equal(t, http.StatusNotFound, rr.Code, "unknown game")
	assert.Equal(t, 0, server.Notifier.(*notifier.Mock).ResultCount())
}

func TestMetricsEndpoint(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "scorekeeper_games_created_total")
}
