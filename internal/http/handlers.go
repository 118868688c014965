package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/rallypoint/scorekeeper/internal/fault"
	"github.com/rallypoint/scorekeeper/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request", "requestID", requestIDFromContext(r))
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	type request struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		LocationID *int64 `json:"locationId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid request body"))
			return
		}
		if req.Name == "" || req.Email == "" {
			writeError(w, fault.New(fault.KindValidation, "name and email are required"))
			return
		}

		id, err := s.Store.CreatePlayer(req.Name, req.Email, req.LocationID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"playerId": id})
	}
}

func (s *Server) ListLocationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := s.Store.ListLocations()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, locations)
	}
}

func (s *Server) CreateLocationHandler() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid request body"))
			return
		}
		if req.Name == "" {
			writeError(w, fault.New(fault.KindValidation, "name is required"))
			return
		}

		id, err := s.Store.CreateLocation(req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"locationId": id})
	}
}

func (s *Server) CreateGameHandler() http.HandlerFunc {
	type request struct {
		Team1Player1 int64 `json:"team1Player1"`
		Team1Player2 int64 `json:"team1Player2"`
		Team2Player1 int64 `json:"team2Player1"`
		Team2Player2 int64 `json:"team2Player2"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid request body"))
			return
		}

		id, err := s.Engine.CreateGame(req.Team1Player1, req.Team1Player2, req.Team2Player1, req.Team2Player2)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"gameId": id})
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := gameID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		view, err := s.Engine.GetGame(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) RecordEventHandler() http.HandlerFunc {
	type request struct {
		EventType   string `json:"eventType"`
		PointsTeam1 int    `json:"pointsTeam1"`
		PointsTeam2 int    `json:"pointsTeam2"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := gameID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid request body"))
			return
		}
		if req.EventType == "" {
			writeError(w, fault.New(fault.KindValidation, "eventType is required"))
			return
		}

		if err := s.Engine.RecordEvent(id, req.EventType, req.PointsTeam1, req.PointsTeam2); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GameCompletedHandler is the push endpoint for the game-completed
// subscription. It decodes the completion message and sends the result
// notification for the finished game.
func (s *Server) GameCompletedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			writeError(w, fmt.Errorf("failed to read request body: %w", err))
			return
		}
		log.Debug("Received game completed message", "requestID", requestIDFromContext(r))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid push envelope"))
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid base64 data"))
			return
		}

		var msg pubsub.GameCompletedMessage
		if err := s.PubSub.ProcessMessage(rawData, &msg); err != nil {
			writeError(w, fault.Wrap(fault.KindValidation, err, "invalid message payload"))
			return
		}

		game, err := s.Store.GetGame(msg.GameID)
		if err != nil {
			writeError(w, err)
			return
		}
		players, err := s.Store.GetPlayers([]int64{
			game.Team1Player1, game.Team1Player2, game.Team2Player1, game.Team2Player2,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Notifier.SendGameResult(game, players); err != nil {
			log.Error("Failed to send result notification", "error", err, "gameID", game.ID)
			writeError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func gameID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fault.New(fault.KindValidation, "invalid game id %q", r.PathValue("id"))
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps the error's kind to a status code and writes the standard
// error body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch fault.KindOf(err) {
	case fault.KindValidation:
		status = http.StatusBadRequest
	case fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindConflict:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Debug("Request rejected", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
