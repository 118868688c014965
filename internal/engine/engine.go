package engine

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallypoint/scorekeeper/internal/fault"
	"github.com/rallypoint/scorekeeper/internal/league"
	"github.com/rallypoint/scorekeeper/internal/metrics"
	"github.com/rallypoint/scorekeeper/internal/pubsub"
	"github.com/rallypoint/scorekeeper/internal/scoring"
)

// New creates a new Engine.
func New(store league.Store, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Engine {
	return &Engine{
		store:   store,
		metrics: metrics,
		pubsub:  pubsub,
	}
}

func (e *Engine) lockFor(gameID int64) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(gameID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CreateGame validates that all four players exist and persists a new
// ongoing game. Nothing is written when the roster check fails.
func (e *Engine) CreateGame(team1p1, team1p2, team2p1, team2p2 int64) (int64, error) {
	ids := []int64{team1p1, team1p2, team2p1, team2p2}
	ok, err := e.store.AllPlayersExist(ids)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fault.New(fault.KindValidation, "one or more players do not exist")
	}

	id, err := e.store.CreateGame(team1p1, team1p2, team2p1, team2p2, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	e.metrics.IncGamesCreated()
	log.Info("Game created", "gameID", id,
		"team1", []int64{team1p1, team1p2}, "team2", []int64{team2p1, team2p2})
	return id, nil
}

// RecordEvent appends a scoring event to a game and runs the completion
// evaluation: totals are recomputed over all events and, if either team has
// reached the winning threshold, the game is completed and the four player
// records updated, all in one transaction. Events against an already
// complete game are rejected.
func (e *Engine) RecordEvent(gameID int64, eventType string, pointsTeam1, pointsTeam2 int) error {
	startTime := time.Now()
	defer func() {
		e.metrics.ObserveEventDuration(time.Since(startTime).Seconds())
	}()

	if pointsTeam1 < 0 || pointsTeam2 < 0 {
		return fault.New(fault.KindValidation, "points must be non-negative")
	}

	mu := e.lockFor(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, err := e.store.GetGame(gameID)
	if err != nil {
		return err
	}
	if game.Status == league.StatusComplete {
		return fault.New(fault.KindConflict, "game %d is already complete", gameID)
	}

	events, err := e.store.GetEvents(gameID)
	if err != nil {
		return err
	}
	total1, total2 := scoring.Totals(events)
	total1 += pointsTeam1
	total2 += pointsTeam2

	var completion *league.Completion
	if total1 >= WinningScore || total2 >= WinningScore {
		// Team 1 takes precedence when both cross the threshold on the
		// same event.
		winner := 2
		winnerIDs := [2]int64{game.Team2Player1, game.Team2Player2}
		loserIDs := [2]int64{game.Team1Player1, game.Team1Player2}
		if total1 >= WinningScore {
			winner = 1
			winnerIDs = [2]int64{game.Team1Player1, game.Team1Player2}
			loserIDs = [2]int64{game.Team2Player1, game.Team2Player2}
		}
		completion = &league.Completion{
			Winner:      winner,
			ScoreTeam1:  total1,
			ScoreTeam2:  total2,
			CompletedAt: time.Now().Unix(),
			WinnerIDs:   winnerIDs,
			LoserIDs:    loserIDs,
		}
	}

	event := league.GameEvent{
		GameID:      gameID,
		EventType:   eventType,
		PointsTeam1: pointsTeam1,
		PointsTeam2: pointsTeam2,
		CreatedAt:   time.Now().Unix(),
	}
	if err := e.store.RecordEvent(gameID, event, completion); err != nil {
		return err
	}
	e.metrics.IncEventsRecorded()
	log.Debug("Event recorded", "gameID", gameID, "eventType", eventType,
		"totalTeam1", total1, "totalTeam2", total2)

	if completion != nil {
		e.metrics.IncGamesCompleted()
		e.publishCompletion(gameID, completion)
	}
	return nil
}

// publishCompletion announces a completed game to downstream consumers. The
// result notification itself happens on the push side of the subscription.
// The completion is already committed, so failures here are logged and
// dropped rather than surfaced to the scorer.
func (e *Engine) publishCompletion(gameID int64, completion *league.Completion) {
	if err := e.pubsub.SendMessage(pubsub.EventGameCompleted, pubsub.GameCompletedMessage{
		GameID:      gameID,
		Winner:      completion.Winner,
		ScoreTeam1:  completion.ScoreTeam1,
		ScoreTeam2:  completion.ScoreTeam2,
		CompletedAt: completion.CompletedAt,
	}); err != nil {
		log.Error("Failed to publish game completion", "error", err, "gameID", gameID)
	}
}

// GetGame returns the game together with its ordered event log. Ongoing
// games carry live-computed totals; complete games keep their frozen final
// score.
func (e *Engine) GetGame(gameID int64) (*GameView, error) {
	game, err := e.store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	events, err := e.store.GetEvents(gameID)
	if err != nil {
		return nil, err
	}
	events = scoring.Order(events)

	if game.Status == league.StatusOngoing {
		game.ScoreTeam1, game.ScoreTeam2 = scoring.Totals(events)
	}
	return &GameView{Game: game, Events: events}, nil
}
