package engine

import (
	"sync"

	"github.com/rallypoint/scorekeeper/internal/league"
	"github.com/rallypoint/scorekeeper/internal/metrics"
	"github.com/rallypoint/scorekeeper/internal/pubsub"
)

// WinningScore is the total at which a game is declared complete.
const WinningScore = 21

// Engine owns game state transitions: creation, event ingestion, completion
// detection and the resulting player record updates.
type Engine struct {
	store   league.Store
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient

	// locks serializes all mutations to a single game. Two scorers
	// submitting points for the same game concurrently must not both
	// observe sub-threshold totals.
	locks sync.Map // game id -> *sync.Mutex
}

// GameView is a game together with its full ordered event log.
type GameView struct {
	Game   *league.Game       `json:"game"`
	Events []league.GameEvent `json:"events"`
}
