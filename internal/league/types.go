package league

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// GameStatus is the lifecycle state of a game. There are exactly two states:
// a game starts ongoing and ends complete.
type GameStatus string

const (
	StatusOngoing  GameStatus = "ongoing"
	StatusComplete GameStatus = "complete"
)

// Player is a league member. Wins and losses are only ever incremented, as a
// side effect of a game completing.
type Player struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	LocationID *int64 `json:"locationId,omitempty"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}

// Location is a venue players call home.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Game is a match between two two-player teams. The four player references
// are fixed at creation. Winner and the frozen final scores are only set once
// the game is complete; for an ongoing game ScoreTeam1/ScoreTeam2 carry the
// live totals computed from the event log.
type Game struct {
	ID           int64      `json:"id"`
	Team1Player1 int64      `json:"team1Player1"`
	Team1Player2 int64      `json:"team1Player2"`
	Team2Player1 int64      `json:"team2Player1"`
	Team2Player2 int64      `json:"team2Player2"`
	Status       GameStatus `json:"status"`
	Winner       *int       `json:"winner"`
	ScoreTeam1   int        `json:"scoreTeam1"`
	ScoreTeam2   int        `json:"scoreTeam2"`
	StartedAt    int64      `json:"startedAt"`
	CompletedAt  *int64     `json:"completedAt"`
}

// GameEvent is an append-only scoring record. Events are ordered by timestamp
// ascending with the monotonic id breaking ties.
type GameEvent struct {
	ID          int64  `json:"id"`
	GameID      int64  `json:"gameId"`
	EventType   string `json:"eventType"`
	PointsTeam1 int    `json:"pointsTeam1"`
	PointsTeam2 int    `json:"pointsTeam2"`
	CreatedAt   int64  `json:"createdAt"`
}

// Completion describes the terminal transition of a game. When passed to
// RecordEvent the status flip, frozen scores and the four player counter
// updates are applied in the same transaction as the event insert.
type Completion struct {
	Winner      int
	ScoreTeam1  int
	ScoreTeam2  int
	CompletedAt int64
	WinnerIDs   [2]int64
	LoserIDs    [2]int64
}
