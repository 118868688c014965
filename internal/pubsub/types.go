package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventGameCompleted EventType = "game-completed"
)

// GameCompletedMessage is the payload published when a game reaches the
// winning threshold. Encoded as MessagePack on the wire.
type GameCompletedMessage struct {
	GameID      int64 `msgpack:"game_id"`
	Winner      int   `msgpack:"winner"`
	ScoreTeam1  int   `msgpack:"score_team1"`
	ScoreTeam2  int   `msgpack:"score_team2"`
	CompletedAt int64 `msgpack:"completed_at"`
}
