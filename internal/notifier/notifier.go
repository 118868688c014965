package notifier

import "github.com/rallypoint/scorekeeper/internal/league"

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendGameResult announces a completed game. The players slice carries
	// the four participants so the message can use names instead of ids.
	SendGameResult(game *league.Game, players []league.Player) error
}

// Noop is a Notifier that does nothing. Used when no provider is configured.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) SendGameResult(*league.Game, []league.Player) error { return nil }
