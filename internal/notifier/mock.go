package notifier

import (
	"sync"

	"github.com/rallypoint/scorekeeper/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendGameResultFunc func(game *league.Game, players []league.Player) error

	SendGameResultCalls []SendGameResultCall
}

// SendGameResultCall holds the arguments for a call to SendGameResult.
type SendGameResultCall struct {
	Game    *league.Game
	Players []league.Player
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = nil
}

func (m *Mock) SendGameResult(game *league.Game, players []league.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = append(m.SendGameResultCalls, SendGameResultCall{Game: game, Players: players})
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(game, players)
	}
	return nil
}

// ResultCount returns the number of results sent.
func (m *Mock) ResultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendGameResultCalls)
}
