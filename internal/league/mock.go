package league

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc    func(name, email string, locationID *int64) (int64, error)
	ListPlayersFunc     func() ([]Player, error)
	GetPlayersFunc      func(ids []int64) ([]Player, error)
	CreateLocationFunc  func(name string) (int64, error)
	ListLocationsFunc   func() ([]Location, error)
	PlayerExistsFunc    func(id int64) (bool, error)
	AllPlayersExistFunc func(ids []int64) (bool, error)
	CreateGameFunc      func(team1p1, team1p2, team2p1, team2p2 int64, startedAt int64) (int64, error)
	GetGameFunc         func(id int64) (*Game, error)
	GetEventsFunc       func(gameID int64) ([]GameEvent, error)
	RecordEventFunc     func(gameID int64, event GameEvent, completion *Completion) error

	// Call records
	CreateGameCalls  [][4]int64
	RecordEventCalls []RecordEventCall
	ClearCalls       int
}

// RecordEventCall holds the arguments for a call to RecordEvent.
type RecordEventCall struct {
	GameID     int64
	Event      GameEvent
	Completion *Completion
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGameCalls = nil
	m.RecordEventCalls = nil
	m.ClearCalls = 0
}

func (m *MockStore) CreatePlayer(name, email string, locationID *int64) (int64, error) {
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(name, email, locationID)
	}
	return 1, nil
}

func (m *MockStore) ListPlayers() ([]Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc()
	}
	return []Player{}, nil
}

func (m *MockStore) GetPlayers(ids []int64) ([]Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(ids)
	}
	return []Player{}, nil
}

func (m *MockStore) CreateLocation(name string) (int64, error) {
	if m.CreateLocationFunc != nil {
		return m.CreateLocationFunc(name)
	}
	return 1, nil
}

func (m *MockStore) ListLocations() ([]Location, error) {
	if m.ListLocationsFunc != nil {
		return m.ListLocationsFunc()
	}
	return []Location{}, nil
}

func (m *MockStore) PlayerExists(id int64) (bool, error) {
	if m.PlayerExistsFunc != nil {
		return m.PlayerExistsFunc(id)
	}
	return true, nil
}

func (m *MockStore) AllPlayersExist(ids []int64) (bool, error) {
	if m.AllPlayersExistFunc != nil {
		return m.AllPlayersExistFunc(ids)
	}
	return true, nil
}

func (m *MockStore) CreateGame(team1p1, team1p2, team2p1, team2p2 int64, startedAt int64) (int64, error) {
	m.mu.Lock()
	m.CreateGameCalls = append(m.CreateGameCalls, [4]int64{team1p1, team1p2, team2p1, team2p2})
	m.mu.Unlock()
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(team1p1, team1p2, team2p1, team2p2, startedAt)
	}
	return 1, nil
}

func (m *MockStore) GetGame(id int64) (*Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(id)
	}
	return &Game{ID: id, Status: StatusOngoing}, nil
}

func (m *MockStore) GetEvents(gameID int64) ([]GameEvent, error) {
	if m.GetEventsFunc != nil {
		return m.GetEventsFunc(gameID)
	}
	return []GameEvent{}, nil
}

func (m *MockStore) RecordEvent(gameID int64, event GameEvent, completion *Completion) error {
	m.mu.Lock()
	m.RecordEventCalls = append(m.RecordEventCalls, RecordEventCall{GameID: gameID, Event: event, Completion: completion})
	m.mu.Unlock()
	if m.RecordEventFunc != nil {
		return m.RecordEventFunc(gameID, event, completion)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}
