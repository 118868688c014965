package league

// Store defines the interface for interacting with the league's data. It is
// a thin gateway: callers own the business rules, the store owns the SQL.
type Store interface {
	// Reference data.
	CreatePlayer(name, email string, locationID *int64) (int64, error)
	ListPlayers() ([]Player, error)
	GetPlayers(ids []int64) ([]Player, error)
	CreateLocation(name string) (int64, error)
	ListLocations() ([]Location, error)

	// Roster existence checks, used as the precondition for game creation.
	PlayerExists(id int64) (bool, error)
	AllPlayersExist(ids []int64) (bool, error)

	// Games and events.
	CreateGame(team1p1, team1p2, team2p1, team2p2 int64, startedAt int64) (int64, error)
	GetGame(id int64) (*Game, error)
	GetEvents(gameID int64) ([]GameEvent, error)
	// RecordEvent appends an event and, when completion is non-nil, applies
	// the terminal transition and player counter updates atomically.
	RecordEvent(gameID int64, event GameEvent, completion *Completion) error

	Clear()
}
