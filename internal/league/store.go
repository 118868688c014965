package league

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new league Store backed by the given database handle. The
// handle is constructed once at process start and injected here; the store
// never opens connections of its own.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) CreatePlayer(name, email string, locationID *int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("INSERT INTO players (name, email, location_id) VALUES (?, ?, ?)", name, email, locationID)
	if err != nil {
		log.Error("Failed to insert player", "error", err, "name", name)
		return 0, fmt.Errorf("failed to insert player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new player id: %w", err)
	}
	log.Info("Added new player", "playerID", id, "name", name)
	return id, nil
}

func (s *store) ListPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, email, location_id, wins, losses FROM players ORDER BY id")
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetPlayers fetches the given players in one round trip. Unknown ids are
// simply absent from the result.
func (s *store) GetPlayers(ids []int64) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return []Player{}, nil
	}

	query := "SELECT id, name, email, location_id, wins, losses FROM players WHERE id IN (?" + repeat(",?", len(ids)-1) + ")"
	rows, err := s.db.Query(query, toAnySlice(ids)...)
	if err != nil {
		log.Error("Failed to query players by id", "error", err)
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) CreateLocation(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("INSERT INTO locations (name) VALUES (?)", name)
	if err != nil {
		log.Error("Failed to insert location", "error", err, "name", name)
		return 0, fmt.Errorf("failed to insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new location id: %w", err)
	}
	log.Info("Added new location", "locationID", id, "name", name)
	return id, nil
}

func (s *store) ListLocations() ([]Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM locations ORDER BY id")
	if err != nil {
		log.Error("Failed to query locations", "error", err)
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			log.Error("Failed to scan location row", "error", err)
			continue
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *store) PlayerExists(id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", id)
		return false, fmt.Errorf("failed to check player existence: %w", err)
	}
	return exists, nil
}

// AllPlayersExist reports whether every id resolves to a player. Duplicate
// ids are allowed; each is checked independently.
func (s *store) AllPlayersExist(ids []int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range ids {
		var exists bool
		err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", id).Scan(&exists)
		if err != nil {
			log.Error("Failed to check if player exists", "error", err, "playerID", id)
			return false, fmt.Errorf("failed to check player existence: %w", err)
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"game_events", "games", "players", "locations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var p Player
	var locationID sql.NullInt64
	if err := scanner.Scan(&p.ID, &p.Name, &p.Email, &locationID, &p.Wins, &p.Losses); err != nil {
		return Player{}, err
	}
	if locationID.Valid {
		p.LocationID = &locationID.Int64
	}
	return p, nil
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func toAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
