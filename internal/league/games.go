package league

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rallypoint/scorekeeper/internal/fault"
)

func (s *store) CreateGame(team1p1, team1p2, team2p1, team2p2 int64, startedAt int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO games (team1_player1, team1_player2, team2_player1, team2_player2, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		team1p1, team1p2, team2p1, team2p2, StatusOngoing, startedAt)
	if err != nil {
		log.Error("Failed to insert game", "error", err)
		return 0, fmt.Errorf("failed to insert game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new game id: %w", err)
	}
	log.Info("Created new game", "gameID", id)
	return id, nil
}

func (s *store) GetGame(id int64) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, team1_player1, team1_player2, team2_player1, team2_player2,
		       status, winner, score_team1, score_team2, started_at, completed_at
		FROM games WHERE id = ?`, id)

	var g Game
	var winner, score1, score2, completedAt sql.NullInt64
	err := row.Scan(
		&g.ID, &g.Team1Player1, &g.Team1Player2, &g.Team2Player1, &g.Team2Player2,
		&g.Status, &winner, &score1, &score2, &g.StartedAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.New(fault.KindNotFound, "game %d not found", id)
		}
		log.Error("Failed to query game", "error", err, "gameID", id)
		return nil, fmt.Errorf("failed to query game: %w", err)
	}

	if winner.Valid {
		w := int(winner.Int64)
		g.Winner = &w
	}
	g.ScoreTeam1 = int(score1.Int64)
	g.ScoreTeam2 = int(score2.Int64)
	if completedAt.Valid {
		g.CompletedAt = &completedAt.Int64
	}
	return &g, nil
}

func (s *store) GetEvents(gameID int64) ([]GameEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, game_id, event_type, points_team1, points_team2, created_at
		FROM game_events WHERE game_id = ?
		ORDER BY created_at ASC, id ASC`, gameID)
	if err != nil {
		log.Error("Failed to query game events", "error", err, "gameID", gameID)
		return nil, fmt.Errorf("failed to query game events: %w", err)
	}
	defer rows.Close()

	events := []GameEvent{}
	for rows.Next() {
		var e GameEvent
		if err := rows.Scan(&e.ID, &e.GameID, &e.EventType, &e.PointsTeam1, &e.PointsTeam2, &e.CreatedAt); err != nil {
			log.Error("Failed to scan event row", "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// RecordEvent appends an event and, when completion is non-nil, flips the
// game to complete and bumps the four player counters. Everything happens in
// one transaction: a failure anywhere leaves the prior committed state
// untouched. The status update re-checks status = 'ongoing' so a game can
// never complete twice even if callers race.
func (s *store) RecordEvent(gameID int64, event GameEvent, completion *Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO game_events (game_id, event_type, points_team1, points_team2, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		gameID, event.EventType, event.PointsTeam1, event.PointsTeam2, event.CreatedAt)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to insert game event", "error", err, "gameID", gameID)
		return fmt.Errorf("failed to insert game event: %w", err)
	}

	if completion == nil {
		return tx.Commit()
	}

	res, err := tx.Exec(`
		UPDATE games
		SET status = ?, winner = ?, score_team1 = ?, score_team2 = ?, completed_at = ?
		WHERE id = ? AND status = ?`,
		StatusComplete, completion.Winner, completion.ScoreTeam1, completion.ScoreTeam2,
		completion.CompletedAt, gameID, StatusOngoing)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to complete game", "error", err, "gameID", gameID)
		return fmt.Errorf("failed to complete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return fault.New(fault.KindConflict, "game %d is already complete", gameID)
	}

	// One update per slot rather than an IN clause so a player appearing
	// twice on a team is counted twice.
	for _, id := range completion.WinnerIDs {
		if _, err := tx.Exec("UPDATE players SET wins = COALESCE(wins, 0) + 1 WHERE id = ?", id); err != nil {
			tx.Rollback()
			log.Error("Failed to increment wins", "error", err, "playerID", id)
			return fmt.Errorf("failed to increment wins for player %d: %w", id, err)
		}
	}
	for _, id := range completion.LoserIDs {
		if _, err := tx.Exec("UPDATE players SET losses = COALESCE(losses, 0) + 1 WHERE id = ?", id); err != nil {
			tx.Rollback()
			log.Error("Failed to increment losses", "error", err, "playerID", id)
			return fmt.Errorf("failed to increment losses for player %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game completion: %w", err)
	}
	log.Info("Game completed", "gameID", gameID, "winner", completion.Winner,
		"scoreTeam1", completion.ScoreTeam1, "scoreTeam2", completion.ScoreTeam2)
	return nil
}
