// Package scoring computes running totals from a game's event log. It is
// pure: no storage, no clock, no side effects.
package scoring

import (
	"sort"

	"github.com/rallypoint/scorekeeper/internal/league"
)

// Totals sums the per-event point awards for both teams. An empty event
// sequence yields (0, 0). The current rule is a plain sum, so submission
// order cannot change the result; if order-sensitive rules (side-out serving)
// are ever added, this is the one place that would enforce ordering.
func Totals(events []league.GameEvent) (team1, team2 int) {
	for _, e := range events {
		team1 += e.PointsTeam1
		team2 += e.PointsTeam2
	}
	return team1, team2
}

// Order returns a copy of events sorted by timestamp ascending, with the
// monotonic id breaking ties. Used when the event log is returned for
// display.
func Order(events []league.GameEvent) []league.GameEvent {
	ordered := make([]league.GameEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt != ordered[j].CreatedAt {
			return ordered[i].CreatedAt < ordered[j].CreatedAt
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
