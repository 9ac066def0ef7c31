package playerstats

import (
	"fmt"
	"sort"
)

// Totals is the cumulative ledger row for one player, keyed by "<team>-<nr>".
type Totals struct {
	PlayerID      string
	Name          string
	Team          string
	Number        int
	Role          string
	Goals         int
	Assists       int
	MinutesPlayed int
	YellowCards   int
	RedCards      int
	GamesPlayed   int
}

func (t Totals) Validate() error {
	if t.PlayerID == "" {
		return fmt.Errorf("player id is required")
	}
	if t.Team == "" {
		return fmt.Errorf("player team is required")
	}
	return nil
}

// Add accumulates the counters of delta. Identity fields keep their first
// non-empty value.
func (t Totals) Add(delta Totals) Totals {
	if t.PlayerID == "" {
		t.PlayerID = delta.PlayerID
	}
	if t.Name == "" {
		t.Name = delta.Name
	}
	if t.Team == "" {
		t.Team = delta.Team
	}
	if t.Number == 0 {
		t.Number = delta.Number
	}
	if t.Role == "" {
		t.Role = delta.Role
	}
	t.Goals += delta.Goals
	t.Assists += delta.Assists
	t.MinutesPlayed += delta.MinutesPlayed
	t.YellowCards += delta.YellowCards
	t.RedCards += delta.RedCards
	t.GamesPlayed += delta.GamesPlayed
	return t
}

// Board names one of the fixed player leaderboards.
type Board string

const (
	BoardTopScorers  Board = "top_scorers"
	BoardMostCarded  Board = "most_carded"
	BoardMostMinutes Board = "most_minutes"
)

func (b Board) Valid() bool {
	switch b {
	case BoardTopScorers, BoardMostCarded, BoardMostMinutes:
		return true
	default:
		return false
	}
}

// Less reports whether a ranks ahead of b on the board. Ties fall back to
// player id so output is deterministic.
func (b Board) Less(x, y Totals) bool {
	switch b {
	case BoardTopScorers:
		if x.Goals != y.Goals {
			return x.Goals > y.Goals
		}
		if x.Assists != y.Assists {
			return x.Assists > y.Assists
		}
	case BoardMostCarded:
		if x.RedCards != y.RedCards {
			return x.RedCards > y.RedCards
		}
		if x.YellowCards != y.YellowCards {
			return x.YellowCards > y.YellowCards
		}
	case BoardMostMinutes:
		if x.MinutesPlayed != y.MinutesPlayed {
			return x.MinutesPlayed > y.MinutesPlayed
		}
	}
	return x.PlayerID < y.PlayerID
}

// Rank sorts items for the board and truncates to limit when limit > 0.
func (b Board) Rank(items []Totals, limit int) []Totals {
	sort.SliceStable(items, func(i, j int) bool {
		return b.Less(items[i], items[j])
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// SortByRoster orders players by team, jersey number and id.
func SortByRoster(items []Totals) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.PlayerID < b.PlayerID
	})
}
