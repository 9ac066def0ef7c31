package leaguestanding

import (
	"fmt"
	"sort"
)

// Standing represents the running ledger row for one team.
type Standing struct {
	TeamName       string
	Points         int
	WonRegulation  int
	WonOvertime    int
	LostRegulation int
	LostOvertime   int
	GoalsFor       int
	GoalsAgainst   int
}

func (s Standing) Validate() error {
	if s.TeamName == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// Played counts decided games. Ties land in no bucket.
func (s Standing) Played() int {
	return s.WonRegulation + s.WonOvertime + s.LostRegulation + s.LostOvertime
}

func (s Standing) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// Add returns s with every counter of delta accumulated onto it.
func (s Standing) Add(delta Standing) Standing {
	if s.TeamName == "" {
		s.TeamName = delta.TeamName
	}
	s.Points += delta.Points
	s.WonRegulation += delta.WonRegulation
	s.WonOvertime += delta.WonOvertime
	s.LostRegulation += delta.LostRegulation
	s.LostOvertime += delta.LostOvertime
	s.GoalsFor += delta.GoalsFor
	s.GoalsAgainst += delta.GoalsAgainst
	return s
}

// Sort orders the table by points desc, goals scored desc, then team name.
func Sort(items []Standing) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamName < b.TeamName
	})
}
