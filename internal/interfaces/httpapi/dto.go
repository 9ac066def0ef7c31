package httpapi

import (
	"time"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
)

type messageDTO struct {
	Message string `json:"message"`
}

type standingDTO struct {
	Position       int    `json:"position"`
	Name           string `json:"name"`
	Points         int    `json:"points"`
	Played         int    `json:"played"`
	GamesWonReg    int    `json:"games_won_reg"`
	GamesWonOT     int    `json:"games_won_ot"`
	GamesLostOT    int    `json:"games_lost_ot"`
	GamesLostReg   int    `json:"games_lost_reg"`
	GoalsScored    int    `json:"goals_scored"`
	GoalsConceded  int    `json:"goals_conceded"`
	GoalDifference int    `json:"goal_difference"`
}

type playerDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Team          string `json:"team"`
	Number        int    `json:"number"`
	Role          string `json:"role,omitempty"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
	MinutesPlayed int    `json:"minutes_played"`
	GamesPlayed   int    `json:"games_played"`
}

type scanSummaryDTO struct {
	RunID       string                `json:"run_id"`
	StartedAt   string                `json:"started_at"`
	FinishedAt  string                `json:"finished_at"`
	Considered  int                   `json:"considered"`
	Merged      int                   `json:"merged"`
	Unchanged   int                   `json:"unchanged"`
	Skipped     int                   `json:"skipped"`
	WorkerCount int                   `json:"worker_count"`
	Aborted     bool                  `json:"aborted"`
	Error       string                `json:"error,omitempty"`
	Files       []usecase.FileOutcome `json:"files,omitempty"`
}

func standingsToDTO(items []leaguestanding.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for i, s := range items {
		out = append(out, standingDTO{
			Position:       i + 1,
			Name:           s.TeamName,
			Points:         s.Points,
			Played:         s.Played(),
			GamesWonReg:    s.WonRegulation,
			GamesWonOT:     s.WonOvertime,
			GamesLostOT:    s.LostOvertime,
			GamesLostReg:   s.LostRegulation,
			GoalsScored:    s.GoalsFor,
			GoalsConceded:  s.GoalsAgainst,
			GoalDifference: s.GoalDifference(),
		})
	}
	return out
}

func playersToDTO(items []playerstats.Totals) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerDTO{
			ID:            p.PlayerID,
			Name:          p.Name,
			Team:          p.Team,
			Number:        p.Number,
			Role:          p.Role,
			Goals:         p.Goals,
			Assists:       p.Assists,
			YellowCards:   p.YellowCards,
			RedCards:      p.RedCards,
			MinutesPlayed: p.MinutesPlayed,
			GamesPlayed:   p.GamesPlayed,
		})
	}
	return out
}

func scanToDTO(report usecase.ScanReport, verbose bool) scanSummaryDTO {
	out := scanSummaryDTO{
		RunID:       report.RunID,
		StartedAt:   formatTime(report.StartedAt),
		FinishedAt:  formatTime(report.FinishedAt),
		Considered:  report.Considered,
		Merged:      report.Merged,
		Unchanged:   report.Unchanged,
		Skipped:     report.Skipped,
		WorkerCount: report.WorkerCount,
		Aborted:     report.Aborted,
		Error:       report.Error,
	}
	if verbose {
		out.Files = append([]usecase.FileOutcome(nil), report.Files...)
	}
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339Nano)
}
