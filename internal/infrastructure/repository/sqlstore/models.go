package sqlstore

import (
	"time"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
	qb "github.com/riskibarqy/tournament-ledger/internal/platform/querybuilder"
)

const (
	teamTotalsTable     = "team_totals"
	playerTotalsTable   = "player_totals"
	processedFilesTable = "processed_files"
)

var (
	teamCounterColumns = []string{
		"points", "won_regulation", "won_overtime", "lost_regulation",
		"lost_overtime", "goals_for", "goals_against",
	}
	playerCounterColumns = []string{
		"goals", "assists", "minutes_played", "yellow_cards", "red_cards", "games_played",
	}
)

type teamTotalsModel struct {
	TeamName       string `db:"team_name"`
	Points         int    `db:"points"`
	WonRegulation  int    `db:"won_regulation"`
	WonOvertime    int    `db:"won_overtime"`
	LostRegulation int    `db:"lost_regulation"`
	LostOvertime   int    `db:"lost_overtime"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
}

var teamTotalsColumns = qb.MustColumns(teamTotalsModel{})

func teamTotalsFromDomain(s leaguestanding.Standing) teamTotalsModel {
	return teamTotalsModel{
		TeamName:       s.TeamName,
		Points:         s.Points,
		WonRegulation:  s.WonRegulation,
		WonOvertime:    s.WonOvertime,
		LostRegulation: s.LostRegulation,
		LostOvertime:   s.LostOvertime,
		GoalsFor:       s.GoalsFor,
		GoalsAgainst:   s.GoalsAgainst,
	}
}

func (m teamTotalsModel) toDomain() leaguestanding.Standing {
	return leaguestanding.Standing{
		TeamName:       m.TeamName,
		Points:         m.Points,
		WonRegulation:  m.WonRegulation,
		WonOvertime:    m.WonOvertime,
		LostRegulation: m.LostRegulation,
		LostOvertime:   m.LostOvertime,
		GoalsFor:       m.GoalsFor,
		GoalsAgainst:   m.GoalsAgainst,
	}
}

type playerTotalsModel struct {
	PlayerID      string `db:"player_id"`
	Name          string `db:"name"`
	TeamName      string `db:"team_name"`
	JerseyNumber  int    `db:"jersey_number"`
	Role          string `db:"role"`
	Goals         int    `db:"goals"`
	Assists       int    `db:"assists"`
	MinutesPlayed int    `db:"minutes_played"`
	YellowCards   int    `db:"yellow_cards"`
	RedCards      int    `db:"red_cards"`
	GamesPlayed   int    `db:"games_played"`
}

var playerTotalsColumns = qb.MustColumns(playerTotalsModel{})

func playerTotalsFromDomain(t playerstats.Totals) playerTotalsModel {
	return playerTotalsModel{
		PlayerID:      t.PlayerID,
		Name:          t.Name,
		TeamName:      t.Team,
		JerseyNumber:  t.Number,
		Role:          t.Role,
		Goals:         t.Goals,
		Assists:       t.Assists,
		MinutesPlayed: t.MinutesPlayed,
		YellowCards:   t.YellowCards,
		RedCards:      t.RedCards,
		GamesPlayed:   t.GamesPlayed,
	}
}

func (m playerTotalsModel) toDomain() playerstats.Totals {
	return playerstats.Totals{
		PlayerID:      m.PlayerID,
		Name:          m.Name,
		Team:          m.TeamName,
		Number:        m.JerseyNumber,
		Role:          m.Role,
		Goals:         m.Goals,
		Assists:       m.Assists,
		MinutesPlayed: m.MinutesPlayed,
		YellowCards:   m.YellowCards,
		RedCards:      m.RedCards,
		GamesPlayed:   m.GamesPlayed,
	}
}

type processedFileModel struct {
	Filename    string    `db:"filename"`
	Fingerprint string    `db:"fingerprint"`
	ProcessedAt time.Time `db:"processed_at"`
}

var processedFileColumns = qb.MustColumns(processedFileModel{})

func (m processedFileModel) toDomain() rawdata.ProcessedFile {
	return rawdata.ProcessedFile{
		Filename:    m.Filename,
		Fingerprint: m.Fingerprint,
		ProcessedAt: m.ProcessedAt.UTC(),
	}
}
