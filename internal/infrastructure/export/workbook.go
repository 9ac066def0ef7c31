package export

import (
	"fmt"
	"io"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/xuri/excelize/v2"
)

const (
	StandingsSheet = "Standings"
	PlayersSheet   = "Players"
)

var (
	standingsHeader = []any{
		"#", "Team", "Points", "Played", "Won (reg)", "Won (OT)", "Lost (OT)", "Lost (reg)",
		"Goals for", "Goals against", "Goal diff",
	}
	playersHeader = []any{
		"Player ID", "Name", "Team", "Nr", "Role", "Goals", "Assists", "Minutes",
		"Yellow", "Red", "Games",
	}
)

// WriteWorkbook renders the ledger as an XLSX workbook with one sheet for
// the table and one for player totals. Rows are written in the given order.
func WriteWorkbook(w io.Writer, standings []leaguestanding.Standing, players []playerstats.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StandingsSheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(PlayersSheet); err != nil {
		return fmt.Errorf("create players sheet: %w", err)
	}

	if err := writeRow(f, StandingsSheet, 1, standingsHeader); err != nil {
		return err
	}
	for i, s := range standings {
		row := []any{
			i + 1, s.TeamName, s.Points, s.Played(), s.WonRegulation, s.WonOvertime,
			s.LostOvertime, s.LostRegulation, s.GoalsFor, s.GoalsAgainst, s.GoalDifference(),
		}
		if err := writeRow(f, StandingsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, PlayersSheet, 1, playersHeader); err != nil {
		return err
	}
	for i, p := range players {
		row := []any{
			p.PlayerID, p.Name, p.Team, p.Number, p.Role, p.Goals, p.Assists,
			p.MinutesPlayed, p.YellowCards, p.RedCards, p.GamesPlayed,
		}
		if err := writeRow(f, PlayersSheet, i+2, row); err != nil {
			return err
		}
	}

	for _, sheet := range []string{StandingsSheet, PlayersSheet} {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header on %s: %w", sheet, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("resolve cell for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
