package export

import (
	"bytes"
	"testing"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	standings := []leaguestanding.Standing{
		{TeamName: "Alpha", Points: 5, WonRegulation: 1, GoalsFor: 2, GoalsAgainst: 1},
		{TeamName: "Bravo", Points: 1, LostRegulation: 1, GoalsFor: 1, GoalsAgainst: 2},
	}
	players := []playerstats.Totals{
		{PlayerID: "Alpha-9", Name: "Peteris Kalnins", Team: "Alpha", Number: 9, Role: "U", Goals: 2, MinutesPlayed: 60, GamesPlayed: 1},
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, standings, players); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(StandingsSheet)
	if err != nil {
		t.Fatalf("read standings: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "Alpha" || rows[1][2] != "5" || rows[1][3] != "1" || rows[2][10] != "-1" {
		t.Fatalf("unexpected standings rows: %v", rows)
	}

	rows, err = f.GetRows(PlayersSheet)
	if err != nil {
		t.Fatalf("read players: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Alpha-9" || rows[1][5] != "2" {
		t.Fatalf("unexpected player rows: %v", rows)
	}
}
