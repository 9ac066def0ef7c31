package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("player_id", "goals").
		From("player_totals").
		Where(Eq("team_name", "Alpha"), Eq("role", "U")).
		OrderBy("goals DESC", "player_id ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_id, goals FROM player_totals WHERE team_name = ? AND role = ? ORDER BY goals DESC, player_id ASC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Alpha" || args[1] != "U" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("processed_files").
		Columns("filename", "fingerprint").
		Values("m1.json", "abc").
		Suffix("ON CONFLICT (filename, fingerprint) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO processed_files (filename, fingerprint) VALUES (?, ?) ON CONFLICT (filename, fingerprint) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1.json" || args[1] != "abc" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelWithAccumulate(t *testing.T) {
	type row struct {
		TeamName string `db:"team_name"`
		Points   int    `db:"points"`
		internal string
		Skipped  string `db:"-"`
	}

	suffix := AccumulateOnConflict("team_totals", []string{"team_name"}, []string{"points"})
	query, args, err := InsertModel("team_totals", row{TeamName: "Alpha", Points: 5, internal: "x"}, suffix)
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}

	wantQuery := "INSERT INTO team_totals (team_name, points) VALUES (?, ?) ON CONFLICT (team_name) DO UPDATE SET points = team_totals.points + excluded.points"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Alpha" || args[1] != 5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelRejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("t", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilRow *struct{}
	if _, _, err := InsertModel("t", nilRow, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestColumnsFollowDeclarationOrder(t *testing.T) {
	type row struct {
		PlayerID string `db:"player_id"`
		Note     string
		Goals    int `db:"goals,omitempty"`
		hidden   int `db:"hidden"`
	}

	for i := 0; i < 2; i++ {
		cols, err := Columns(&row{hidden: 1})
		if err != nil {
			t.Fatalf("columns: %v", err)
		}
		if len(cols) != 2 || cols[0] != "player_id" || cols[1] != "goals" {
			t.Fatalf("unexpected columns on call %d: %v", i+1, cols)
		}
		// The cached plan must not leak through the returned slice.
		cols[0] = "mutated"
	}

	if _, err := Columns(struct{ Name string }{}); err == nil {
		t.Fatal("expected error for model without db columns")
	}
}
