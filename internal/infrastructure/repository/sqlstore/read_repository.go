package sqlstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
	qb "github.com/riskibarqy/tournament-ledger/internal/platform/querybuilder"
)

var (
	_ leaguestanding.Repository = (*Store)(nil)
	_ playerstats.Repository    = (*Store)(nil)
	_ rawdata.Repository        = (*Store)(nil)
)

var boardOrder = map[playerstats.Board][]string{
	playerstats.BoardTopScorers:  {"goals DESC", "assists DESC", "player_id ASC"},
	playerstats.BoardMostCarded:  {"red_cards DESC", "yellow_cards DESC", "player_id ASC"},
	playerstats.BoardMostMinutes: {"minutes_played DESC", "player_id ASC"},
}

func (s *Store) ListStandings(ctx context.Context) ([]leaguestanding.Standing, error) {
	query, args, err := qb.Select(teamTotalsColumns...).From(teamTotalsTable).
		OrderBy("points DESC", "goals_for DESC", "team_name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []teamTotalsModel
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]leaguestanding.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) ListBoard(ctx context.Context, board playerstats.Board, limit int) ([]playerstats.Totals, error) {
	order, ok := boardOrder[board]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard %q", board)
	}
	return s.listPlayers(ctx, order, limit)
}

func (s *Store) ListAll(ctx context.Context) ([]playerstats.Totals, error) {
	return s.listPlayers(ctx, []string{"team_name ASC", "jersey_number ASC", "player_id ASC"}, 0)
}

func (s *Store) listPlayers(ctx context.Context, order []string, limit int) ([]playerstats.Totals, error) {
	query, args, err := qb.Select(playerTotalsColumns...).From(playerTotalsTable).
		OrderBy(order...).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTotalsModel
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]playerstats.Totals, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) ListProcessedFiles(ctx context.Context) ([]rawdata.ProcessedFile, error) {
	query, args, err := qb.Select(processedFileColumns...).From(processedFilesTable).
		OrderBy("processed_at ASC", "filename ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list processed files query: %w", err)
	}

	var rows []processedFileModel
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list processed files: %w", err)
	}

	out := make([]rawdata.ProcessedFile, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
