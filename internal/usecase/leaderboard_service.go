package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// WorkbookWriter renders standings and player totals into a document.
type WorkbookWriter func(w io.Writer, standings []leaguestanding.Standing, players []playerstats.Totals) error

// LeaderboardService serves the read projections over the ledger.
type LeaderboardService struct {
	standingRepo leaguestanding.Repository
	playerRepo   playerstats.Repository
	defaultLimit int
	writeBook    WorkbookWriter
}

func NewLeaderboardService(
	standingRepo leaguestanding.Repository,
	playerRepo playerstats.Repository,
	defaultLimit int,
	writeBook WorkbookWriter,
) *LeaderboardService {
	if defaultLimit <= 0 || defaultLimit > maxLeaderboardLimit {
		defaultLimit = defaultLeaderboardLimit
	}
	return &LeaderboardService{
		standingRepo: standingRepo,
		playerRepo:   playerRepo,
		defaultLimit: defaultLimit,
		writeBook:    writeBook,
	}
}

func (s *LeaderboardService) Standings(ctx context.Context) ([]leaguestanding.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	items, err := s.standingRepo.ListStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list standings: %v", ErrDependencyUnavailable, err)
	}
	return items, nil
}

// Board returns one player leaderboard. A zero limit uses the default.
func (s *LeaderboardService) Board(ctx context.Context, board playerstats.Board, limit int) ([]playerstats.Totals, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Board", attribute.String("leaderboard.board", string(board)))
	defer span.End()

	if !board.Valid() {
		return nil, fmt.Errorf("%w: unknown leaderboard %q", ErrInvalidInput, board)
	}
	if limit < 0 || limit > maxLeaderboardLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxLeaderboardLimit)
	}
	if limit == 0 {
		limit = s.defaultLimit
	}
	span.SetAttributes(attribute.Int("leaderboard.limit", limit))

	items, err := s.playerRepo.ListBoard(ctx, board, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrDependencyUnavailable, board, err)
	}
	return items, nil
}

func (s *LeaderboardService) TopScorers(ctx context.Context, limit int) ([]playerstats.Totals, error) {
	return s.Board(ctx, playerstats.BoardTopScorers, limit)
}

func (s *LeaderboardService) MostCarded(ctx context.Context, limit int) ([]playerstats.Totals, error) {
	return s.Board(ctx, playerstats.BoardMostCarded, limit)
}

func (s *LeaderboardService) MostMinutes(ctx context.Context, limit int) ([]playerstats.Totals, error) {
	return s.Board(ctx, playerstats.BoardMostMinutes, limit)
}

// ExportWorkbook writes standings and all player totals to w.
func (s *LeaderboardService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ExportWorkbook")
	defer span.End()

	if s.writeBook == nil {
		return fmt.Errorf("%w: workbook export is not configured", ErrDependencyUnavailable)
	}

	standings, err := s.Standings(ctx)
	if err != nil {
		return err
	}
	players, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: list players: %v", ErrDependencyUnavailable, err)
	}
	if err := s.writeBook(w, standings, players); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
