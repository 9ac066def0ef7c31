package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	leaguestandingmock "github.com/riskibarqy/tournament-ledger/internal/mocks/domain/leaguestanding"
	playerstatsmock "github.com/riskibarqy/tournament-ledger/internal/mocks/domain/playerstats"
	"github.com/stretchr/testify/mock"
)

func TestLeaderboardService_Board_DefaultLimitUsingMockery(t *testing.T) {
	t.Parallel()

	standingRepo := leaguestandingmock.NewRepository(t)
	playerRepo := playerstatsmock.NewRepository(t)
	svc := NewLeaderboardService(standingRepo, playerRepo, 5, nil)

	expected := []playerstats.Totals{{PlayerID: "Alpha-9", Team: "Alpha", Number: 9, Goals: 3}}
	playerRepo.
		On("ListBoard", mock.Anything, playerstats.BoardTopScorers, 5).
		Return(expected, nil).
		Once()

	got, err := svc.TopScorers(context.Background(), 0)
	if err != nil {
		t.Fatalf("top scorers: %v", err)
	}
	if len(got) != 1 || got[0].PlayerID != "Alpha-9" {
		t.Fatalf("unexpected board: %+v", got)
	}
}

func TestLeaderboardService_Board_ExplicitLimitUsingMockery(t *testing.T) {
	t.Parallel()

	playerRepo := playerstatsmock.NewRepository(t)
	svc := NewLeaderboardService(leaguestandingmock.NewRepository(t), playerRepo, 0, nil)

	playerRepo.
		On("ListBoard", mock.Anything, playerstats.BoardMostCarded, 3).
		Return([]playerstats.Totals{}, nil).
		Once()
	playerRepo.
		On("ListBoard", mock.Anything, playerstats.BoardMostMinutes, 100).
		Return([]playerstats.Totals{}, nil).
		Once()

	if _, err := svc.MostCarded(context.Background(), 3); err != nil {
		t.Fatalf("most carded: %v", err)
	}
	if _, err := svc.MostMinutes(context.Background(), 100); err != nil {
		t.Fatalf("most minutes: %v", err)
	}
}

func TestLeaderboardService_Board_RejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := NewLeaderboardService(leaguestandingmock.NewRepository(t), playerstatsmock.NewRepository(t), 10, nil)

	for _, limit := range []int{-1, 101} {
		if _, err := svc.TopScorers(context.Background(), limit); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("limit %d: expected ErrInvalidInput, got %v", limit, err)
		}
	}
	if _, err := svc.Board(context.Background(), playerstats.Board("fastest"), 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown board, got %v", err)
	}
}

func TestLeaderboardService_StandingsFailureUsingMockery(t *testing.T) {
	t.Parallel()

	standingRepo := leaguestandingmock.NewRepository(t)
	standingRepo.
		On("ListStandings", mock.Anything).
		Return(nil, errors.New("timeout")).
		Once()

	svc := NewLeaderboardService(standingRepo, playerstatsmock.NewRepository(t), 10, nil)
	if _, err := svc.Standings(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestLeaderboardService_ExportWorkbookUsingMockery(t *testing.T) {
	t.Parallel()

	standingRepo := leaguestandingmock.NewRepository(t)
	playerRepo := playerstatsmock.NewRepository(t)

	standings := []leaguestanding.Standing{{TeamName: "Alpha", Points: 5}}
	players := []playerstats.Totals{{PlayerID: "Alpha-9", Team: "Alpha", Number: 9}}
	standingRepo.On("ListStandings", mock.Anything).Return(standings, nil).Once()
	playerRepo.On("ListAll", mock.Anything).Return(players, nil).Once()

	var gotStandings []leaguestanding.Standing
	var gotPlayers []playerstats.Totals
	writer := func(w io.Writer, s []leaguestanding.Standing, p []playerstats.Totals) error {
		gotStandings, gotPlayers = s, p
		_, err := w.Write([]byte("book"))
		return err
	}

	svc := NewLeaderboardService(standingRepo, playerRepo, 10, writer)
	var buf bytes.Buffer
	if err := svc.ExportWorkbook(context.Background(), &buf); err != nil {
		t.Fatalf("export workbook: %v", err)
	}
	if buf.String() != "book" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	if len(gotStandings) != 1 || len(gotPlayers) != 1 {
		t.Fatalf("writer received unexpected data: %+v %+v", gotStandings, gotPlayers)
	}
}

func TestLeaderboardService_ExportWorkbookWithoutWriter(t *testing.T) {
	t.Parallel()

	svc := NewLeaderboardService(leaguestandingmock.NewRepository(t), playerstatsmock.NewRepository(t), 10, nil)
	if err := svc.ExportWorkbook(context.Background(), io.Discard); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
