package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/ledger"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	basecache "github.com/riskibarqy/tournament-ledger/internal/platform/cache"
)

const projectionPrefix = "ledger:"

// LedgerRepository drops every cached projection once a ledger transaction commits.
type LedgerRepository struct {
	next  ledger.Repository
	cache *basecache.Store
}

func NewLedgerRepository(next ledger.Repository, cache *basecache.Store) *LedgerRepository {
	return &LedgerRepository{next: next, cache: cache}
}

func (r *LedgerRepository) HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error) {
	return r.next.HasProcessedFile(ctx, filename, fingerprint)
}

func (r *LedgerRepository) InTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	if err := r.next.InTx(ctx, fn); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, projectionPrefix)
	return nil
}

type StandingRepository struct {
	next  leaguestanding.Repository
	cache *basecache.Store
}

func NewStandingRepository(next leaguestanding.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ListStandings(ctx context.Context) ([]leaguestanding.Standing, error) {
	items, err := basecache.Load(ctx, r.cache, projectionPrefix+"standings", func(ctx context.Context) ([]leaguestanding.Standing, error) {
		items, err := r.next.ListStandings(ctx)
		if err != nil {
			return nil, err
		}
		return append([]leaguestanding.Standing(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]leaguestanding.Standing(nil), items...), nil
}

type PlayerStatsRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPlayerStatsRepository(next playerstats.Repository, cache *basecache.Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{next: next, cache: cache}
}

func (r *PlayerStatsRepository) ListBoard(ctx context.Context, board playerstats.Board, limit int) ([]playerstats.Totals, error) {
	key := projectionPrefix + "board:" + string(board) + ":" + strconv.Itoa(limit)
	return r.load(ctx, key, func(ctx context.Context) ([]playerstats.Totals, error) {
		return r.next.ListBoard(ctx, board, limit)
	})
}

func (r *PlayerStatsRepository) ListAll(ctx context.Context) ([]playerstats.Totals, error) {
	return r.load(ctx, projectionPrefix+"players:all", r.next.ListAll)
}

func (r *PlayerStatsRepository) load(ctx context.Context, key string, loader func(context.Context) ([]playerstats.Totals, error)) ([]playerstats.Totals, error) {
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]playerstats.Totals, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.Totals(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]playerstats.Totals(nil), items...), nil
}
