package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/ledger"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
)

var (
	_ ledger.Repository         = (*LedgerRepository)(nil)
	_ leaguestanding.Repository = (*LedgerRepository)(nil)
	_ playerstats.Repository    = (*LedgerRepository)(nil)
	_ rawdata.Repository        = (*LedgerRepository)(nil)
)

type processedKey struct {
	filename    string
	fingerprint string
}

// LedgerRepository keeps the ledger in process memory. Transactions are
// serialized and buffer their writes until commit.
type LedgerRepository struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	teams     map[string]leaguestanding.Standing
	players   map[string]playerstats.Totals
	processed map[processedKey]rawdata.ProcessedFile
	order     []processedKey
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		teams:     make(map[string]leaguestanding.Standing),
		players:   make(map[string]playerstats.Totals),
		processed: make(map[processedKey]rawdata.ProcessedFile),
	}
}

func (r *LedgerRepository) HasProcessedFile(_ context.Context, filename, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.processed[processedKey{filename: filename, fingerprint: fingerprint}]
	return ok, nil
}

func (r *LedgerRepository) InTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &memoryTx{
		repo:      r,
		teams:     make(map[string]leaguestanding.Standing),
		players:   make(map[string]playerstats.Totals),
		processed: make(map[processedKey]rawdata.ProcessedFile),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, delta := range tx.teams {
		r.teams[name] = r.teams[name].Add(delta)
	}
	for id, delta := range tx.players {
		r.players[id] = r.players[id].Add(delta)
	}
	for _, key := range tx.order {
		if _, exists := r.processed[key]; exists {
			continue
		}
		r.processed[key] = tx.processed[key]
		r.order = append(r.order, key)
	}
	return nil
}

func (r *LedgerRepository) ListStandings(_ context.Context) ([]leaguestanding.Standing, error) {
	r.mu.RLock()
	out := make([]leaguestanding.Standing, 0, len(r.teams))
	for _, s := range r.teams {
		out = append(out, s)
	}
	r.mu.RUnlock()

	leaguestanding.Sort(out)
	return out, nil
}

func (r *LedgerRepository) ListBoard(ctx context.Context, board playerstats.Board, limit int) ([]playerstats.Totals, error) {
	if !board.Valid() {
		return nil, fmt.Errorf("unknown leaderboard %q", board)
	}
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return board.Rank(all, limit), nil
}

func (r *LedgerRepository) ListAll(_ context.Context) ([]playerstats.Totals, error) {
	r.mu.RLock()
	out := make([]playerstats.Totals, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	r.mu.RUnlock()

	playerstats.SortByRoster(out)
	return out, nil
}

func (r *LedgerRepository) ListProcessedFiles(_ context.Context) ([]rawdata.ProcessedFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rawdata.ProcessedFile, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.processed[key])
	}
	return out, nil
}

type memoryTx struct {
	repo      *LedgerRepository
	teams     map[string]leaguestanding.Standing
	players   map[string]playerstats.Totals
	processed map[processedKey]rawdata.ProcessedFile
	order     []processedKey
}

func (t *memoryTx) HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error) {
	if _, ok := t.processed[processedKey{filename: filename, fingerprint: fingerprint}]; ok {
		return true, nil
	}
	return t.repo.HasProcessedFile(ctx, filename, fingerprint)
}

func (t *memoryTx) AddTeamTotals(_ context.Context, delta leaguestanding.Standing) error {
	if err := delta.Validate(); err != nil {
		return fmt.Errorf("add team totals: %w", err)
	}
	t.teams[delta.TeamName] = t.teams[delta.TeamName].Add(delta)
	return nil
}

func (t *memoryTx) AddPlayerTotals(_ context.Context, delta playerstats.Totals) error {
	if err := delta.Validate(); err != nil {
		return fmt.Errorf("add player totals: %w", err)
	}
	t.players[delta.PlayerID] = t.players[delta.PlayerID].Add(delta)
	return nil
}

func (t *memoryTx) RecordProcessedFile(_ context.Context, file rawdata.ProcessedFile) error {
	key := processedKey{filename: file.Filename, fingerprint: file.Fingerprint}
	if _, ok := t.processed[key]; ok {
		return nil
	}
	if file.ProcessedAt.IsZero() {
		file.ProcessedAt = time.Now().UTC()
	}
	t.processed[key] = file
	t.order = append(t.order, key)
	return nil
}
