package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/ledger"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
	qb "github.com/riskibarqy/tournament-ledger/internal/platform/querybuilder"
)

var _ ledger.Repository = (*Store)(nil)

// queryer is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *Store) HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error) {
	return hasProcessedFile(ctx, s.db, filename, fingerprint)
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sqlx.Tx
}

func (t *ledgerTx) HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error) {
	return hasProcessedFile(ctx, t.tx, filename, fingerprint)
}

func (t *ledgerTx) AddTeamTotals(ctx context.Context, delta leaguestanding.Standing) error {
	if err := delta.Validate(); err != nil {
		return fmt.Errorf("add team totals: %w", err)
	}

	suffix := qb.AccumulateOnConflict(teamTotalsTable, []string{"team_name"}, teamCounterColumns) +
		", updated_at = CURRENT_TIMESTAMP"
	query, args, err := qb.InsertModel(teamTotalsTable, teamTotalsFromDomain(delta), suffix)
	if err != nil {
		return fmt.Errorf("build upsert team totals query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert team totals team=%s: %w", delta.TeamName, err)
	}
	return nil
}

func (t *ledgerTx) AddPlayerTotals(ctx context.Context, delta playerstats.Totals) error {
	if err := delta.Validate(); err != nil {
		return fmt.Errorf("add player totals: %w", err)
	}

	suffix := qb.AccumulateOnConflict(playerTotalsTable, []string{"player_id"}, playerCounterColumns) +
		", updated_at = CURRENT_TIMESTAMP"
	query, args, err := qb.InsertModel(playerTotalsTable, playerTotalsFromDomain(delta), suffix)
	if err != nil {
		return fmt.Errorf("build upsert player totals query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert player totals player=%s: %w", delta.PlayerID, err)
	}
	return nil
}

// RecordProcessedFile inserts without ON CONFLICT so a concurrent merge of
// the same content fails on the primary key and rolls back its totals.
func (t *ledgerTx) RecordProcessedFile(ctx context.Context, file rawdata.ProcessedFile) error {
	processedAt := file.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	query, args, err := qb.InsertModel(processedFilesTable, processedFileModel{
		Filename:    file.Filename,
		Fingerprint: file.Fingerprint,
		ProcessedAt: processedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert processed file query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("insert processed file filename=%s: %w", file.Filename, err)
	}
	return nil
}

func hasProcessedFile(ctx context.Context, q queryer, filename, fingerprint string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From(processedFilesTable).
		Where(
			qb.Eq("filename", filename),
			qb.Eq("fingerprint", fingerprint),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build processed file lookup query: %w", err)
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("lookup processed file filename=%s: %w", filename, err)
	}
	return count > 0, nil
}
