package ledger

import (
	"context"

	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
)

// Tx is the write side of the ledger. Every call made through one Tx
// commits or rolls back together.
type Tx interface {
	HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error)
	AddTeamTotals(ctx context.Context, delta leaguestanding.Standing) error
	AddPlayerTotals(ctx context.Context, delta playerstats.Totals) error
	RecordProcessedFile(ctx context.Context, file rawdata.ProcessedFile) error
}

type Repository interface {
	HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error)
	// InTx runs fn in one transaction; it commits only when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
