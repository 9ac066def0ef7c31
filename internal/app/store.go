package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/ledger"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"
)

// ledgerStore is what every store driver provides.
type ledgerStore interface {
	ledger.Repository
	leaguestanding.Repository
	playerstats.Repository
	rawdata.Repository
}

// openStore selects the store driver. The returned close func is never nil.
func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (ledgerStore, func() error, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.WarnContext(ctx, "using in-memory store, totals are lost on restart")
		return memory.NewLedgerRepository(), func() error { return nil }, nil
	}

	db, dialect, err := OpenSQL(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.DBAutoMigrate {
		if err := sqlstore.MigrateUp(db.DB, dialect); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("auto migrate %s store: %w", dialect, err)
		}
		logger.InfoContext(ctx, "store schema is current", "driver", dialect)
	}

	logger.InfoContext(ctx, "store opened", "driver", dialect, "db_name", dbNameFromURL(cfg.DBURL))
	return sqlstore.New(db, dialect), db.Close, nil
}

// OpenSQL opens the traced SQL connection for a sqlite or postgres config.
func OpenSQL(ctx context.Context, cfg config.Config) (*sqlx.DB, sqlstore.Dialect, error) {
	dialect, err := sqlstore.ParseDialect(strings.TrimSpace(cfg.StoreDriver))
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.DBURL
	switch dialect {
	case sqlstore.DialectPostgres:
		dsn = normalizeDBURL(dsn, cfg.DBDisablePreparedBinary)
	case sqlstore.DialectSQLite:
		dsn = sqliteDSN(dsn)
	}

	db, err := otelsqlx.Open(
		string(dialect),
		dsn,
		otelsql.WithDBSystem(dbSystem(dialect)),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, "", fmt.Errorf("open %s store: %w", dialect, err)
	}

	if dialect == sqlstore.DialectSQLite {
		// SQLite serializes writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s store: %w", dialect, err)
	}
	return db, dialect, nil
}

const maxTracedQueryLength = 512

func dbSystem(dialect sqlstore.Dialect) string {
	if dialect == sqlstore.DialectPostgres {
		return "postgresql"
	}
	return string(dialect)
}

// traceQuery collapses whitespace so multi-line statements read as one span
// attribute, and caps the length.
func traceQuery(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) <= maxTracedQueryLength {
		return compact
	}
	return compact[:maxTracedQueryLength] + "..."
}
