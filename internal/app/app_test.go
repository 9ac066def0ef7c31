package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
)

func testConfig(t *testing.T, driver string) config.Config {
	t.Helper()

	dataDir := t.TempDir()
	raw, err := os.ReadFile(filepath.Join("..", "domain", "matchreport", "testdata", "regulation.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "round1.json"), raw, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := config.Config{
		HTTPAddr:                ":0",
		StoreDriver:             driver,
		DBAutoMigrate:           true,
		MatchDataDir:            dataDir,
		MatchFilePattern:        "*.json",
		IngestParseWorkers:      2,
		MaxUploadBytes:          1 << 20,
		ScanOnStart:             true,
		LeaderboardDefaultLimit: 10,
		CORSAllowedOrigins:      []string{"*"},
	}
	if driver == config.StoreSQLite {
		cfg.DBURL = filepath.Join(t.TempDir(), "ledger.db")
	}
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("close app: %v", err)
		}
	})
	return a
}

func TestApp_ScanOnStartWithStores(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			cfg.CacheEnabled = driver == config.StoreSQLite
			cfg.CacheTTL = time.Minute
			a := newTestApp(t, cfg)

			a.RunScanLoop(context.Background())

			report, err := a.Ingestion.LatestRun(context.Background())
			if err != nil {
				t.Fatalf("expected a run after scan on start: %v", err)
			}
			if report.Merged != 1 {
				t.Fatalf("expected one merged file, got %+v", report)
			}

			standings, err := a.Leaderboard.Standings(context.Background())
			if err != nil {
				t.Fatalf("standings: %v", err)
			}
			if len(standings) != 2 || standings[0].TeamName != "Alpha" {
				t.Fatalf("unexpected standings: %+v", standings)
			}

			processed, err := a.Processed.ListProcessedFiles(context.Background())
			if err != nil {
				t.Fatalf("list processed files: %v", err)
			}
			if len(processed) != 1 || processed[0].Filename != "round1.json" {
				t.Fatalf("unexpected processed files: %+v", processed)
			}
		})
	}
}

func TestApp_ScanLoopStopsWithContext(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.ScanOnStart = false
	cfg.ScanInterval = 10 * time.Millisecond
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.RunScanLoop(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scan loop did not stop after context cancellation")
	}

	if _, err := a.Ingestion.LatestRun(context.Background()); err != nil {
		t.Fatalf("expected at least one periodic scan: %v", err)
	}
}

func TestApp_NewHTTPServer(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.MetricsEnabled = true
	a := newTestApp(t, cfg)

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", rec.Code)
	}

	cfg.HTTPAddr = ""
	empty := newTestApp(t, cfg)
	if _, err := empty.NewHTTPServer(); err == nil {
		t.Fatal("expected error for empty addr")
	}
}

func TestApp_RejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t, "oracle")
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}
