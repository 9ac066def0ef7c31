package app

import (
	"context"
	"time"
)

// RunScanLoop scans once at start when enabled, then every ScanInterval
// until ctx is done. It returns immediately when neither is configured.
func (a *App) RunScanLoop(ctx context.Context) {
	if a.cfg.ScanOnStart {
		a.scanOnce(ctx, "start")
	}
	if a.cfg.ScanInterval <= 0 {
		return
	}

	ticker := time.NewTicker(a.cfg.ScanInterval)
	defer ticker.Stop()

	a.logger.InfoContext(ctx, "periodic scan enabled", "interval", a.cfg.ScanInterval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.scanOnce(ctx, "interval")
		}
	}
}

func (a *App) scanOnce(ctx context.Context, trigger string) {
	report, err := a.Ingestion.Scan(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "scheduled scan failed", "trigger", trigger, "run_id", report.RunID, "error", err)
		return
	}
	a.logger.InfoContext(ctx, "scheduled scan finished",
		"trigger", trigger,
		"run_id", report.RunID,
		"merged", report.Merged,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
	)
}
