package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-ledger/internal/domain/leaguestanding"
	"github.com/riskibarqy/tournament-ledger/internal/domain/ledger"
	"github.com/riskibarqy/tournament-ledger/internal/domain/matchreport"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/domain/rawdata"
	idgen "github.com/riskibarqy/tournament-ledger/internal/platform/id"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
	"github.com/riskibarqy/tournament-ledger/internal/platform/resilience"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	FileStatusMerged    = "merged"
	FileStatusUnchanged = "unchanged"
	FileStatusSkipped   = "skipped"
	FileStatusFailed    = "failed"
	// FileStatusPending marks a parsed file still waiting for its merge.
	FileStatusPending = "pending"

	scanFlightKey   = "scan"
	maxParseWorkers = 32
)

// MatchSource lists and reads raw match report files.
type MatchSource interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// IngestionMetrics receives per-file and per-scan observations.
type IngestionMetrics interface {
	FileProcessed(status string)
	ScanCompleted(report ScanReport, elapsed time.Duration)
}

type IngestionConfig struct {
	ParseWorkers int
	Scoring      leaguestanding.ScoringPolicy
}

type IngestResult struct {
	Filename    string `json:"filename"`
	Fingerprint string `json:"fingerprint"`
	Applied     bool   `json:"applied"`
	Skipped     bool   `json:"skipped"`
	Reason      string `json:"reason,omitempty"`
	IsOvertime  bool   `json:"is_overtime"`
}

type FileOutcome struct {
	Filename    string `json:"filename"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	DurationMs  int64  `json:"duration_ms"`
}

type ScanReport struct {
	RunID       string        `json:"run_id"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Considered  int           `json:"considered"`
	Merged      int           `json:"merged"`
	Unchanged   int           `json:"unchanged"`
	Skipped     int           `json:"skipped"`
	WorkerCount int           `json:"worker_count"`
	Aborted     bool          `json:"aborted"`
	Error       string        `json:"error,omitempty"`
	Files       []FileOutcome `json:"files"`
}

type IngestionService struct {
	source  MatchSource
	repo    ledger.Repository
	runs    *ScanRunRegistry
	ids     idgen.Generator
	metrics IngestionMetrics
	logger  *logging.Logger
	cfg     IngestionConfig

	flight  resilience.SingleFlight
	mergeMu sync.Mutex
	now     func() time.Time
}

func NewIngestionService(
	source MatchSource,
	repo ledger.Repository,
	runs *ScanRunRegistry,
	ids idgen.Generator,
	metrics IngestionMetrics,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if runs == nil {
		runs = NewScanRunRegistry(defaultScanHistory)
	}
	if ids == nil {
		ids = idgen.NewRandomGenerator("scan_")
	}
	if cfg.Scoring == (leaguestanding.ScoringPolicy{}) {
		cfg.Scoring = leaguestanding.DefaultScoringPolicy()
	}

	return &IngestionService{
		source:  source,
		repo:    repo,
		runs:    runs,
		ids:     ids,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Ingest merges one match file into the ledger unless the same
// (filename, content) pair was merged before.
func (s *IngestionService) Ingest(ctx context.Context, filename string, raw []byte) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	filename = strings.TrimSpace(filename)
	if filename == "" {
		return IngestResult{}, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	item := s.prepare(ctx, filename, raw, nil)
	span.SetAttributes(attribute.String("ingest.filename", filename), attribute.String("ingest.status", item.outcome.Status))

	result := IngestResult{Filename: filename, Fingerprint: item.fingerprint}
	switch item.outcome.Status {
	case FileStatusUnchanged:
		s.observeFile(item.outcome.Status)
		return result, nil
	case FileStatusFailed:
		s.observeFile(item.outcome.Status)
		return result, item.err
	case FileStatusSkipped:
		s.observeFile(item.outcome.Status)
		result.Skipped = true
		result.Reason = item.outcome.Reason
		return result, fmt.Errorf("%w: %w", ErrInvalidInput, item.err)
	}

	outcome, err := s.merge(ctx, item)
	if err != nil {
		s.observeFile(FileStatusFailed)
		return result, err
	}
	s.observeFile(outcome.Status)
	if outcome.Status == FileStatusSkipped {
		result.Skipped = true
		result.Reason = outcome.Reason
		return result, fmt.Errorf("%w: %w", ErrInvalidInput, item.err)
	}
	result.Applied = outcome.Status == FileStatusMerged
	result.IsOvertime = item.match.IsOvertime
	return result, nil
}

// Scan ingests every file offered by the source. Overlapping calls share one pass.
func (s *IngestionService) Scan(ctx context.Context) (ScanReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Scan")
	defer span.End()

	if s.source == nil {
		return ScanReport{}, fmt.Errorf("%w: match source is not configured", ErrDependencyUnavailable)
	}

	v, err, shared := s.flight.Do(scanFlightKey, func() (any, error) {
		return s.scan(ctx)
	})
	report, _ := v.(ScanReport)
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight scan", "run_id", report.RunID)
	}
	return report, err
}

// LatestRun returns the most recent scan report.
func (s *IngestionService) LatestRun(_ context.Context) (ScanReport, error) {
	report, ok := s.runs.Latest()
	if !ok {
		return ScanReport{}, fmt.Errorf("%w: no scan has run yet", ErrNotFound)
	}
	return report, nil
}

func (s *IngestionService) GetRun(_ context.Context, runID string) (ScanReport, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ScanReport{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	report, ok := s.runs.Get(runID)
	if !ok {
		return ScanReport{}, fmt.Errorf("%w: scan run=%s", ErrNotFound, runID)
	}
	return report, nil
}

func (s *IngestionService) scan(ctx context.Context) (report ScanReport, err error) {
	start := s.now()
	runID, err := s.ids.NewID()
	if err != nil {
		return ScanReport{}, fmt.Errorf("generate scan run id: %w", err)
	}

	report = ScanReport{RunID: runID, StartedAt: start.UTC()}
	defer func() {
		report.FinishedAt = s.now().UTC()
		s.runs.Save(report)
		if s.metrics != nil {
			s.metrics.ScanCompleted(report, report.FinishedAt.Sub(start))
		}
	}()

	names, err := s.source.List(ctx)
	if err != nil {
		report.Aborted = true
		report.Error = err.Error()
		return report, fmt.Errorf("%w: list match files: %v", ErrDependencyUnavailable, err)
	}
	report.Considered = len(names)
	report.Files = make([]FileOutcome, 0, len(names))
	if len(names) == 0 {
		s.logger.InfoContext(ctx, "scan found no match files", "run_id", runID)
		return report, nil
	}

	items, workerCount, err := s.prepareAll(ctx, names)
	report.WorkerCount = workerCount
	if err != nil {
		report.Aborted = true
		report.Error = err.Error()
		return report, err
	}

	// Merges run one file at a time in name order.
	for _, item := range items {
		outcome := item.outcome
		var fileErr error
		switch outcome.Status {
		case FileStatusPending:
			outcome, fileErr = s.merge(ctx, item)
		case FileStatusFailed:
			fileErr = item.err
		}
		if fileErr != nil {
			report.Aborted = true
			report.Error = fileErr.Error()
			report.Files = append(report.Files, item.outcome)
			s.observeFile(FileStatusFailed)
			s.logger.ErrorContext(ctx, "scan aborted on storage failure", "run_id", runID, "file", item.filename, "error", fileErr)
			return report, fileErr
		}

		switch outcome.Status {
		case FileStatusMerged:
			report.Merged++
		case FileStatusUnchanged:
			report.Unchanged++
		case FileStatusSkipped:
			report.Skipped++
			s.logger.WarnContext(ctx, "match file skipped", "run_id", runID, "file", item.filename, "reason", outcome.Reason)
		}
		s.observeFile(outcome.Status)
		report.Files = append(report.Files, outcome)
	}

	s.logger.InfoContext(ctx, "scan completed",
		"run_id", runID,
		"considered", report.Considered,
		"merged", report.Merged,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
	)
	return report, nil
}

type preparedFile struct {
	filename    string
	fingerprint string
	match       matchreport.Result
	outcome     FileOutcome
	err         error
	started     time.Time
}

// prepareAll reads, fingerprints and parses every file on the ants pool.
// Results keep the order of names.
func (s *IngestionService) prepareAll(ctx context.Context, names []string) ([]*preparedFile, int, error) {
	workerCount := normalizeParseWorkerCount(s.cfg.ParseWorkers, len(names))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, workerCount, fmt.Errorf("create parse pool: %w", err)
	}
	defer pool.Release()

	items := make([]*preparedFile, len(names))
	var workers sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			items[i] = s.prepare(ctx, name, nil, s.source)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, workerCount, fmt.Errorf("submit parse task: %w", err)
		}
	}
	workers.Wait()
	return items, workerCount, nil
}

// prepare runs everything up to the merge. It never panics; a panic while
// reading or parsing becomes a skipped outcome.
func (s *IngestionService) prepare(ctx context.Context, filename string, raw []byte, source MatchSource) *preparedFile {
	item := &preparedFile{filename: filename, started: s.now()}
	item.outcome = FileOutcome{Filename: filename}

	var catcher panics.Catcher
	catcher.Try(func() {
		if source != nil {
			data, err := source.Read(ctx, filename)
			if err != nil {
				item.skip(fmt.Errorf("%w: read: %v", matchreport.ErrMalformedInput, err))
				return
			}
			raw = data
		}

		item.fingerprint = rawdata.Fingerprint(raw)
		item.outcome.Fingerprint = item.fingerprint

		seen, err := s.repo.HasProcessedFile(ctx, filename, item.fingerprint)
		if err != nil {
			item.fail(fmt.Errorf("%w: lookup processed file %s: %v", ErrDependencyUnavailable, filename, err))
			return
		}
		if seen {
			item.finish(FileStatusUnchanged, "")
			return
		}

		match, err := matchreport.Parse(raw)
		if err != nil {
			item.skip(err)
			return
		}
		item.match = match
		item.outcome.Status = FileStatusPending
	})
	if recovered := catcher.Recovered(); recovered != nil {
		item.skip(fmt.Errorf("%w: %v", matchreport.ErrMalformedInput, recovered.AsError()))
	}
	return item
}

func (p *preparedFile) skip(err error) {
	p.err = err
	p.finish(FileStatusSkipped, err.Error())
}

func (p *preparedFile) fail(err error) {
	p.err = err
	p.finish(FileStatusFailed, err.Error())
}

func (p *preparedFile) finish(status, reason string) {
	p.outcome.Status = status
	p.outcome.Reason = reason
	p.outcome.DurationMs = time.Since(p.started).Milliseconds()
}

var errMergedConcurrently = errors.New("file merged by a concurrent pass")

// merge folds one parsed match into the ledger inside a single transaction.
// A storage error is returned wrapped in ErrDependencyUnavailable; a panic
// rolls the transaction back and skips the file.
func (s *IngestionService) merge(ctx context.Context, item *preparedFile) (FileOutcome, error) {
	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()

	var txErr error
	var catcher panics.Catcher
	catcher.Try(func() {
		txErr = s.repo.InTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
			seen, err := tx.HasProcessedFile(ctx, item.filename, item.fingerprint)
			if err != nil {
				return err
			}
			if seen {
				return errMergedConcurrently
			}
			if err := s.applyMatch(ctx, tx, item.match); err != nil {
				return err
			}
			return tx.RecordProcessedFile(ctx, rawdata.ProcessedFile{
				Filename:    item.filename,
				Fingerprint: item.fingerprint,
				ProcessedAt: s.now().UTC(),
			})
		})
	})
	if recovered := catcher.Recovered(); recovered != nil {
		item.skip(fmt.Errorf("%w: merge panicked: %v", matchreport.ErrMalformedInput, recovered.AsError()))
		return item.outcome, nil
	}

	switch {
	case errors.Is(txErr, errMergedConcurrently):
		item.finish(FileStatusUnchanged, "")
		return item.outcome, nil
	case txErr != nil:
		item.fail(fmt.Errorf("%w: merge %s: %v", ErrDependencyUnavailable, item.filename, txErr))
		return item.outcome, item.err
	}

	if item.match.IsOvertime {
		s.logger.DebugContext(ctx, "overtime match merged", "file", item.filename, "end_of_game", item.match.EndOfGame)
	}
	item.finish(FileStatusMerged, "")
	return item.outcome, nil
}

func (s *IngestionService) applyMatch(ctx context.Context, tx ledger.Tx, match matchreport.Result) error {
	for _, side := range match.Teams {
		delta := s.cfg.Scoring.Delta(side.Name, side.Score, side.OpponentScore, match.IsOvertime)
		if err := tx.AddTeamTotals(ctx, delta); err != nil {
			return err
		}
		for _, line := range side.Players {
			if err := tx.AddPlayerTotals(ctx, playerstats.Totals{
				PlayerID:      line.ID,
				Name:          line.Name,
				Team:          side.Name,
				Number:        line.Number,
				Role:          line.Role,
				Goals:         line.Goals,
				Assists:       line.Assists,
				MinutesPlayed: line.Minutes,
				YellowCards:   line.YellowCards,
				RedCards:      line.RedCards,
				GamesPlayed:   line.GamesPlayed,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *IngestionService) observeFile(status string) {
	if s.metrics != nil {
		s.metrics.FileProcessed(status)
	}
}

func normalizeParseWorkerCount(value, fileCount int) int {
	if fileCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = runtime.NumCPU()
	}
	if value > maxParseWorkers {
		value = maxParseWorkers
	}
	if value > fileCount {
		value = fileCount
	}
	return value
}
