package usecase

import "sync"

const defaultScanHistory = 20

// ScanRunRegistry keeps the most recent scan reports for diagnostics.
type ScanRunRegistry struct {
	mu      sync.RWMutex
	limit   int
	reports []ScanReport
}

func NewScanRunRegistry(limit int) *ScanRunRegistry {
	if limit <= 0 {
		limit = defaultScanHistory
	}
	return &ScanRunRegistry{limit: limit}
}

func (r *ScanRunRegistry) Save(report ScanReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = append(r.reports, report)
	if over := len(r.reports) - r.limit; over > 0 {
		r.reports = append([]ScanReport(nil), r.reports[over:]...)
	}
}

func (r *ScanRunRegistry) Get(runID string) (ScanReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].RunID == runID {
			return r.reports[i], true
		}
	}
	return ScanReport{}, false
}

func (r *ScanRunRegistry) Latest() (ScanReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.reports) == 0 {
		return ScanReport{}, false
	}
	return r.reports[len(r.reports)-1], true
}
