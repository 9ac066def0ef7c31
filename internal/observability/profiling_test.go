package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
)

func TestStartProfiling_Disabled(t *testing.T) {
	p, err := StartProfiling(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("start profiling: %v", err)
	}
	if addr := p.PprofAddr(); addr != "" {
		t.Fatalf("expected no pprof listener, got %q", addr)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop profiling: %v", err)
	}
}

func TestStartProfiling_PprofServesIndex(t *testing.T) {
	p, err := StartProfiling(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start profiling: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := p.Stop(ctx); err != nil {
			t.Errorf("stop profiling: %v", err)
		}
	})

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + p.PprofAddr() + "/debug/pprof/")
	if err != nil {
		t.Fatalf("get pprof index: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "goroutine") {
		t.Fatalf("unexpected pprof index: %d", resp.StatusCode)
	}
}

func TestStartProfiling_BindFailure(t *testing.T) {
	if _, err := StartProfiling(config.Config{PprofEnabled: true, PprofAddr: "256.0.0.1:bad"}, logging.NewNop()); err == nil {
		t.Fatal("expected bind error for an invalid address")
	}
}
