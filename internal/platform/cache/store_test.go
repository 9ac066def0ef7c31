package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"Alpha", "Bravo"}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	var mismatches atomic.Int32

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := Load(context.Background(), store, "standings", loader)
			if err != nil || len(v) != 2 {
				mismatches.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := mismatches.Load(); got != 0 {
		t.Fatalf("%d workers saw an unexpected value", got)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "board:top_scorers:10", 1)
	store.Set(ctx, "board:most_minutes:5", 2)
	store.Set(ctx, "standings", 3)

	if removed := store.DeletePrefix(ctx, "board:"); removed != 2 {
		t.Fatalf("removed=%d want=2", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", store.Len())
	}
}

func TestLoad_TypeMismatch(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(context.Background(), "k", "text")

	_, err := Load(context.Background(), store, "k", func(context.Context) (int, error) { return 1, nil })
	if err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestStore_GetOrLoad_DropsLoadInvalidatedMidway(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan int, 1)
	go func() {
		v, _ := Load(ctx, store, "standings", func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()

	<-started
	store.DeletePrefix(ctx, "standings")
	close(release)

	if got := <-done; got != 1 {
		t.Fatalf("in-flight caller got %d, want 1", got)
	}
	if _, ok := store.Get(ctx, "standings"); ok {
		t.Fatalf("load started before invalidation must not be cached")
	}
	if store.Generation() != 1 {
		t.Fatalf("generation=%d want=1", store.Generation())
	}

	v, err := Load(ctx, store, "standings", func(context.Context) (int, error) { return 2, nil })
	if err != nil || v != 2 {
		t.Fatalf("fresh load=(%d,%v) want=(2,nil)", v, err)
	}
	if cached, ok := store.Get(ctx, "standings"); !ok || cached != 2 {
		t.Fatalf("expected fresh load cached, got %v (%v)", cached, ok)
	}
}
