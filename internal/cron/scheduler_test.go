package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bher20/eratecache/internal/rates"
	"github.com/bher20/eratecache/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// neverSchedule never fires, leaving only the start-up cycle.
type neverSchedule struct{}

func (neverSchedule) Next(t time.Time) time.Time { return t.AddDate(10, 0, 0) }

func TestScheduler_RunOnStartThenStop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, markerName, `{"buildID":"v1","FileName":"rates1.json"}`)
	writeFile(t, dir, "rates1.json", `{"CAD_USD":0.98}`)

	cache := storage.NewRateCache()
	log := zaptest.NewLogger(t)
	ctrl := NewController(dir, markerName, rates.NewFileLocator(), cache, log)
	s := NewScheduler(ctrl, neverSchedule{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, true) }()

	require.Eventually(t, func() bool { return cache.CurrentVersion() == "v1" }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_TickReportsOutcome(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, markerName, `{"buildID":"v1","FileName":"missing.json"}`)

	ctrl := NewController(dir, markerName, rates.NewFileLocator(), storage.NewRateCache(), nil)
	s := NewScheduler(ctrl, neverSchedule{}, nil)

	res := s.Tick(context.Background())
	assert.Equal(t, OutcomeLoadSkipped, res.Outcome)
	assert.Error(t, res.Err)
}

func TestController_CyclesDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, markerName, `{"buildID":"v1","FileName":"rates1.json"}`)
	writeFile(t, dir, "rates1.json", `{"CAD_USD":0.98}`)

	cache := &countingCache{RateCache: storage.NewRateCache()}
	ctrl := NewController(dir, markerName, rates.NewFileLocator(), cache, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl.RunCycle(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.commits)
	assert.Equal(t, "v1", cache.CurrentVersion())
}
