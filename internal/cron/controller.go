package cron

import (
	"context"
	"sync"
	"time"

	"github.com/bher20/eratecache/internal/metrics"
	"github.com/bher20/eratecache/internal/rates"
	"github.com/bher20/eratecache/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Outcome is how a polling cycle ended.
type Outcome string

const (
	OutcomeMarkerAbsent   Outcome = "marker_absent"
	OutcomeUnchanged      Outcome = "unchanged"
	OutcomeLoadSkipped    Outcome = "load_skipped"
	OutcomeCommitted      Outcome = "committed"
	OutcomeCommitRejected Outcome = "commit_rejected"
	OutcomeCanceled       Outcome = "canceled"
)

// Mutated reports whether the cycle changed the cache.
func (o Outcome) Mutated() bool {
	return o == OutcomeCommitted || o == OutcomeCommitRejected
}

// CycleResult describes one finished polling cycle.
type CycleResult struct {
	ID       string
	Outcome  Outcome
	Previous string
	BuildID  string
	DataFile string
	// Err is the absorbed failure, if any. It never stops polling.
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Cache is the part of the rate cache a polling cycle needs.
type Cache interface {
	CurrentVersion() string
	Commit(version string, raw []byte) error
	Snapshot() storage.Snapshot
}

// Controller runs polling cycles against one directory.
type Controller struct {
	dir        string
	markerName string
	locator    rates.Locator
	loader     *rates.Loader
	cache      Cache
	log        *zap.Logger

	mu sync.Mutex
}

// NewController builds a Controller polling dir for markerName.
func NewController(dir, markerName string, loc rates.Locator, cache Cache, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		dir:        dir,
		markerName: markerName,
		locator:    loc,
		loader:     rates.NewLoader(loc),
		cache:      cache,
		log:        log.With(zap.String("component", "poller"), zap.String("dir", dir)),
	}
}

// Dir returns the polled directory.
func (c *Controller) Dir() string { return c.dir }

// RunCycle performs one polling cycle. Cycles never overlap: a call blocks
// until any in-flight cycle has finished. Every failure is absorbed into the
// result so the caller can simply try again on the next tick.
func (c *Controller) RunCycle(ctx context.Context) CycleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := CycleResult{ID: uuid.NewString(), Started: time.Now()}
	log := c.log.With(zap.String("cycle", res.ID))

	c.runCycle(ctx, log, &res)

	res.Duration = time.Since(res.Started)
	metrics.RecordCycle(string(res.Outcome))
	if res.Outcome.Mutated() {
		snap := c.cache.Snapshot()
		metrics.UpdateCacheMetrics(len(snap.Rates), snap.CommittedAt)
	}
	return res
}

func (c *Controller) runCycle(ctx context.Context, log *zap.Logger, res *CycleResult) {
	res.Previous = c.cache.CurrentVersion()

	// locating marker
	if !c.locator.Exists(c.dir, c.markerName) {
		log.Debug("marker absent, nothing to do", zap.String("marker", c.markerName))
		res.Outcome = OutcomeMarkerAbsent
		return
	}

	// extracting version
	marker, err := rates.ReadMarker(c.locator, c.dir, c.markerName)
	switch {
	case errors.Is(err, rates.ErrNotFound):
		log.Debug("marker vanished before it could be read", zap.Error(err))
		res.Outcome = OutcomeMarkerAbsent
		res.Err = err
		return
	case err != nil:
		log.Warn("malformed marker, using default build id", zap.Error(err))
		marker = rates.Marker{BuildID: rates.DefaultBuildID}
		res.Err = err
	}
	res.BuildID = marker.BuildID

	// comparing version
	if marker.BuildID == res.Previous {
		log.Debug("build id unchanged, taking no action", zap.String("build_id", marker.BuildID))
		res.Outcome = OutcomeUnchanged
		return
	}
	log.Info("build id changed",
		zap.String("previous", res.Previous),
		zap.String("build_id", marker.BuildID),
	)

	if err := ctx.Err(); err != nil {
		res.Outcome = OutcomeCanceled
		res.Err = err
		return
	}

	// loading data
	if !marker.HasFileName {
		log.Error("marker does not name a data file, keeping current rates")
		res.Outcome = OutcomeLoadSkipped
		return
	}
	res.DataFile = marker.FileName
	payload, err := c.loader.Load(c.dir, marker.FileName)
	if err != nil {
		log.Error("data file unusable, keeping current rates",
			zap.String("file", marker.FileName),
			zap.Error(err),
		)
		res.Outcome = OutcomeLoadSkipped
		res.Err = err
		return
	}

	if err := ctx.Err(); err != nil {
		res.Outcome = OutcomeCanceled
		res.Err = err
		return
	}

	// committing
	if err := c.cache.Commit(marker.BuildID, payload.Raw); err != nil {
		log.Error("commit rejected, cache reset to empty",
			zap.String("build_id", marker.BuildID),
			zap.Error(err),
		)
		metrics.CacheResetsTotal.Inc()
		res.Outcome = OutcomeCommitRejected
		res.Err = err
		return
	}
	log.Info("exchange rates updated",
		zap.String("build_id", marker.BuildID),
		zap.String("file", marker.FileName),
		zap.Int("pairs", len(payload.Table)),
	)
	res.Outcome = OutcomeCommitted
}
