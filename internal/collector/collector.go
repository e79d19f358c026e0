// Package collector schedules periodic scrapes of the monitoring endpoint
// and keeps the resulting flat records in memory for the API to serve.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/statflat/internal/flatten"
	"github.com/dgallion1/statflat/internal/monitor"
	"github.com/dgallion1/statflat/internal/record"
)

// Collector runs the fetch-structure-flatten cycle on a fixed interval.
type Collector struct {
	client   *monitor.Client
	store    *SnapshotStore
	latency  *FetchLatency
	log      *slog.Logger
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a collector polling at interval and retaining historySize
// snapshots.
func New(client *monitor.Client, log *slog.Logger, interval time.Duration, historySize int) *Collector {
	return &Collector{
		client:   client,
		store:    NewSnapshotStore(historySize),
		latency:  NewFetchLatency(time.Hour),
		log:      log,
		interval: interval,
	}
}

// Start launches the scrape loop. The first collection happens immediately
// so the API has data as soon as the endpoint answers.
func (c *Collector) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		if _, err := c.Collect(runCtx); err != nil {
			c.log.Error("initial collection failed", "error", err)
		}

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if _, err := c.Collect(runCtx); err != nil {
					c.log.Error("collection failed", "error", err)
				}
			}
		}
	}()
}

// Stop cancels the scrape loop and waits for it to exit.
func (c *Collector) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Collect performs one synchronous scrape cycle. Retryable fetch failures
// are retried with backoff; a cycle that still fails stores nothing, so the
// previous snapshot stays available.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	var tree *record.Record
	var err error

	start := time.Now()
	for attempt := 0; attempt < MaxRetries; attempt++ {
		tree, err = c.client.Fetch(ctx)
		if err == nil || !IsRetryable(err) {
			break
		}
		c.log.Warn("retryable fetch error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	duration := time.Since(start)
	c.latency.Record(duration.Milliseconds())

	snap := &Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: start,
		Duration:  duration,
		Tree:      tree,
		Flat:      flatten.Flatten(tree),
	}
	c.store.Put(snap)
	c.log.Info("collected snapshot",
		"snapshot_id", snap.ID,
		"fields", snap.Flat.Len(),
		"duration_ms", duration.Milliseconds(),
	)
	return snap, nil
}

// Latest returns the most recent snapshot, or nil before the first
// successful collection.
func (c *Collector) Latest() *Snapshot {
	return c.store.Latest()
}

// History returns retained snapshots, newest first.
func (c *Collector) History() []*Snapshot {
	return c.store.History()
}

// Latency returns aggregate fetch-latency figures.
func (c *Collector) Latency() LatencySnapshot {
	return c.latency.Snapshot()
}
