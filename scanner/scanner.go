// Copyright 2025 The verihosts Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scanner drives the batch loop: slice targets, fan out a bounded
// group of host probers, collect results within a wall-clock bound, report
// progress, and hand the batch's outcome to the governor before sizing the
// next batch.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anxiouscamel/verihosts/governor"
	"github.com/anxiouscamel/verihosts/hostprobe"
	"github.com/anxiouscamel/verihosts/log"
	"github.com/anxiouscamel/verihosts/stats"
)

// ProgressFunc is invoked after every completed host, with the running
// total count and the count within the current batch. completedTotal never
// resets across a run; completedBatch resets at each batch boundary.
type ProgressFunc func(completedTotal, totalTargets, completedBatch, batchSize int)

// Prober is the subset of *hostprobe.Prober the driver needs, factored out
// as an interface so tests can substitute a fake without real sockets.
type Prober interface {
	Probe(ctx context.Context, ip string) hostprobe.HostResult
}

// Driver runs the batch loop described by the scan driver component.
type Driver struct {
	newProber func(governor.Shape) Prober
	governor  *governor.Governor
	collector stats.Collector
	progress  ProgressFunc
}

// Options configures a Driver.
type Options struct {
	// NewProber builds a fresh Prober for the shape the governor has
	// selected for the upcoming batch. It is called once per batch so that
	// a governor-driven change in P or T takes effect immediately.
	NewProber func(governor.Shape) Prober
	Governor  *governor.Governor
	Collector stats.Collector
	Progress  ProgressFunc
}

// New creates a Driver.
func New(opts Options) *Driver {
	if opts.Collector == nil {
		opts.Collector = stats.NoopCollector{}
	}
	if opts.Progress == nil {
		opts.Progress = func(int, int, int, int) {}
	}
	return &Driver{
		newProber: opts.NewProber,
		governor:  opts.Governor,
		collector: opts.Collector,
		progress:  opts.Progress,
	}
}

// Run drives batches over targets until the list is exhausted or ctx is
// canceled, and returns one HostResult per distinct target it reached: a
// run canceled at a batch boundary returns only the batches completed so
// far. Each call is
// tagged with a fresh run ID so its governor log lines can be told apart
// from a concurrent Run's when the driver is embedded in a long-lived
// process rather than invoked once per CLI execution.
func (d *Driver) Run(ctx context.Context, targets []string, initial governor.Shape) map[string]hostprobe.HostResult {
	runID := uuid.New().String()
	results := make(map[string]hostprobe.HostResult, len(targets))
	shape := initial
	completedTotal := 0

	log.Infof("scan %s: starting, %d targets, initial shape %+v", runID, len(targets), shape)

	for offset := 0; offset < len(targets); offset += shape.BatchSize {
		select {
		case <-ctx.Done():
			return results
		default:
		}

		end := offset + shape.BatchSize
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[offset:end]

		outcome, batchResults := d.runBatch(ctx, batch, shape, &completedTotal, len(targets))
		for ip, r := range batchResults {
			results[ip] = r
		}

		d.collector.AfterBatch(stats.BatchStats{
			Duration:  outcome.Duration,
			Targets:   len(batch),
			Completed: outcome.Completed,
			Timeouts:  outcome.Timeouts,
		})

		if d.governor != nil {
			next, reason := d.governor.Adjust(shape, outcome)
			if reason != "" {
				log.Infof("scan %s: governor: %s -> %+v", runID, reason, next)
				d.collector.AfterShapeChange(stats.Shape{
					BatchSize: next.BatchSize,
					Hosts:     next.Hosts,
					Ports:     next.Ports,
					Timeout:   next.Timeout,
				}, reason)
			}
			shape = next
		}
	}
	log.Infof("scan %s: finished, %d results", runID, len(results))
	return results
}

func (d *Driver) runBatch(ctx context.Context, batch []string, shape governor.Shape, completedTotal *int, totalTargets int) (governor.BatchOutcome, map[string]hostprobe.HostResult) {
	prober := d.newProber(shape)
	wallBound := 2*shape.Timeout + 5*time.Second

	type hostOutcome struct {
		ip     string
		result hostprobe.HostResult
	}
	out := make(chan hostOutcome, len(batch))
	sem := make(chan struct{}, max(1, shape.Hosts))

	start := time.Now()
	for _, ip := range batch {
		sem <- struct{}{}
		go func(ip string) {
			defer func() { <-sem }()
			out <- hostOutcome{ip: ip, result: d.probeWithBound(ctx, prober, ip, wallBound)}
		}(ip)
	}

	results := make(map[string]hostprobe.HostResult, len(batch))
	timeouts := 0
	completedBatch := 0
	for i := 0; i < len(batch); i++ {
		r := <-out
		results[r.ip] = r.result
		if r.result.Error != "" {
			timeouts++
		}
		completedBatch++
		*completedTotal++
		d.progress(*completedTotal, totalTargets, completedBatch, len(batch))
	}

	return governor.BatchOutcome{
		Duration:  time.Since(start),
		Timeouts:  timeouts,
		Completed: completedBatch,
	}, results
}

// probeWithBound runs prober.Probe but never lets it run past bound; a host
// whose probe exceeds that wall time yields a synthetic OFFLINE record
// carrying an error string, and counts as a timeout for the governor.
func (d *Driver) probeWithBound(ctx context.Context, prober Prober, ip string, bound time.Duration) hostprobe.HostResult {
	boundedCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	done := make(chan hostprobe.HostResult, 1)
	go func() {
		done <- prober.Probe(boundedCtx, ip)
	}()

	select {
	case r := <-done:
		return r
	case <-boundedCtx.Done():
		return hostprobe.HostResult{
			IP:        ip,
			Status:    hostprobe.StatusOffline,
			LatencyMs: -1,
			Error:     fmt.Sprintf("probe exceeded wall bound of %s", bound),
		}
	}
}
