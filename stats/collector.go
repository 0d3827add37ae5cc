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

// Package stats contains interfaces and utilities relating to the collection
// of statistics from a scan run. It can be implemented with different metric
// backends (logging, Prometheus, ...) to enable monitoring of the scanner.
package stats

import "time"

// Collector is notified of events as the scan driver and governor progress.
// It can be implemented with different metric backends to enable monitoring
// of the scanner. A Collector must be safe to call from multiple goroutines:
// host and port probers across a batch all report into the same instance.
type Collector interface {
	// AfterHostProbed is called once per target after its HostResult is final.
	AfterHostProbed(ip string, runtime time.Duration, online bool)
	// AfterPortProbed is called once per port probe attempt with the probe's
	// outcome (open, closed, or timed out).
	AfterPortProbed(ip string, port int, result PortProbeResult, runtime time.Duration)
	// AfterCVEMatch is called once per fingerprinted banner after the CVE
	// index has been queried for it.
	AfterCVEMatch(m CVEMatchStats)
	// AfterBatch is called once a batch of hosts has fully completed, before
	// the governor revises the shape for the next batch.
	AfterBatch(b BatchStats)
	// AfterShapeChange is called whenever the governor adjusts the scan
	// shape, reporting the new values and the reason for the change.
	AfterShapeChange(shape Shape, reason string)
	// AfterCVEIndexBuilt is called once the CVE index finishes building (or
	// loading from cache).
	AfterCVEIndexBuilt(entries int, buckets int, fromCache bool, runtime time.Duration)
}

// Shape is the governed 4-tuple (batch size, host concurrency, port
// concurrency, socket timeout) reported to a Collector.
type Shape struct {
	BatchSize int
	Hosts     int
	Ports     int
	Timeout   time.Duration
}

// BatchStats summarizes one completed batch, the unit the governor reasons
// about.
type BatchStats struct {
	Duration  time.Duration
	Targets   int
	Completed int
	Timeouts  int
}

// NoopCollector implements Collector by doing nothing.
type NoopCollector struct{}

// AfterHostProbed implements Collector by doing nothing.
func (NoopCollector) AfterHostProbed(ip string, runtime time.Duration, online bool) {}

// AfterPortProbed implements Collector by doing nothing.
func (NoopCollector) AfterPortProbed(ip string, port int, result PortProbeResult, runtime time.Duration) {
}

// AfterCVEMatch implements Collector by doing nothing.
func (NoopCollector) AfterCVEMatch(m CVEMatchStats) {}

// AfterBatch implements Collector by doing nothing.
func (NoopCollector) AfterBatch(b BatchStats) {}

// AfterShapeChange implements Collector by doing nothing.
func (NoopCollector) AfterShapeChange(shape Shape, reason string) {}

// AfterCVEIndexBuilt implements Collector by doing nothing.
func (NoopCollector) AfterCVEIndexBuilt(entries int, buckets int, fromCache bool, runtime time.Duration) {
}
