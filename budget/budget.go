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

// Package budget provides a process-wide counting semaphore bounding the
// number of TCP sockets the scanner holds open at any instant. Every
// component that dials out -- the port prober, the banner collector, the
// TLS handshake -- must acquire a permit before it calls net.Dial and
// release it on every exit path, including error and timeout.
//
// The OS ping subprocess and ARP lookup are not TCP sockets and are not
// counted against this budget.
package budget

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Default platform permit counts, before the [64, hardMax] clamp.
const (
	defaultWindows = 128
	defaultOther   = 160
	minSockets     = 64
	hardMax        = 4096
)

// Budget is a counting semaphore bounding live sockets.
type Budget struct {
	sem   *semaphore.Weighted
	limit int
}

// New creates a Budget with the given number of permits, clamped to
// [64, hardMax].
func New(maxSockets int) *Budget {
	maxSockets = clamp(maxSockets, minSockets, hardMax)
	return &Budget{
		sem:   semaphore.NewWeighted(int64(maxSockets)),
		limit: maxSockets,
	}
}

// DefaultMaxSockets returns the platform default permit count (before any
// user override), 128 on Windows and 160 elsewhere.
func DefaultMaxSockets() int {
	if runtime.GOOS == "windows" {
		return defaultWindows
	}
	return defaultOther
}

// Limit returns the configured number of permits.
func (b *Budget) Limit() int {
	return b.limit
}

// Acquire blocks until a socket permit is available or ctx is done.
func (b *Budget) Acquire(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

// Release returns a permit to the budget. Callers must call Release exactly
// once for every successful Acquire, on every exit path.
func (b *Budget) Release() {
	b.sem.Release(1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
