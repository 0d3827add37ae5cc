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

// Package governor implements the closed-loop controller that adjusts
// batch size, host concurrency, port concurrency, and socket timeout
// between batches, based on how long the previous batch took and how many
// of its probes timed out.
package governor

import (
	"math"
	"time"

	"github.com/anxiouscamel/verihosts/config"
)

// Thresholds are the designer-set constants driving the reduction and
// growth ladders. DefaultThresholds derives the time-based ones from the
// configured socket timeout.
type Thresholds struct {
	SlowDuration     time.Duration
	VerySlowDuration time.Duration
	FastDuration     time.Duration

	TimeoutHigh     float64
	TimeoutModerate float64
	TimeoutLow      float64

	Cooldown        int
	GoodToGrow      int
	SlowToCutHosts  int
	SlowToCutPorts  int
}

// DefaultThresholds derives the standard thresholds from the current
// socket timeout: slow = max(40s, 8T), very_slow = max(60s, 12T),
// fast = max(12s, 3T).
func DefaultThresholds(socketTimeout time.Duration) Thresholds {
	return Thresholds{
		SlowDuration:     maxDuration(40*time.Second, 8*socketTimeout),
		VerySlowDuration: maxDuration(60*time.Second, 12*socketTimeout),
		FastDuration:     maxDuration(12*time.Second, 3*socketTimeout),
		TimeoutHigh:      0.30,
		TimeoutModerate:  0.10,
		TimeoutLow:       0.05,
		Cooldown:         2,
		GoodToGrow:       3,
		SlowToCutHosts:   2,
		SlowToCutPorts:   3,
	}
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// Shape is the mutable (B, H, P, T) the governor owns and adjusts.
type Shape struct {
	BatchSize int
	Hosts     int
	Ports     int
	Timeout   time.Duration
}

// Governor tracks the running state needed to make its next decision:
// cooldown remaining, and the consecutive-good/consecutive-slow streaks.
type Governor struct {
	thresholds Thresholds
	maxSockets int

	cooldown        int
	consecutiveGood int
	consecutiveSlow int
}

// New creates a Governor with the given thresholds and the MAX_SOCKETS
// bound used to enforce H*P <= 0.85*MAX_SOCKETS after every adjustment.
func New(thresholds Thresholds, maxSockets int) *Governor {
	return &Governor{thresholds: thresholds, maxSockets: maxSockets}
}

// BatchOutcome is what the driver reports after a batch completes.
type BatchOutcome struct {
	Duration  time.Duration
	Timeouts  int
	Completed int
}

// Adjust applies one step of the controller to shape given the outcome of
// the batch just finished, and returns the shape for the next batch along
// with a human-readable reason for logging (empty if nothing changed).
func (g *Governor) Adjust(shape Shape, outcome BatchOutcome) (Shape, string) {
	if g.cooldown > 0 {
		g.cooldown--
		g.updateGoodCounter(outcome)
		return shape, ""
	}

	ratio := float64(outcome.Timeouts) / float64(maxInt(1, outcome.Completed))
	slow := outcome.Duration >= g.thresholds.SlowDuration
	verySlow := outcome.Duration >= g.thresholds.VerySlowDuration

	// Reduction ladder: the first rule whose condition holds AND whose
	// application actually changes the shape wins. A rule whose condition
	// holds but that only recomputes the value already in effect (e.g.
	// BatchSize already sitting at its floor) is a no-op and must not
	// block a later rule in the ladder from firing -- otherwise a run of
	// very-slow batches keeps "winning" on a no-op cut forever and Hosts
	// and Ports are never reduced, even as consecutiveSlow keeps climbing.
	reductions := []struct {
		applicable bool
		apply      func(Shape) Shape
		reason     string
	}{
		{
			applicable: verySlow,
			apply: func(s Shape) Shape {
				s.BatchSize = maxInt(config.MinBatch, int(math.Floor(0.85*float64(s.BatchSize))))
				return s
			},
			reason: "very slow batch: cutting batch size",
		},
		{
			applicable: slow && ratio >= g.thresholds.TimeoutModerate,
			apply: func(s Shape) Shape {
				s.BatchSize = maxInt(config.MinBatch, int(math.Floor(0.85*float64(s.BatchSize))))
				return s
			},
			reason: "slow batch with elevated timeout ratio: cutting batch size",
		},
		{
			applicable: g.consecutiveSlow >= g.thresholds.SlowToCutHosts,
			apply: func(s Shape) Shape {
				s.Hosts = maxInt(config.MinHosts, int(math.Floor(0.85*float64(s.Hosts))))
				return s
			},
			reason: "consecutive slow batches: cutting host concurrency",
		},
		{
			applicable: g.consecutiveSlow >= g.thresholds.SlowToCutPorts,
			apply: func(s Shape) Shape {
				s.Ports = maxInt(config.MinPorts, s.Ports-1)
				return s
			},
			reason: "consecutive slow batches: cutting port concurrency",
		},
		{
			applicable: ratio >= g.thresholds.TimeoutModerate && shape.Timeout < config.MaxTimeout,
			apply: func(s Shape) Shape {
				s.Timeout = minDuration(config.MaxTimeout, s.Timeout+500*time.Millisecond)
				return s
			},
			reason: "elevated timeout ratio: raising socket timeout",
		},
	}

	next, reason := shape, ""
	for _, r := range reductions {
		if !r.applicable {
			continue
		}
		if candidate := r.apply(shape); candidate != shape {
			next, reason = candidate, r.reason
			break
		}
	}

	fast := outcome.Duration <= g.thresholds.FastDuration && ratio <= g.thresholds.TimeoutLow
	changed := next != shape
	if !changed && fast {
		g.consecutiveGood++
		if g.consecutiveGood >= g.thresholds.GoodToGrow {
			next, reason = g.grow(shape)
			changed = next != shape
		}
	} else if !changed {
		g.consecutiveGood = 0
	}

	g.updateSlowCounter(slow)

	if changed {
		next = g.clamp(next)
		g.cooldown = g.thresholds.Cooldown
		g.consecutiveGood = 0
		g.consecutiveSlow = 0
	}
	return next, reason
}

// grow advances, in priority order, batch size then hosts then ports, by
// one unit.
func (g *Governor) grow(shape Shape) (Shape, string) {
	next := shape
	switch {
	case shape.BatchSize < config.MaxBatch:
		next.BatchSize++
		return next, "consecutive fast batches: growing batch size"
	case shape.Hosts < config.MaxHosts:
		next.Hosts++
		return next, "consecutive fast batches: growing host concurrency"
	case shape.Ports < config.MaxPorts:
		next.Ports++
		return next, "consecutive fast batches: growing port concurrency"
	default:
		return shape, ""
	}
}

func (g *Governor) clamp(s Shape) Shape {
	s.BatchSize = clampInt(s.BatchSize, config.MinBatch, config.MaxBatch)
	s.Hosts = clampInt(s.Hosts, config.MinHosts, config.MaxHosts)
	s.Ports = clampInt(s.Ports, config.MinPorts, config.MaxPorts)
	s.Timeout = clampDuration(s.Timeout, config.MinTimeout, config.MaxTimeout)

	for float64(s.Hosts*s.Ports) > config.MaxConcurrencyFraction*float64(g.maxSockets) {
		if s.Ports > config.MinPorts {
			s.Ports--
		} else if s.Hosts > config.MinHosts {
			s.Hosts--
		} else {
			break
		}
	}
	return s
}

func (g *Governor) updateGoodCounter(outcome BatchOutcome) {
	ratio := float64(outcome.Timeouts) / float64(maxInt(1, outcome.Completed))
	if outcome.Duration <= g.thresholds.FastDuration && ratio <= g.thresholds.TimeoutLow {
		g.consecutiveGood++
	} else {
		g.consecutiveGood = 0
	}
}

func (g *Governor) updateSlowCounter(slow bool) {
	if slow {
		g.consecutiveSlow++
	} else {
		g.consecutiveSlow = 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
