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

package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/anxiouscamel/verihosts/governor"
	"github.com/anxiouscamel/verihosts/hostprobe"
	"github.com/anxiouscamel/verihosts/stats"
)

type fakeProber struct {
	delay func(ip string) time.Duration
}

func (f fakeProber) Probe(ctx context.Context, ip string) hostprobe.HostResult {
	if f.delay != nil {
		select {
		case <-time.After(f.delay(ip)):
		case <-ctx.Done():
			return hostprobe.HostResult{IP: ip, Status: hostprobe.StatusOffline, LatencyMs: -1, Error: "ctx done"}
		}
	}
	return hostprobe.HostResult{IP: ip, Status: hostprobe.StatusOnline, LatencyMs: 1}
}

func TestRunProducesOneResultPerTarget(t *testing.T) {
	targets := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5"}
	d := New(Options{
		NewProber: func(governor.Shape) Prober { return fakeProber{} },
	})
	shape := governor.Shape{BatchSize: 2, Hosts: 2, Ports: 1, Timeout: time.Second}
	results := d.Run(context.Background(), targets, shape)

	if len(results) != len(targets) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(targets))
	}
	for _, ip := range targets {
		if _, ok := results[ip]; !ok {
			t.Errorf("missing result for %s", ip)
		}
	}
}

func TestRunAppliesWallClockBoundPerHost(t *testing.T) {
	targets := []string{"10.0.0.1"}
	d := New(Options{
		NewProber: func(governor.Shape) Prober {
			return fakeProber{delay: func(string) time.Duration { return time.Hour }}
		},
	})
	shape := governor.Shape{BatchSize: 1, Hosts: 1, Ports: 1, Timeout: 10 * time.Millisecond}

	bound := 2*shape.Timeout + 5*time.Second
	start := time.Now()
	results := d.Run(context.Background(), targets, shape)
	if elapsed := time.Since(start); elapsed > bound+time.Second {
		t.Fatalf("Run took too long: %v, want bounded by 2T+5s (%v)", elapsed, bound)
	}
	r := results["10.0.0.1"]
	if r.Status != hostprobe.StatusOffline || r.Error == "" {
		t.Errorf("result = %+v, want synthetic OFFLINE record with an error", r)
	}
}

func TestRunInvokesGovernorBetweenBatches(t *testing.T) {
	targets := make([]string, 10)
	for i := range targets {
		targets[i] = "10.0.0.1"
	}
	g := governor.New(governor.DefaultThresholds(time.Second), 160)
	rec := &shapeChangeRecorder{}
	d := New(Options{
		NewProber: func(governor.Shape) Prober { return fakeProber{} },
		Governor:  g,
		Collector: rec,
	})
	shape := governor.Shape{BatchSize: 2, Hosts: 2, Ports: 1, Timeout: time.Second}
	d.Run(context.Background(), targets, shape)
	// The fake prober answers instantly, so every batch is fast; after the
	// third batch the governor grows the shape (batch size 2 -> 3, clamped up
	// to the minimum of 6), which is reported before the fourth batch runs.
	if len(rec.reasons) == 0 {
		t.Error("governor never changed the shape between batches, want a growth step after three fast batches")
	}
}

type shapeChangeRecorder struct {
	stats.NoopCollector
	reasons []string
}

func (r *shapeChangeRecorder) AfterShapeChange(shape stats.Shape, reason string) {
	r.reasons = append(r.reasons, reason)
}

func TestRunTwiceYieldsEqualResults(t *testing.T) {
	targets := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	newDriver := func() *Driver {
		return New(Options{
			NewProber: func(governor.Shape) Prober { return fakeProber{} },
		})
	}
	shape := governor.Shape{BatchSize: 2, Hosts: 2, Ports: 1, Timeout: time.Second}

	first := newDriver().Run(context.Background(), targets, shape)
	second := newDriver().Run(context.Background(), targets, shape)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs from first (-first +second):\n%s", diff)
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	targets := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := New(Options{
		NewProber: func(governor.Shape) Prober { return fakeProber{} },
	})
	shape := governor.Shape{BatchSize: 2, Hosts: 2, Ports: 1, Timeout: time.Second}
	results := d.Run(ctx, targets, shape)
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 when ctx is already canceled", len(results))
	}
}
