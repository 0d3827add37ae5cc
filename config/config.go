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

// Package config builds the single immutable Config value the scan driver
// is threaded with. It replaces the original system's global environment
// lookups with one value constructed once at startup: a mode preset,
// overlaid with an optional TOML file, overlaid with environment variables,
// all clamped to the same safe ranges the governor itself enforces.
package config

import (
	"time"

	"github.com/anxiouscamel/verihosts/budget"
)

// Mode selects a preset: the starting batch size, host and port
// concurrency, and socket timeout, plus which optional features (hostname
// resolution, TCP-only probing, CVE matching) run.
type Mode string

// The three supported modes.
const (
	ModeAuto     Mode = "auto"
	ModeLeve     Mode = "leve"
	ModeCompleto Mode = "completo"
)

// Governor bounds, shared with package governor so Config and the adaptive
// controller never disagree about legal shapes.
const (
	MinBatch = 6
	MaxBatch = 16
	MinHosts = 4
	MaxHosts = 12
	MinPorts = 2
	MaxPorts = 6

	MinTimeout = 1500 * time.Millisecond
	MaxTimeout = 5000 * time.Millisecond

	// MaxConcurrencyFraction bounds Hosts*Ports against MaxSockets.
	MaxConcurrencyFraction = 0.85
)

// Config is the immutable configuration threaded through the driver for the
// whole run. Construct it with Resolve.
type Config struct {
	Mode Mode

	// Shape seed values; the governor owns further adjustment at runtime.
	BatchSize  int
	Hosts      int
	Ports      int
	Timeout    time.Duration
	MaxSockets int

	ResolveHostname bool
	TCPOnly         bool
	SkipCVE         bool
	SkipNVDUpdate   bool
	Adaptive        bool

	NVDDir           string
	NVDIndexMaxYears int
	CPEPartAllowed   string
}

// Resolve builds the final Config: start from the mode preset (resolving
// "auto" for the current platform), overlay an optional TOML file, overlay
// environment variables, then clamp everything to its safe range.
func Resolve(mode Mode, tomlPath string) (Config, error) {
	cfg := preset(mode)

	if tomlPath != "" {
		var err error
		cfg, err = overlayTOMLFile(cfg, tomlPath)
		if err != nil {
			return Config{}, err
		}
	}

	cfg = overlayEnv(cfg)
	cfg = clampConfig(cfg)
	return cfg, nil
}

func clampConfig(c Config) Config {
	c.BatchSize = clampInt(c.BatchSize, MinBatch, MaxBatch)
	c.Hosts = clampInt(c.Hosts, MinHosts, MaxHosts)
	c.Ports = clampInt(c.Ports, MinPorts, MaxPorts)
	c.Timeout = clampDuration(c.Timeout, MinTimeout, MaxTimeout)
	c.MaxSockets = clampInt(c.MaxSockets, 64, 4096)

	// H*P <= 0.85*MaxSockets, shedding ports first then hosts.
	for float64(c.Hosts*c.Ports) > MaxConcurrencyFraction*float64(c.MaxSockets) {
		if c.Ports > MinPorts {
			c.Ports--
		} else if c.Hosts > MinHosts {
			c.Hosts--
		} else {
			break
		}
	}

	if c.NVDIndexMaxYears <= 0 {
		c.NVDIndexMaxYears = 5
	}
	if c.CPEPartAllowed == "" {
		c.CPEPartAllowed = "a"
	}
	if c.NVDDir == "" {
		c.NVDDir = "nvd_data"
	}
	if c.MaxSockets == 0 {
		c.MaxSockets = budget.DefaultMaxSockets()
	}
	return c
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
