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

// Package sysnet wraps the operating system's ping and arp command-line
// tools. Neither protocol is exposed as a raw socket API without elevated
// privileges on every platform this tool targets, so the original system's
// approach of shelling out and parsing human-readable output is kept.
package sysnet

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// PingResult is what a single ping invocation recovers from the reply.
type PingResult struct {
	Alive     bool
	TTL       int // 0 if not recovered
	LatencyMs float64
}

var (
	ttlPattern     = regexp.MustCompile(`(?i)ttl[=:]\s*(\d+)`)
	latencyPattern = regexp.MustCompile(`(?i)(?:time|tempo|tiempo)[=<]\s*([0-9.]+)\s*ms`)
)

// Ping invokes the platform ping binary once against ip with roughly a
// one-second probe and a three-second wall-clock bound, then parses its
// stdout for TTL and round-trip time. Output matching is case-insensitive
// and tolerates the English, Portuguese, and Spanish wordings the reference
// tool was observed to encounter ("time"/"tempo"/"tiempo").
func Ping(ctx context.Context, ip string) PingResult {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	cmd := pingCommand(ctx, ip)
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return PingResult{Alive: false}
	}
	return parsePingOutput(string(out))
}

func pingCommand(ctx context.Context, ip string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "ping", "-n", "1", "-w", "1000", ip)
	}
	return exec.CommandContext(ctx, "ping", "-c", "1", "-W", "1", ip)
}

func parsePingOutput(out string) PingResult {
	result := PingResult{}

	if m := ttlPattern.FindStringSubmatch(out); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.TTL = n
			result.Alive = true
		}
	}
	if m := latencyPattern.FindStringSubmatch(out); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.LatencyMs = f
			result.Alive = true
		}
	}

	lower := strings.ToLower(out)
	if strings.Contains(lower, "0 received") || strings.Contains(lower, "0 recebidos") ||
		strings.Contains(lower, "100% packet loss") || strings.Contains(lower, "100% perda") ||
		strings.Contains(lower, "destination host unreachable") || strings.Contains(lower, "request timed out") {
		result.Alive = false
	}
	return result
}

// String renders a PingResult for debug logging.
func (p PingResult) String() string {
	if !p.Alive {
		return "offline"
	}
	return fmt.Sprintf("alive ttl=%d latency=%.1fms", p.TTL, p.LatencyMs)
}
