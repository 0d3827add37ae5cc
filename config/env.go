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

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// overlayEnv applies environment variable overrides on top of cfg. Unset or
// unparseable variables are ignored and leave cfg untouched; this mirrors
// the original tool's os.environ.get(..., default) pattern, translated to
// Go's comma-ok lookups: a set, parseable value (including 0) is applied.
func overlayEnv(cfg Config) Config {
	if v, ok := lookupMode("VH_MODE"); ok {
		cfg = preset(v)
	}
	if v, ok := lookupInt("VH_MAX_HOSTS_WORKERS"); ok {
		cfg.Hosts = v
	}
	if v, ok := lookupInt("VH_MAX_PORTS_WORKERS"); ok {
		cfg.Ports = v
	}
	if v, ok := lookupFloatSeconds("VH_TIMEOUT_SOCKET"); ok {
		cfg.Timeout = v
	}
	if v, ok := lookupInt("VH_MAX_SOCKETS"); ok {
		cfg.MaxSockets = v
	}
	if v, ok := lookupInt("VH_BATCH_SIZE"); ok {
		cfg.BatchSize = v
	}
	if v, ok := lookupBool("VH_RESOLVE_HOSTNAME"); ok {
		cfg.ResolveHostname = v
	}
	if v, ok := lookupBool("VH_TCP_ONLY"); ok {
		cfg.TCPOnly = v
	}
	if v, ok := lookupBool("VH_SKIP_CVE"); ok {
		cfg.SkipCVE = v
	}
	if v, ok := lookupBool("VH_SKIP_NVD_UPDATE"); ok {
		cfg.SkipNVDUpdate = v
	}
	if v, ok := os.LookupEnv("NVD_DIR"); ok && v != "" {
		cfg.NVDDir = v
	}
	if v, ok := lookupInt("NVD_INDEX_MAX_YEARS"); ok {
		cfg.NVDIndexMaxYears = v
	}
	if v, ok := os.LookupEnv("CPE_PART_ALLOWED"); ok && v != "" {
		cfg.CPEPartAllowed = v
	}
	return cfg
}

func lookupMode(key string) (Mode, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	switch Mode(strings.ToLower(v)) {
	case ModeAuto, ModeLeve, ModeCompleto:
		return Mode(strings.ToLower(v)), true
	default:
		return "", false
	}
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupFloatSeconds(key string) (time.Duration, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}

func lookupBool(key string) (bool, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
