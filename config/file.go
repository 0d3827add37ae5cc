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
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileOverrides mirrors Config but with pointer fields, so a TOML file only
// needs to set the keys it wants to override. Absent keys leave the preset
// value untouched.
type fileOverrides struct {
	Mode             *string  `toml:"mode"`
	BatchSize        *int     `toml:"batch_size"`
	Hosts            *int     `toml:"max_hosts_workers"`
	Ports            *int     `toml:"max_ports_workers"`
	TimeoutSeconds   *float64 `toml:"timeout_socket"`
	MaxSockets       *int     `toml:"max_sockets"`
	ResolveHostname  *bool    `toml:"resolve_hostname"`
	TCPOnly          *bool    `toml:"tcp_only"`
	SkipCVE          *bool    `toml:"skip_cve"`
	SkipNVDUpdate    *bool    `toml:"skip_nvd_update"`
	Adaptive         *bool    `toml:"adaptive"`
	NVDDir           *string  `toml:"nvd_dir"`
	NVDIndexMaxYears *int     `toml:"nvd_index_max_years"`
	CPEPartAllowed   *string  `toml:"cpe_part_allowed"`
}

// overlayTOMLFile decodes path as TOML and overlays any keys it sets onto
// cfg. A missing file is an error; unknown keys are rejected so a typo in
// the config file surfaces immediately instead of silently doing nothing.
func overlayTOMLFile(cfg Config, path string) (Config, error) {
	var ov fileOverrides
	meta, err := toml.DecodeFile(path, &ov)
	if err != nil {
		return cfg, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}

	if ov.Mode != nil {
		cfg = preset(Mode(*ov.Mode))
	}
	if ov.BatchSize != nil {
		cfg.BatchSize = *ov.BatchSize
	}
	if ov.Hosts != nil {
		cfg.Hosts = *ov.Hosts
	}
	if ov.Ports != nil {
		cfg.Ports = *ov.Ports
	}
	if ov.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*ov.TimeoutSeconds * float64(time.Second))
	}
	if ov.MaxSockets != nil {
		cfg.MaxSockets = *ov.MaxSockets
	}
	if ov.ResolveHostname != nil {
		cfg.ResolveHostname = *ov.ResolveHostname
	}
	if ov.TCPOnly != nil {
		cfg.TCPOnly = *ov.TCPOnly
	}
	if ov.SkipCVE != nil {
		cfg.SkipCVE = *ov.SkipCVE
	}
	if ov.SkipNVDUpdate != nil {
		cfg.SkipNVDUpdate = *ov.SkipNVDUpdate
	}
	if ov.Adaptive != nil {
		cfg.Adaptive = *ov.Adaptive
	}
	if ov.NVDDir != nil {
		cfg.NVDDir = *ov.NVDDir
	}
	if ov.NVDIndexMaxYears != nil {
		cfg.NVDIndexMaxYears = *ov.NVDIndexMaxYears
	}
	if ov.CPEPartAllowed != nil {
		cfg.CPEPartAllowed = *ov.CPEPartAllowed
	}
	return cfg, nil
}
