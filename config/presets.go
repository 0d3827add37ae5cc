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
	"runtime"
	"time"

	"github.com/anxiouscamel/verihosts/budget"
)

// preset resolves a Mode to its starting Config. "auto" picks "leve" on
// Windows (where the ping/ARP subprocess wrappers are slower to spawn) and
// "completo" everywhere else.
func preset(mode Mode) Config {
	switch mode {
	case ModeLeve:
		return leve()
	case ModeCompleto:
		return completo()
	case ModeAuto, "":
		if runtime.GOOS == "windows" {
			return leve()
		}
		return completo()
	default:
		return completo()
	}
}

func leve() Config {
	return Config{
		Mode:             ModeLeve,
		BatchSize:        8,
		Hosts:            6,
		Ports:            3,
		Timeout:          2000 * time.Millisecond,
		MaxSockets:       budget.DefaultMaxSockets(),
		ResolveHostname:  false,
		TCPOnly:          true,
		SkipCVE:          true,
		SkipNVDUpdate:    false,
		Adaptive:         true,
		NVDDir:           "nvd_data",
		NVDIndexMaxYears: 5,
		CPEPartAllowed:   "a",
	}
}

func completo() Config {
	return Config{
		Mode:             ModeCompleto,
		BatchSize:        10,
		Hosts:            8,
		Ports:            4,
		Timeout:          3000 * time.Millisecond,
		MaxSockets:       budget.DefaultMaxSockets(),
		ResolveHostname:  true,
		TCPOnly:          false,
		SkipCVE:          false,
		SkipNVDUpdate:    false,
		Adaptive:         true,
		NVDDir:           "nvd_data",
		NVDIndexMaxYears: 5,
		CPEPartAllowed:   "a",
	}
}
