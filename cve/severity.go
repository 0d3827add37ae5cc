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

package cve

import (
	"strings"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"

	"github.com/tidwall/gjson"
)

// cvssScore recovers a CVSS v3.x base score from a CVE item's "impact" (the
// legacy feed layout) or "metrics" (the current layout) block. It returns 0
// if no usable vector is present; that is never confused with a real score
// because NVD never assigns a base score of exactly 0 to a listed CVE.
func cvssScore(item gjson.Result) float64 {
	candidates := []string{
		"impact.baseMetricV3.cvssV3.vectorString",
		"metrics.cvssMetricV31.0.cvssData.vectorString",
		"metrics.cvssMetricV30.0.cvssData.vectorString",
	}
	for _, path := range candidates {
		vector := item.Get(path).String()
		if vector == "" {
			continue
		}
		if score, ok := parseCVSSVector(vector); ok {
			return score
		}
	}
	return 0
}

func parseCVSSVector(vector string) (float64, bool) {
	switch {
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		vec, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return vec.BaseScore(), true
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		vec, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return vec.BaseScore(), true
	default:
		return 0, false
	}
}
