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

package version

import (
	"math/big"
	"strings"
)

// maxComponents bounds how many dotted numeric components Parse keeps.
// "1.2.3.4.5" still only compares on the first four.
const maxComponents = 4

// semverLikeVersion is the leading dotted-numeric prefix of a version
// string, with everything after it (patch letters, distro suffixes, build
// metadata) collapsed into an ignored tail.
type semverLikeVersion struct {
	Components components
}

// parseSemverLike walks line left to right, collecting a run of digits
// separated by '.' as numeric components; the first character that is
// neither a digit nor '.' ends the scan and everything from there on is
// discarded. This is deliberately permissive: "8.2p1" yields [8, 2],
// "1.24.0-1ubuntu1" yields [1, 24, 0].
func parseSemverLike(line string, maxComponents int) semverLikeVersion {
	var comps components

	line = strings.TrimPrefix(line, "v")

	current := ""
	for _, c := range line {
		if isASCIIDigit(c) {
			current += string(c)
			continue
		}
		if current != "" {
			n, _ := new(big.Int).SetString(current, 10)
			comps = append(comps, n)
			current = ""
		}
		if c == '.' {
			continue
		}
		// anything else starts the discarded tail (patch letter, distro
		// suffix, build metadata, ...).
		break
	}
	if current != "" {
		n, _ := new(big.Int).SetString(current, 10)
		comps = append(comps, n)
	}

	if maxComponents >= 0 && len(comps) > maxComponents {
		comps = comps[:maxComponents]
	}

	return semverLikeVersion{Components: comps}
}
