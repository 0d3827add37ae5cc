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

// Package version provides a tolerant comparator for the free-form version
// strings found in service banners and NVD CPE entries ("2.4.49", "8.2p1",
// "1.24.0-1ubuntu1"). It never fails to parse: a string with no leading
// digits still yields a Version, just one that can only be compared for
// literal equality.
package version

import (
	"math/big"
)

// components is a sortable, arbitrary-length numeric version prefix.
// Missing trailing components compare as zero, so "1.2" == "1.2.0".
type components []*big.Int

func (c *components) fetch(n int) *big.Int {
	if len(*c) <= n {
		return big.NewInt(0)
	}
	return (*c)[n]
}

func (c *components) cmp(b components) int {
	n := max(len(*c), len(b))
	for i := range n {
		if diff := c.fetch(i).Cmp(b.fetch(i)); diff != 0 {
			return diff
		}
	}
	return 0
}

// Version is a parsed, tolerant version string. The zero value is not
// usable; construct one with Parse.
type Version struct {
	raw        string
	components components
	// numeric is true once at least one leading numeric component was
	// found. When false, Version only supports literal equality.
	numeric bool
}

// Parse extracts the leading dotted-numeric prefix of str (up to four
// components) and discards everything after it -- patch letters, distro
// suffixes, build metadata. Parse never returns an error: a string with no
// leading digits still produces a Version, it just can't be ordered against
// anything, only compared for literal equality.
func Parse(str string) Version {
	parsed := parseSemverLike(str, maxComponents)
	return Version{
		raw:        str,
		components: parsed.Components,
		numeric:    len(parsed.Components) > 0,
	}
}

// String returns the original, unparsed version string.
func (v Version) String() string {
	return v.raw
}

// Equal reports tolerant equality between v and other: when both parse
// numerically, only the numeric components are compared, so "8.2" and
// "8.2p1" are equal. Otherwise it falls back to literal string comparison.
func (v Version) Equal(other string) bool {
	w := Parse(other)
	if v.numeric && w.numeric {
		return v.components.cmp(w.components) == 0
	}
	return v.raw == other
}

// Compare returns the sort order of v relative to other (-1, 0, +1) along
// with ok=true, when both sides parsed numerically. ok=false means the
// comparison "does not satisfy" -- callers must not treat result as
// meaningful in that case.
func (v Version) Compare(other string) (result int, ok bool) {
	w := Parse(other)
	if !v.numeric || !w.numeric {
		return 0, false
	}
	return v.components.cmp(w.components), true
}
