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

// Range describes a version-range CPE applicability bound. Any subset of
// the four fields may be empty, meaning that side is unbounded.
type Range struct {
	StartIncl string
	StartExcl string
	EndIncl   string
	EndExcl   string
}

// Empty reports whether none of the four bounds are set.
func (r Range) Empty() bool {
	return r.StartIncl == "" && r.StartExcl == "" && r.EndIncl == "" && r.EndExcl == ""
}

// InRange reports whether v lies within r under tolerant semantic
// ordering. Any parse failure of v, or of a configured bound, makes the
// test false -- a range can never be satisfied by a version neither side
// can order.
func (v Version) InRange(r Range) bool {
	if !v.numeric {
		return false
	}
	if r.StartIncl != "" {
		c, ok := v.Compare(r.StartIncl)
		if !ok || c < 0 {
			return false
		}
	}
	if r.StartExcl != "" {
		c, ok := v.Compare(r.StartExcl)
		if !ok || c <= 0 {
			return false
		}
	}
	if r.EndIncl != "" {
		c, ok := v.Compare(r.EndIncl)
		if !ok || c > 0 {
			return false
		}
	}
	if r.EndExcl != "" {
		c, ok := v.Compare(r.EndExcl)
		if !ok || c >= 0 {
			return false
		}
	}
	return true
}
