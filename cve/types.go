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

// Package cve builds and queries an offline index mapping (vendor,
// product) pairs to the CVE identifiers that list them as a vulnerable
// configuration, sourced from NVD's yearly JSON feeds.
package cve

// Entry is a single vulnerable-configuration record inside the index.
// Exactly one of AnyVersion, ExactVersion, or Range is populated.
type Entry struct {
	CVEID        string
	AnyVersion   bool
	ExactVersion string
	Range        Range

	// Severity is an optional CVSS base score, populated when the feed
	// carried one. Zero means "not available", not "zero severity".
	Severity float64
}

// Range expresses a version interval using the same four optional bounds
// NVD's CPE match nodes carry. An empty string means the bound is absent
// (unbounded on that side).
type Range struct {
	StartIncl string
	StartExcl string
	EndIncl   string
	EndExcl   string
}

// HasBounds reports whether r constrains either end of the interval.
func (r Range) HasBounds() bool {
	return r.StartIncl != "" || r.StartExcl != "" || r.EndIncl != "" || r.EndExcl != ""
}

// key identifies a bucket in the index.
type key struct {
	vendor  string
	product string
}

// Index maps (vendor, product) to the CPE entries that mention them. Build
// it with Build or load a previously persisted copy with OpenCached.
type Index struct {
	buckets map[key][]Entry
}

// Len returns the number of distinct (vendor, product) buckets.
func (idx *Index) Len() int {
	return len(idx.buckets)
}

// EntryCount returns the total number of CPE entries across every bucket.
func (idx *Index) EntryCount() int {
	n := 0
	for _, v := range idx.buckets {
		n += len(v)
	}
	return n
}
