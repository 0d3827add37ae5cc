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
	"sort"

	"github.com/anxiouscamel/verihosts/version"
)

// Query looks up every CPE entry registered for (vendor, product) and
// classifies each as confirmed or suspected against the supplied version
// (pass "" when the version is unknown). It returns two sorted,
// de-duplicated CVE ID sets.
func (idx *Index) Query(vendor, product, ver string) (confirmed, suspected []string) {
	entries := idx.buckets[key{vendor: vendor, product: product}]
	if len(entries) == 0 {
		return nil, nil
	}

	confirmedSet := make(map[string]bool)
	suspectedSet := make(map[string]bool)

	haveVersion := ver != ""
	var parsed version.Version
	if haveVersion {
		parsed = version.Parse(ver)
	}

	for _, e := range entries {
		switch {
		case e.AnyVersion:
			if haveVersion {
				confirmedSet[e.CVEID] = true
			} else {
				suspectedSet[e.CVEID] = true
			}
		case e.ExactVersion != "":
			if haveVersion {
				if parsed.Equal(e.ExactVersion) {
					confirmedSet[e.CVEID] = true
				}
			} else {
				suspectedSet[e.CVEID] = true
			}
		case e.Range.HasBounds():
			if haveVersion {
				if parsed.InRange(toVersionRange(e.Range)) {
					confirmedSet[e.CVEID] = true
				}
			} else {
				suspectedSet[e.CVEID] = true
			}
		}
	}

	// A CVE confirmed via one CPE entry is not also reported suspected via
	// another entry in the same bucket.
	for id := range confirmedSet {
		delete(suspectedSet, id)
	}

	return sortedKeys(confirmedSet), sortedKeys(suspectedSet)
}

func toVersionRange(r Range) version.Range {
	return version.Range{
		StartIncl: r.StartIncl,
		StartExcl: r.StartExcl,
		EndIncl:   r.EndIncl,
		EndExcl:   r.EndExcl,
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
