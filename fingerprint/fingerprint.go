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

// Package fingerprint extracts a (vendor, product, version) triple from a
// raw service banner and normalizes it to the NVD CPE taxonomy so it can be
// looked up in the CVE index.
package fingerprint

import (
	"regexp"
	"strings"
)

// patterns are the banner grammars Extract searches. Every match of every
// pattern is a candidate; Extract decides which candidate wins.
var patterns = []*regexp.Regexp{
	// "Apache/2.4.49", "nginx/1.24.0", "Server: Apache 2.4.49"
	regexp.MustCompile(`([A-Za-z0-9_-]+)[/ ]v?(\d+(?:\.\d+){0,3}(?:[-_][0-9a-zA-Z.]+)?)`),
	// "OpenSSH_8.2p1". The leading character is restricted to a letter so
	// the leftmost-match search can't anchor on a digit that happens to sit
	// just before a real product name across a '.'-blocked boundary, as in
	// the SSH protocol-version prefix "SSH-2.0-OpenSSH_8.2p1": without this,
	// the engine matches "0-OpenSSH_8.2p1" (group 1 "0-OpenSSH") instead of
	// "OpenSSH_8.2p1" (group 1 "OpenSSH").
	regexp.MustCompile(`([A-Za-z][A-Za-z0-9_-]*)_(\d[0-9a-zA-Z.-]*)`),
}

// Fingerprint is the (vendor, product, version?) triple derived from a
// banner and normalized to NVD's taxonomy. Version is empty when the banner
// carried no recognizable version string.
type Fingerprint struct {
	Vendor  string
	Product string
	Version string
}

// protocolTokens are banner tokens that look like product/version pairs but
// name the wire protocol, not the software serving it ("HTTP/1.1" in a
// status line). They only win when nothing better matches.
var protocolTokens = map[string]bool{
	"http":  true,
	"https": true,
	"smtp":  true,
	"esmtp": true,
}

// Extract derives a Fingerprint from a raw banner. Every match of every
// pattern is considered; a product the normalization table knows beats an
// unknown one, and protocol tokens like "HTTP/1.1" are used only as a last
// resort, so "HTTP/1.1 200 OK Server: Apache/2.4.49" fingerprints as Apache
// rather than as the protocol name the status line happens to lead with. ok
// is false when no pattern matched anything in the banner.
func Extract(banner string) (fp Fingerprint, ok bool) {
	var fallback Fingerprint
	var haveFallback bool

	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(banner, -1) {
			product := strings.ToLower(m[1])
			vendor, normalized := Normalize(product)
			candidate := Fingerprint{
				Vendor:  vendor,
				Product: normalized,
				Version: m[2],
			}
			if _, known := vendorProduct[product]; known {
				return candidate, true
			}
			if !haveFallback || (protocolTokens[strings.ToLower(fallback.Product)] && !protocolTokens[product]) {
				fallback = candidate
				haveFallback = true
			}
		}
	}
	return fallback, haveFallback
}
