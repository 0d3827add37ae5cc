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

import "strings"

// cpe23 is a parsed CPE 2.3 formatted string:
// cpe:2.3:part:vendor:product:version:update:edition:language:...
type cpe23 struct {
	part    string
	vendor  string
	product string
	version string
}

// parseCPE23 parses a URI of the form "cpe:2.3:a:vendor:product:version:...".
// Colons escaped with a backslash inside a field do not split it. ok is
// false if the string doesn't have the "cpe:2.3:" prefix with enough
// fields to recover part/vendor/product/version.
func parseCPE23(s string) (cpe23, bool) {
	const prefix = "cpe:2.3:"
	if !strings.HasPrefix(s, prefix) {
		return cpe23{}, false
	}
	fields := splitUnescaped(strings.TrimPrefix(s, prefix), ':')
	if len(fields) < 4 {
		return cpe23{}, false
	}
	return cpe23{
		part:    unescape(fields[0]),
		vendor:  unescape(fields[1]),
		product: unescape(fields[2]),
		version: unescape(fields[3]),
	}, true
}

func splitUnescaped(s string, sep byte) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
			cur.WriteByte(c)
		case c == sep:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}

// isAnyVersion reports whether a CPE version field denotes "applies to
// every version": the NVD wildcard "*", the "not applicable" marker "-",
// or an empty string.
func isAnyVersion(version string) bool {
	return version == "*" || version == "-" || version == ""
}
