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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/gjson"

	"github.com/anxiouscamel/verihosts/log"
)

// BuildOptions controls which NVD feed files contribute to the index.
type BuildOptions struct {
	// MaxYears restricts the index to feed files whose embedded year is
	// within the last MaxYears years of Now. Zero means no restriction.
	MaxYears int
	Now      int

	// PartAllowed filters CPE entries by their "part" field (a, o, h).
	// Empty means "a" (applications), matching the historical default.
	PartAllowed string
}

var feedFilePattern = regexp.MustCompile(`nvdcve-1\.1-(\d{4})\.json(\.gz)?$`)

// Build walks dir for NVD feed files and constructs an Index from them.
// Both the legacy ("CVE_Items"/"CVE_data_meta.ID") and current
// ("vulnerabilities"/"cve.id") feed layouts are accepted, and a directory
// may freely mix files in either layout. A file that fails to parse is
// logged and skipped; it never aborts the build.
func Build(dir string, opts BuildOptions) (*Index, error) {
	if opts.PartAllowed == "" {
		opts.PartAllowed = "a"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cve: reading feed dir %s: %w", dir, err)
	}

	idx := &Index{buckets: make(map[key][]Entry)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := feedFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		if opts.MaxYears > 0 && opts.Now > 0 && year < opts.Now-opts.MaxYears {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := readFeedFile(path)
		if err != nil {
			log.Warnf("cve: skipping %s: %v", path, err)
			continue
		}
		if err := ingest(idx, data, opts.PartAllowed); err != nil {
			log.Warnf("cve: skipping %s: %v", path, err)
			continue
		}
	}
	return idx, nil
}

func readFeedFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return io.ReadAll(f)
}

func ingest(idx *Index, data []byte, partAllowed string) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)

	if items := root.Get("CVE_Items"); items.Exists() {
		items.ForEach(func(_, item gjson.Result) bool {
			id := item.Get("cve.CVE_data_meta.ID").String()
			score := cvssScore(item)
			ingestNodes(idx, id, score, item.Get("configurations.nodes"), partAllowed)
			return true
		})
		return nil
	}

	if vulns := root.Get("vulnerabilities"); vulns.Exists() {
		vulns.ForEach(func(_, v gjson.Result) bool {
			cve := v.Get("cve")
			id := cve.Get("id").String()
			score := cvssScore(cve)
			cve.Get("configurations").ForEach(func(_, config gjson.Result) bool {
				ingestNodes(idx, id, score, config.Get("nodes"), partAllowed)
				return true
			})
			return true
		})
		return nil
	}

	return fmt.Errorf("unrecognized NVD feed layout")
}

// ingestNodes recursively walks a configurations.nodes array, including
// every "children" sub-array, collecting vulnerable cpe_match entries.
func ingestNodes(idx *Index, cveID string, score float64, nodes gjson.Result, partAllowed string) {
	nodes.ForEach(func(_, node gjson.Result) bool {
		node.Get("cpe_match").ForEach(func(_, m gjson.Result) bool {
			if !m.Get("vulnerable").Bool() {
				return true
			}
			addCPEMatch(idx, cveID, score, m, partAllowed)
			return true
		})
		if children := node.Get("children"); children.Exists() {
			ingestNodes(idx, cveID, score, children, partAllowed)
		}
		return true
	})
}

func addCPEMatch(idx *Index, cveID string, score float64, m gjson.Result, partAllowed string) {
	criteria := m.Get("cpe23Uri")
	if !criteria.Exists() {
		criteria = m.Get("criteria")
	}
	parsed, ok := parseCPE23(criteria.String())
	if !ok {
		return
	}
	if partAllowed != "" && parsed.part != partAllowed {
		return
	}

	entry := Entry{CVEID: cveID, Severity: score}
	rng := Range{
		StartIncl: m.Get("versionStartIncluding").String(),
		StartExcl: m.Get("versionStartExcluding").String(),
		EndIncl:   m.Get("versionEndIncluding").String(),
		EndExcl:   m.Get("versionEndExcluding").String(),
	}

	switch {
	case isAnyVersion(parsed.version) && !rng.HasBounds():
		entry.AnyVersion = true
	case !rng.HasBounds():
		entry.ExactVersion = parsed.version
	default:
		entry.Range = rng
	}

	k := key{vendor: parsed.vendor, product: parsed.product}
	idx.buckets[k] = append(idx.buckets[k], entry)
}
