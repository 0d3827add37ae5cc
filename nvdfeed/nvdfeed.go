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

// Package nvdfeed downloads the NVD yearly CVE feeds (nvdcve-1.1-<year>.json.gz)
// into a local directory, gated by a staleness stamp file so a run doesn't
// re-download files it already fetched recently.
package nvdfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anxiouscamel/verihosts/log"
)

// URLBase is the NVD feed directory these files are fetched from.
const URLBase = "https://nvd.nist.gov/feeds/json/cve/1.1"

// FirstYear is the earliest year NVD publishes a yearly feed for.
const FirstYear = 2002

// staleFileName stores the RFC 3339 timestamp of the last successful
// refresh, replacing the original tool's ".last_check" marker.
const staleFileName = ".last_check"

// RefreshInterval is how long a previous refresh is considered current.
// NVD's own source carries two values for this (5 and 7 days); 7 is used
// here to bias towards fewer redundant downloads.
const RefreshInterval = 7 * 24 * time.Hour

// Update ensures dir holds every yearly feed file from FirstYear through
// the current year, skipping the whole pass if the last refresh is within
// RefreshInterval. now is passed in rather than read from time.Now so
// callers can make the staleness check deterministic in tests.
func Update(ctx context.Context, dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("nvdfeed: creating %s: %w", dir, err)
	}

	if age, ok := lastRefreshAge(dir, now); ok && age < RefreshInterval {
		log.Infof("nvdfeed: last refresh was %s ago, skipping", age.Round(time.Hour))
		return nil
	}

	client := &http.Client{Timeout: 30 * time.Second}
	for year := FirstYear; year <= now.Year(); year++ {
		if err := downloadYear(ctx, client, dir, year); err != nil {
			log.Warnf("nvdfeed: %v", err)
		}
	}
	return recordRefresh(dir, now)
}

func downloadYear(ctx context.Context, client *http.Client, dir string, year int) error {
	name := fmt.Sprintf("nvdcve-1.1-%d.json.gz", year)
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	url := URLBase + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", name, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: HTTP %s", name, resp.Status)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	f.Close()
	return os.Rename(tmp, dest)
}

func lastRefreshAge(dir string, now time.Time) (time.Duration, bool) {
	raw, err := os.ReadFile(filepath.Join(dir, staleFileName))
	if err != nil {
		return 0, false
	}
	stamp, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false
	}
	return now.Sub(stamp), true
}

func recordRefresh(dir string, now time.Time) error {
	return os.WriteFile(filepath.Join(dir, staleFileName), []byte(now.Format(time.RFC3339)), 0o644)
}
