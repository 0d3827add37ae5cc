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

// Package report renders scan results as a terminal table and exports them
// to CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/anxiouscamel/verihosts/hostprobe"
)

// csvHeader is fixed by the external CSV contract; every field and its
// order must match exactly.
var csvHeader = []string{
	"IP", "Status", "Hostname", "MAC", "Fabricante", "SO",
	"Portas", "Banners", "Vulnerabilidades", "Latência (ms)",
}

// WriteCSV writes results to w as semicolon-delimited UTF-8, one row per
// host sorted by numeric IP octets, with list columns comma-separated.
func WriteCSV(w io.Writer, results map[string]hostprobe.HostResult) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("report: writing CSV header: %w", err)
	}

	for _, ip := range sortedIPs(results) {
		r := results[ip]
		ports := make([]string, len(r.OpenPorts))
		for i, p := range r.OpenPorts {
			ports[i] = strconv.Itoa(p)
		}
		row := []string{
			r.IP,
			r.Status,
			r.Hostname,
			r.MAC,
			r.Vendor,
			r.OSFamily,
			strings.Join(ports, ", "),
			strings.Join(r.Banners, ", "),
			strings.Join(r.Vulns, ", "),
			formatLatency(r.LatencyMs),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("report: writing row for %s: %w", ip, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatLatency(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}

// sortedIPs orders IPv4 literals by their numeric octets, not
// lexicographically ("10.0.0.2" must sort before "10.0.0.10").
func sortedIPs(results map[string]hostprobe.HostResult) []string {
	ips := make([]string, 0, len(results))
	for ip := range results {
		ips = append(ips, ip)
	}
	sort.Slice(ips, func(i, j int) bool { return lessIP(ips[i], ips[j]) })
	return ips
}

func lessIP(a, b string) bool {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		na, _ := strconv.Atoi(pa[i])
		nb, _ := strconv.Atoi(pb[i])
		if na != nb {
			return na < nb
		}
	}
	return a < b
}
