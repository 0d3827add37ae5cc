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

package report

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/anxiouscamel/verihosts/hostprobe"
)

var (
	styleOnline   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleOffline  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleNA       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	stylePort     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleHeader   = lipgloss.NewStyle().Bold(true)

	latencyGood   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	latencyOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	latencyWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	latencyBad    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Table renders results as a lipgloss table string, ordered by numeric IP.
func Table(results map[string]hostprobe.HostResult) string {
	t := table.New().
		Headers("IP", "Status", "Hostname", "MAC", "Latência", "Fabricante", "SO", "Portas", "Banners", "Vulnerabilidades").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, ip := range sortedIPs(results) {
		r := results[ip]
		t.Row(
			renderIP(ip, r.Status),
			renderStatus(r.Status),
			renderPlaceholder(r.Hostname),
			renderMAC(r.MAC),
			renderLatency(r.LatencyMs),
			renderPlaceholder(r.Vendor),
			r.OSFamily,
			renderPorts(r.OpenPorts),
			renderList(r.Banners),
			renderList(r.Vulns),
		)
	}
	return t.Render()
}

func renderIP(ip, status string) string {
	if status == hostprobe.StatusOnline {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(ip)
	}
	return styleNA.Render(ip)
}

func renderStatus(status string) string {
	if status == hostprobe.StatusOnline {
		return styleOnline.Render(status)
	}
	return styleOffline.Render(status)
}

func renderPlaceholder(v string) string {
	if v == hostprobe.NotAvailable || v == "-" || v == "" {
		return styleNA.Render(orDash(v))
	}
	return v
}

func renderMAC(mac string) string {
	if mac == hostprobe.NotAvailable {
		return styleOffline.Render(mac)
	}
	if mac == "-" || mac == "" {
		return styleNA.Render("-")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Render(mac)
}

func renderLatency(ms float64) string {
	if ms < 0 {
		return styleNA.Render("-")
	}
	text := strconv.FormatFloat(ms, 'f', 1, 64) + " ms"
	switch {
	case ms <= 10:
		return latencyGood.Render(text)
	case ms <= 50:
		return latencyOK.Render(text)
	case ms <= 150:
		return latencyWarn.Render(text)
	default:
		return latencyBad.Render(text)
	}
}

func renderPorts(ports []int) string {
	if len(ports) == 0 {
		return styleNA.Render("-")
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		s := strconv.Itoa(p)
		if hostprobe.CriticalPorts[p] {
			parts[i] = styleCritical.Render(s)
		} else {
			parts[i] = stylePort.Render(s)
		}
	}
	return strings.Join(parts, ", ")
}

func renderList(items []string) string {
	if len(items) == 0 {
		return styleNA.Render("-")
	}
	return strings.Join(items, ", ")
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
