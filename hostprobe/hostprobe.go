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

// Package hostprobe implements the per-host probing pipeline: reachability,
// hostname, MAC/vendor, OS family classification, port fan-out, and
// per-banner vulnerability lookup. It produces exactly one HostResult per
// invocation and never returns an error for anything other than a
// programmer mistake -- every network failure degrades a field to N/D
// instead of aborting.
package hostprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/anxiouscamel/verihosts/budget"
	"github.com/anxiouscamel/verihosts/fingerprint"
	"github.com/anxiouscamel/verihosts/log"
	"github.com/anxiouscamel/verihosts/probe"
	"github.com/anxiouscamel/verihosts/stats"
	"github.com/anxiouscamel/verihosts/sysnet"
)

// NotAvailable is the placeholder used for every field that could not be
// recovered.
const NotAvailable = "N/D"

// Status values for HostResult.
const (
	StatusOnline  = "ONLINE"
	StatusOffline = "OFFLINE"
)

// HostResult is the immutable outcome of probing a single target.
type HostResult struct {
	IP        string
	Status    string
	Hostname  string
	MAC       string
	Vendor    string
	OSFamily  string
	OpenPorts []int
	Banners   []string // "<port>:<banner>", aligned with OpenPorts
	Vulns     []string
	LatencyMs float64
	Error     string
}

// VendorLookup resolves a MAC prefix to a vendor name.
type VendorLookup interface {
	Lookup(mac string) (vendor string, ok bool)
}

// CVEIndex resolves a service fingerprint to CVE identifiers.
type CVEIndex interface {
	Query(vendor, product, version string) (confirmed, suspected []string)
}

// Options configures one Probe invocation.
type Options struct {
	Ports           []int
	PortConcurrency int
	SocketTimeout   time.Duration
	ResolveHostname bool
	// TCPOnly skips the ICMP ping reachability gate -- useful on hosts
	// where the ping subprocess is unavailable or blocked -- and instead
	// declares a target ONLINE iff at least one port in Ports answers.
	// LatencyMs is always -1 in this mode, since there is no ping round
	// trip to time.
	TCPOnly   bool
	Budget    *budget.Budget
	Vendors   VendorLookup // nil disables vendor lookup
	CVEs      CVEIndex     // nil disables vulnerability matching
	Collector stats.Collector
}

// Prober holds nothing but config; it exists to give Probe a stable
// receiver for future extension (e.g. a swappable transport in tests).
type Prober struct {
	Options Options
}

// New returns a Prober with the given options. A nil Collector is replaced
// with stats.NoopCollector.
func New(opts Options) *Prober {
	if opts.Collector == nil {
		opts.Collector = stats.NoopCollector{}
	}
	return &Prober{Options: opts}
}

// Probe runs the full host pipeline for ip and returns its HostResult.
func (p *Prober) Probe(ctx context.Context, ip string) HostResult {
	start := time.Now()

	if p.Options.TCPOnly {
		return p.probeTCPOnly(ctx, ip, start)
	}

	ping := sysnet.Ping(ctx, ip)
	if !ping.Alive {
		p.Options.Collector.AfterHostProbed(ip, time.Since(start), false)
		return HostResult{IP: ip, Status: StatusOffline, LatencyMs: -1}
	}

	result := HostResult{
		IP:        ip,
		Status:    StatusOnline,
		Hostname:  NotAvailable,
		MAC:       NotAvailable,
		Vendor:    NotAvailable,
		OSFamily:  classifyOS(ping.TTL),
		LatencyMs: ping.LatencyMs,
	}

	if p.Options.ResolveHostname {
		if name, ok := sysnet.ReverseDNS(ctx, ip); ok {
			result.Hostname = name
		}
	}

	if mac, ok := sysnet.ARPLookup(ctx, ip); ok {
		result.MAC = mac
		if p.Options.Vendors != nil {
			if vendor, ok := p.Options.Vendors.Lookup(mac); ok {
				result.Vendor = vendor
			}
		}
	}

	openPorts, banners, vulns := p.probePorts(ctx, ip)
	result.OpenPorts = openPorts
	result.Banners = banners
	result.Vulns = vulns

	p.Options.Collector.AfterHostProbed(ip, time.Since(start), true)
	return result
}

// probeTCPOnly implements the TCPOnly reachability gate: skip ping
// entirely and fall straight through to the port fan-out, reporting
// ONLINE iff at least one port answered.
func (p *Prober) probeTCPOnly(ctx context.Context, ip string, start time.Time) HostResult {
	openPorts, banners, vulns := p.probePorts(ctx, ip)
	if len(openPorts) == 0 {
		p.Options.Collector.AfterHostProbed(ip, time.Since(start), false)
		return HostResult{IP: ip, Status: StatusOffline, LatencyMs: -1}
	}

	result := HostResult{
		IP:        ip,
		Status:    StatusOnline,
		Hostname:  NotAvailable,
		MAC:       NotAvailable,
		Vendor:    NotAvailable,
		OSFamily:  NotAvailable,
		LatencyMs: -1,
		OpenPorts: openPorts,
		Banners:   banners,
		Vulns:     vulns,
	}

	if p.Options.ResolveHostname {
		if name, ok := sysnet.ReverseDNS(ctx, ip); ok {
			result.Hostname = name
		}
	}
	if mac, ok := sysnet.ARPLookup(ctx, ip); ok {
		result.MAC = mac
		if p.Options.Vendors != nil {
			if vendor, ok := p.Options.Vendors.Lookup(mac); ok {
				result.Vendor = vendor
			}
		}
	}

	p.Options.Collector.AfterHostProbed(ip, time.Since(start), true)
	return result
}

// classifyOS buckets a ping TTL into the coarse OS families the original
// tool distinguished. Real-world TTLs start at 64 (Linux/Unix), 128
// (Windows), or 255 (network appliances) and decrease by one per hop, so
// thresholds rather than exact values are used.
func classifyOS(ttl int) string {
	switch {
	case ttl <= 0:
		return NotAvailable
	case ttl <= 70:
		return "Linux/Unix"
	case ttl <= 140:
		return "Windows"
	case ttl <= 255:
		return "Cisco/Appliance"
	default:
		return "Unknown"
	}
}

type portResult struct {
	port   int
	banner string
}

func (p *Prober) probePorts(ctx context.Context, ip string) (openPorts []int, banners []string, vulns []string) {
	sem := make(chan struct{}, max(1, p.Options.PortConcurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex
	collected := make([]portResult, 0, len(p.Options.Ports))

	for _, port := range p.Options.Ports {
		wg.Add(1)
		sem <- struct{}{}
		go func(port int) {
			defer wg.Done()
			defer func() { <-sem }()

			probeStart := time.Now()
			open, outcome := p.tcpOpen(ctx, ip, port)
			p.Options.Collector.AfterPortProbed(ip, port, outcome, time.Since(probeStart))
			if !open {
				return
			}
			banner := p.collectBanner(ctx, ip, port)

			mu.Lock()
			collected = append(collected, portResult{port: port, banner: banner})
			mu.Unlock()
		}(port)
	}
	wg.Wait()

	sort.Slice(collected, func(i, j int) bool { return collected[i].port < collected[j].port })

	vulnSet := make(map[string]bool)
	for _, r := range collected {
		openPorts = append(openPorts, r.port)
		banners = append(banners, fmt.Sprintf("%d:%s", r.port, r.banner))
		for _, v := range p.vulnsForBanner(r.banner) {
			vulnSet[v] = true
		}
	}
	for v := range vulnSet {
		vulns = append(vulns, v)
	}
	sort.Strings(vulns)
	return openPorts, banners, vulns
}

// tcpOpen performs the "is the port open" check as a bare connect, separate
// from the banner-collecting connection per the two-connection design. The
// returned outcome distinguishes a refused connection from one that timed
// out, which is what the stats layer wants to see.
func (p *Prober) tcpOpen(ctx context.Context, ip string, port int) (bool, stats.PortProbeResult) {
	if p.Options.Budget != nil {
		if err := p.Options.Budget.Acquire(ctx); err != nil {
			return false, stats.PortProbeResultTimeout
		}
		defer p.Options.Budget.Release()
	}
	_, err := probe.Connect(ctx, ip, port, p.Options.SocketTimeout)
	if err == nil {
		return true, stats.PortProbeResultOpen
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false, stats.PortProbeResultTimeout
	}
	return false, stats.PortProbeResultClosed
}

func (p *Prober) collectBanner(ctx context.Context, ip string, port int) string {
	if p.Options.Budget != nil {
		if err := p.Options.Budget.Acquire(ctx); err != nil {
			return "-"
		}
		defer p.Options.Budget.Release()
	}
	banner, err := probe.Connect(ctx, ip, port, p.Options.SocketTimeout)
	if err != nil {
		return "-"
	}
	return banner
}

func (p *Prober) vulnsForBanner(banner string) []string {
	if p.Options.CVEs == nil {
		return nil
	}
	fp, ok := fingerprint.Extract(banner)
	if !ok {
		return nil
	}
	confirmed, suspected := p.Options.CVEs.Query(fp.Vendor, fp.Product, fp.Version)
	p.Options.Collector.AfterCVEMatch(stats.CVEMatchStats{
		Vendor:    fp.Vendor,
		Product:   fp.Product,
		Confirmed: len(confirmed),
		Suspected: len(suspected),
	})
	if len(confirmed) == 0 && len(suspected) == 0 {
		log.Debugf("hostprobe: no vulnerability match for %s/%s %s", fp.Vendor, fp.Product, fp.Version)
	}
	out := make([]string, 0, len(confirmed)+len(suspected))
	out = append(out, confirmed...)
	for _, id := range suspected {
		out = append(out, id+" (suspeita)")
	}
	return out
}
