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

package hostprobe

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/anxiouscamel/verihosts/stats"
)

type fakeCVEIndex struct{}

func (fakeCVEIndex) Query(vendor, product, version string) (confirmed, suspected []string) {
	if vendor == "apache" && product == "http_server" {
		return []string{"CVE-2021-1111"}, nil
	}
	return nil, nil
}

func listenHTTP(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				// The prober sends nothing to ports outside the payload
				// table, so answer after a short wait even if no request
				// arrives.
				conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
				buf := make([]byte, 512)
				conn.Read(buf)
				conn.Write([]byte("HTTP/1.0 200 OK\r\nServer: Apache/2.4.49\r\n\r\n"))
			}()
		}
	}()
	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestProbePortsFindsOpenPortAndVuln(t *testing.T) {
	ln, port := listenHTTP(t)
	defer ln.Close()

	p := New(Options{
		Ports:           []int{port},
		PortConcurrency: 2,
		SocketTimeout:   500 * time.Millisecond,
		CVEs:            fakeCVEIndex{},
	})

	openPorts, banners, vulns := p.probePorts(context.Background(), "127.0.0.1")
	if len(openPorts) != 1 || openPorts[0] != port {
		t.Fatalf("openPorts = %v, want [%d]", openPorts, port)
	}
	if len(banners) != 1 {
		t.Fatalf("banners = %v, want one entry", banners)
	}
	if len(vulns) != 1 || vulns[0] != "CVE-2021-1111" {
		t.Errorf("vulns = %v, want [CVE-2021-1111]", vulns)
	}
}

func TestProbePortsSkipsClosedPorts(t *testing.T) {
	ln, port := listenHTTP(t)
	ln.Close()

	p := New(Options{
		Ports:           []int{port},
		PortConcurrency: 1,
		SocketTimeout:   200 * time.Millisecond,
	})

	openPorts, banners, _ := p.probePorts(context.Background(), "127.0.0.1")
	if len(openPorts) != 0 || len(banners) != 0 {
		t.Errorf("openPorts=%v banners=%v, want both empty", openPorts, banners)
	}
}

func TestProbeTCPOnlyOnlineWhenPortOpen(t *testing.T) {
	ln, port := listenHTTP(t)
	defer ln.Close()

	p := New(Options{
		Ports:           []int{port},
		PortConcurrency: 1,
		SocketTimeout:   500 * time.Millisecond,
		TCPOnly:         true,
	})

	r := p.Probe(context.Background(), "127.0.0.1")
	if r.Status != StatusOnline {
		t.Fatalf("Status = %q, want ONLINE", r.Status)
	}
	if r.LatencyMs != -1 {
		t.Errorf("LatencyMs = %v, want -1 in TCPOnly mode", r.LatencyMs)
	}
	if len(r.OpenPorts) != 1 || r.OpenPorts[0] != port {
		t.Errorf("OpenPorts = %v, want [%d]", r.OpenPorts, port)
	}
}

func TestProbeTCPOnlyOfflineWhenNoPortOpen(t *testing.T) {
	ln, port := listenHTTP(t)
	ln.Close()

	p := New(Options{
		Ports:           []int{port},
		PortConcurrency: 1,
		SocketTimeout:   100 * time.Millisecond,
		TCPOnly:         true,
	})

	r := p.Probe(context.Background(), "127.0.0.1")
	if r.Status != StatusOffline || r.LatencyMs != -1 || len(r.OpenPorts) != 0 {
		t.Errorf("Probe() = %+v, want an OFFLINE record with empty lists", r)
	}
}

type recordingCollector struct {
	mu          sync.Mutex
	portResults map[int]stats.PortProbeResult
	cveMatches  []stats.CVEMatchStats
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{portResults: make(map[int]stats.PortProbeResult)}
}

func (c *recordingCollector) AfterHostProbed(ip string, runtime time.Duration, online bool) {}

func (c *recordingCollector) AfterPortProbed(ip string, port int, result stats.PortProbeResult, runtime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.portResults[port] = result
}

func (c *recordingCollector) AfterCVEMatch(m stats.CVEMatchStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cveMatches = append(c.cveMatches, m)
}

func (c *recordingCollector) AfterBatch(b stats.BatchStats)                      {}
func (c *recordingCollector) AfterShapeChange(shape stats.Shape, reason string)  {}
func (c *recordingCollector) AfterCVEIndexBuilt(entries, buckets int, fromCache bool, runtime time.Duration) {
}

func TestProbePortsReportsToCollector(t *testing.T) {
	ln, openPort := listenHTTP(t)
	defer ln.Close()

	closedLn, closedPort := listenHTTP(t)
	closedLn.Close()

	collector := newRecordingCollector()
	p := New(Options{
		Ports:           []int{openPort, closedPort},
		PortConcurrency: 2,
		SocketTimeout:   500 * time.Millisecond,
		CVEs:            fakeCVEIndex{},
		Collector:       collector,
	})

	p.probePorts(context.Background(), "127.0.0.1")

	if got := collector.portResults[openPort]; got != stats.PortProbeResultOpen {
		t.Errorf("port %d result = %q, want %q", openPort, got, stats.PortProbeResultOpen)
	}
	if got := collector.portResults[closedPort]; got != stats.PortProbeResultClosed {
		t.Errorf("port %d result = %q, want %q", closedPort, got, stats.PortProbeResultClosed)
	}
	if len(collector.cveMatches) != 1 {
		t.Fatalf("cveMatches = %v, want one entry for the Apache banner", collector.cveMatches)
	}
	m := collector.cveMatches[0]
	if m.Vendor != "apache" || m.Product != "http_server" || m.Confirmed != 1 || m.Suspected != 0 {
		t.Errorf("AfterCVEMatch got %+v, want apache/http_server with 1 confirmed", m)
	}
}

func TestClassifyOS(t *testing.T) {
	tests := []struct {
		ttl  int
		want string
	}{
		{64, "Linux/Unix"},
		{70, "Linux/Unix"},
		{128, "Windows"},
		{140, "Windows"},
		{255, "Cisco/Appliance"},
		{300, "Unknown"},
		{0, NotAvailable},
	}
	for _, tc := range tests {
		if got := classifyOS(tc.ttl); got != tc.want {
			t.Errorf("classifyOS(%d) = %q, want %q", tc.ttl, got, tc.want)
		}
	}
}
