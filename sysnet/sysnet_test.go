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

package sysnet

import "testing"

func TestParsePingOutputLinuxEnglish(t *testing.T) {
	out := "64 bytes from 10.0.0.1: icmp_seq=1 ttl=64 time=0.543 ms\n"
	got := parsePingOutput(out)
	if !got.Alive || got.TTL != 64 || got.LatencyMs != 0.543 {
		t.Errorf("parsePingOutput() = %+v", got)
	}
}

func TestParsePingOutputWindows(t *testing.T) {
	out := "Reply from 10.0.0.1: bytes=32 time=12ms TTL=128\n"
	got := parsePingOutput(out)
	if !got.Alive || got.TTL != 128 || got.LatencyMs != 12 {
		t.Errorf("parsePingOutput() = %+v", got)
	}
}

func TestParsePingOutputPortuguese(t *testing.T) {
	out := "64 bytes de 10.0.0.1: icmp_seq=1 ttl=54 tempo=3.21 ms\n"
	got := parsePingOutput(out)
	if !got.Alive || got.TTL != 54 || got.LatencyMs != 3.21 {
		t.Errorf("parsePingOutput() = %+v", got)
	}
}

func TestParsePingOutputUnreachable(t *testing.T) {
	out := "Reply from 10.0.0.5: Destination host unreachable.\n"
	got := parsePingOutput(out)
	if got.Alive {
		t.Errorf("parsePingOutput() = %+v, want Alive=false", got)
	}
}

func TestParsePingOutputPacketLoss(t *testing.T) {
	out := "3 packets transmitted, 0 received, 100% packet loss, time 2003ms\n"
	got := parsePingOutput(out)
	if got.Alive {
		t.Errorf("parsePingOutput() = %+v, want Alive=false", got)
	}
}

func TestExtractMACLinuxNeigh(t *testing.T) {
	out := "10.0.0.1 dev eth0 lladdr aa:bb:cc:dd:ee:ff REACHABLE\n"
	mac, ok := extractMAC(out)
	if !ok || mac != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("extractMAC() = (%q, %v)", mac, ok)
	}
}

func TestExtractMACWindowsArp(t *testing.T) {
	out := "  10.0.0.1             aa-bb-cc-dd-ee-ff     dynamic\n"
	mac, ok := extractMAC(out)
	if !ok || mac != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("extractMAC() = (%q, %v)", mac, ok)
	}
}

func TestExtractMACPadsShortOctets(t *testing.T) {
	out := "10.0.0.1 dev eth0 lladdr a:b:c:1:2:3 REACHABLE\n"
	mac, ok := extractMAC(out)
	if !ok || mac != "0a:0b:0c:01:02:03" {
		t.Errorf("extractMAC() = (%q, %v), want padded form", mac, ok)
	}
}

func TestExtractMACNoMatch(t *testing.T) {
	if _, ok := extractMAC("no entry found\n"); ok {
		t.Error("extractMAC() on empty table: want false")
	}
}
