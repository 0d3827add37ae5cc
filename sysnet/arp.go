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

import (
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"
)

var macPattern = regexp.MustCompile(`(?i)([0-9a-f]{1,2}[:-]){5}[0-9a-f]{1,2}`)

// ARPLookup resolves ip's link-layer address from the local ARP/neighbor
// table, returning it canonicalized as lowercase colon-separated hex
// ("aa:bb:cc:dd:ee:ff"). ok is false if no table entry was found or every
// subprocess invocation failed.
//
// On Windows this runs "arp -a <ip>"; elsewhere it tries "ip neigh show
// <ip>" first, falling back to "arp -n <ip>" since not every minimal Linux
// image ships the iproute2 package.
func ARPLookup(ctx context.Context, ip string) (mac string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if runtime.GOOS == "windows" {
		out, _ := exec.CommandContext(ctx, "arp", "-a", ip).CombinedOutput()
		return extractMAC(string(out))
	}

	if out, err := exec.CommandContext(ctx, "ip", "neigh", "show", ip).CombinedOutput(); err == nil {
		if mac, ok := extractMAC(string(out)); ok {
			return mac, true
		}
	}
	out, _ := exec.CommandContext(ctx, "arp", "-n", ip).CombinedOutput()
	return extractMAC(string(out))
}

func extractMAC(out string) (string, bool) {
	m := macPattern.FindString(out)
	if m == "" {
		return "", false
	}
	return canonicalizeMAC(m), true
}

// canonicalizeMAC lowercases a MAC address and pads single-hex-digit octets
// (some arp implementations print "a:b:c:1:2:3" without leading zeros).
func canonicalizeMAC(mac string) string {
	sep := ":"
	if strings.Contains(mac, "-") {
		sep = "-"
	}
	parts := strings.Split(mac, sep)
	for i, p := range parts {
		p = strings.ToLower(p)
		if len(p) == 1 {
			p = "0" + p
		}
		parts[i] = p
	}
	return strings.Join(parts, ":")
}
