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

// Package probe opens a single TCP (or direct-TLS) connection to a host and
// port, sends the payload the port is known to expect, and returns a
// cleaned banner. It never retries and never holds a connection open past
// the caller-supplied deadline.
package probe

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// maxBannerBytes bounds the single recv used to collect a banner.
const maxBannerBytes = 2048

// payloads maps a TCP port to the bytes sent immediately after connect.
// Ports absent from this map receive no payload; the probe only reads
// whatever the server volunteers.
var payloads = map[int]string{
	22:   "\r\n",
	21:   "FEAT\r\n",
	25:   "EHLO example.com\r\n",
	587:  "EHLO example.com\r\n",
	80:   "HEAD / HTTP/1.0\r\nHost: localhost\r\n\r\n",
	8000: "HEAD / HTTP/1.0\r\nHost: localhost\r\n\r\n",
	8080: "HEAD / HTTP/1.0\r\nHost: localhost\r\n\r\n",
	8443: "HEAD / HTTP/1.0\r\nHost: localhost\r\n\r\n",
	8888: "HEAD / HTTP/1.0\r\nHost: localhost\r\n\r\n",
	110:  "USER test\r\n",
	143:  ". CAPABILITY\r\n",
}

// directTLSPorts perform a TLS client handshake immediately after TCP
// connect instead of speaking the port's plaintext payload.
var directTLSPorts = map[int]bool{
	443: true,
	465: true,
	990: true,
	993: true,
	995: true,
}

// Connect dials ip:port with the given timeout, sends the port's known
// payload (performing a TLS handshake first for direct-TLS ports), and
// returns the cleaned banner. Connect always closes its connection before
// returning. A dial failure is returned as an error. A failed TLS handshake
// is not an error: the banner is then read from the underlying plain socket.
// A banner read failure (including an empty read) is not an error either --
// it yields the placeholder banner "-".
func Connect(ctx context.Context, ip string, port int, timeout time.Duration) (string, error) {
	dialer := net.Dialer{Timeout: timeout}
	addr := net.JoinHostPort(ip, strconv.Itoa(port))

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("probe: dial %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	conn.SetDeadline(deadline)

	if directTLSPorts[port] {
		tlsConn := tls.Client(conn, &tls.Config{
			ServerName:         ip,
			InsecureSkipVerify: true,
		})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			// Certificates are not verified, so this is a protocol-level
			// failure; fall back to reading whatever the plain socket offers.
			return clean(readBanner(conn)), nil
		}
		if port == 443 {
			tlsConn.Write([]byte(payloads[80]))
		}
		return clean(readBanner(tlsConn)), nil
	}

	if payload, ok := payloads[port]; ok {
		conn.Write([]byte(payload))
	}
	return clean(readBanner(conn)), nil
}

func readBanner(r io.Reader) string {
	buf := make([]byte, maxBannerBytes)
	n, _ := r.Read(buf)
	if n <= 0 {
		return ""
	}
	return string(buf[:n])
}

// clean normalizes a raw banner read: control characters collapse to
// spaces, semicolons become commas, the result is trimmed, and an empty
// result becomes the placeholder "-".
func clean(raw string) string {
	var b bytes.Buffer
	for _, r := range raw {
		switch {
		case r == ';':
			b.WriteRune(',')
		case r < 0x20 || r == 0x7f:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	cleaned := collapseAndTrim(b.String())
	if cleaned == "" {
		return "-"
	}
	return cleaned
}

func collapseAndTrim(s string) string {
	var b bytes.Buffer
	prevSpace := false
	for _, r := range s {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	start, end := 0, len(out)
	for start < end && out[start] == ' ' {
		start++
	}
	for end > start && out[end-1] == ' ' {
		end--
	}
	return out[start:end]
}
