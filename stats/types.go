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

package stats

// PortProbeResult is a string representation of the outcome of probing a
// single TCP port.
type PortProbeResult string

const (
	// PortProbeResultOpen indicates the TCP connect succeeded.
	PortProbeResultOpen PortProbeResult = "PORT_PROBE_RESULT_OPEN"

	// PortProbeResultClosed indicates the connection was actively refused.
	PortProbeResultClosed PortProbeResult = "PORT_PROBE_RESULT_CLOSED"

	// PortProbeResultTimeout indicates the connect attempt exceeded the
	// configured socket timeout.
	PortProbeResultTimeout PortProbeResult = "PORT_PROBE_RESULT_TIMEOUT"
)

// CVEMatchStats summarizes the outcome of matching one fingerprint against
// the CVE index.
type CVEMatchStats struct {
	Vendor    string
	Product   string
	Confirmed int
	Suspected int
}
