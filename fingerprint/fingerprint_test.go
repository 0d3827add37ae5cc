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

package fingerprint_test

import (
	"testing"

	"github.com/anxiouscamel/verihosts/fingerprint"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		banner  string
		want    fingerprint.Fingerprint
		wantOK  bool
	}{
		{
			name:   "apache slash version",
			banner: "HTTP/1.1 200 OK Server: Apache/2.4.49",
			want:   fingerprint.Fingerprint{Vendor: "apache", Product: "http_server", Version: "2.4.49"},
			wantOK: true,
		},
		{
			name:   "nginx slash version",
			banner: "Server: nginx/1.24.0",
			want:   fingerprint.Fingerprint{Vendor: "nginx", Product: "nginx", Version: "1.24.0"},
			wantOK: true,
		},
		{
			name:   "openssh underscore version",
			banner: "SSH-2.0-OpenSSH_8.2p1 Ubuntu-4ubuntu0.1",
			want:   fingerprint.Fingerprint{Vendor: "openbsd", Product: "openssh", Version: "8.2p1"},
			wantOK: true,
		},
		{
			name:   "unknown product falls back to self pair",
			banner: "FooBarBaz/3.1",
			want:   fingerprint.Fingerprint{Vendor: "foobarbaz", Product: "foobarbaz", Version: "3.1"},
			wantOK: true,
		},
		{
			name:   "no version present",
			banner: "-",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := fingerprint.Extract(tc.banner)
			if ok != tc.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tc.banner, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got != tc.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tc.banner, got, tc.want)
			}
		})
	}
}
