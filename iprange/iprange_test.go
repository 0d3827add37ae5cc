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

package iprange

import (
	"reflect"
	"testing"
)

func TestParseSingleAddress(t *testing.T) {
	got, err := Parse("10.0.0.10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"10.0.0.10"}) {
		t.Errorf("Parse() = %v", got)
	}
}

func TestParseDashRange(t *testing.T) {
	got, err := Parse("10.0.0.1-10.0.0.4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseDashShorthand(t *testing.T) {
	got, err := Parse("10.0.0.253-255")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"10.0.0.253", "10.0.0.254", "10.0.0.255"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseCIDR(t *testing.T) {
	got, err := Parse("192.168.1.252/30")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"192.168.1.252", "192.168.1.253", "192.168.1.254", "192.168.1.255"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseRejectsOversizedExpansion(t *testing.T) {
	if _, err := Parse("10.0.0.0/8"); err == nil {
		t.Error("Parse(/8) = nil error, want an error guarding against an oversized expansion")
	}
}

func TestParseRejectsInvertedRange(t *testing.T) {
	if _, err := Parse("10.0.0.50-10.0.0.1"); err == nil {
		t.Error("Parse() = nil error for an inverted range, want an error")
	}
}

func TestParseRejectsMalformedAddress(t *testing.T) {
	if _, err := Parse("not-an-ip"); err == nil {
		t.Error("Parse() = nil error for a malformed address, want an error")
	}
}
