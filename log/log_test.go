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

package log

import (
	"fmt"
	"testing"
)

type captureLogger struct {
	lines []string
}

func (c *captureLogger) record(level, format string, args ...any) {
	c.lines = append(c.lines, level+" "+fmt.Sprintf(format, args...))
}

func (c *captureLogger) Errorf(format string, args ...any) { c.record("error", format, args...) }
func (c *captureLogger) Warnf(format string, args ...any)  { c.record("warn", format, args...) }
func (c *captureLogger) Infof(format string, args ...any)  { c.record("info", format, args...) }
func (c *captureLogger) Debugf(format string, args ...any) { c.record("debug", format, args...) }

func TestSetLoggerRoutesAllLevels(t *testing.T) {
	c := &captureLogger{}
	SetLogger(c)
	defer SetLogger(&StderrLogger{})

	Errorf("e %d", 1)
	Warnf("w %d", 2)
	Infof("i %d", 3)
	Debugf("d %d", 4)

	want := []string{"error e 1", "warn w 2", "info i 3", "debug d 4"}
	if len(c.lines) != len(want) {
		t.Fatalf("captured %d lines, want %d: %v", len(c.lines), len(want), c.lines)
	}
	for i, line := range want {
		if c.lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, c.lines[i], line)
		}
	}
}
