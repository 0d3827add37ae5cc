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

// Package log is the sink the scan engine reports through. The engine runs
// many probers concurrently and most of what they have to say is noise
// unless a scan is misbehaving, so the default sink writes terse leveled
// lines to stderr and drops debug output entirely; a program embedding the
// engine can swap in its own Logger instead of being forced onto a
// framework.
package log

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger receives every line the scan engine emits. Implementations must
// be safe for concurrent use: host and port probers across a whole batch
// log through the same instance.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

var (
	mu   sync.RWMutex
	sink Logger = &StderrLogger{}
)

// SetLogger replaces the package-level sink. Safe to call while a scan is
// running; in-flight log calls finish against whichever sink they started
// with.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	sink = l
}

func current() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return sink
}

// Errorf logs a formatted error line.
func Errorf(format string, args ...any) {
	current().Errorf(format, args...)
}

// Warnf logs a formatted warning line.
func Warnf(format string, args ...any) {
	current().Warnf(format, args...)
}

// Infof logs a formatted info line.
func Infof(format string, args ...any) {
	current().Infof(format, args...)
}

// Debugf logs a formatted debug line. The default sink discards these
// unless verbose output was requested.
func Debugf(format string, args ...any) {
	current().Debugf(format, args...)
}

// StderrLogger is the default sink: one timestamped, level-tagged line per
// record on stderr. Debug lines are dropped unless Verbose is set, since a
// full scan emits one per closed port otherwise.
type StderrLogger struct {
	Verbose bool
}

func (s *StderrLogger) emit(level, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s %s\n",
		time.Now().Format("15:04:05"), level, fmt.Sprintf(format, args...))
}

// Errorf writes an ERROR line to stderr.
func (s *StderrLogger) Errorf(format string, args ...any) {
	s.emit("ERROR", format, args...)
}

// Warnf writes a WARN line to stderr.
func (s *StderrLogger) Warnf(format string, args ...any) {
	s.emit("WARN ", format, args...)
}

// Infof writes an INFO line to stderr.
func (s *StderrLogger) Infof(format string, args ...any) {
	s.emit("INFO ", format, args...)
}

// Debugf writes a DEBUG line to stderr when Verbose is set.
func (s *StderrLogger) Debugf(format string, args ...any) {
	if s.Verbose {
		s.emit("DEBUG", format, args...)
	}
}
