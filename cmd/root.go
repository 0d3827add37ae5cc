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

// Package cmd wires the scan engine into a command-line tool: argument
// parsing, config resolution, and the terminal/CSV renderers. None of this
// carries engine design -- the engine lives in the sibling packages, and
// this layer is the thin glue the specification calls out as an external
// collaborator.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anxiouscamel/verihosts/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "verihosts",
	Short: "Audit a local IPv4 range for hosts, services, and known CVEs",
	Long: "verihosts walks a contiguous range of IPv4 addresses, identifies every " +
		"reachable host, fingerprints its exposed TCP services, and reports CVEs " +
		"that plausibly affect them.",
}

// Execute runs the root command. It is called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLogger(&log.StderrLogger{Verbose: true})
		}
	})
	rootCmd.AddCommand(scanCmd)
}
