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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/anxiouscamel/verihosts/budget"
	"github.com/anxiouscamel/verihosts/config"
	"github.com/anxiouscamel/verihosts/cve"
	"github.com/anxiouscamel/verihosts/governor"
	"github.com/anxiouscamel/verihosts/hostprobe"
	"github.com/anxiouscamel/verihosts/iprange"
	"github.com/anxiouscamel/verihosts/log"
	"github.com/anxiouscamel/verihosts/nvdfeed"
	"github.com/anxiouscamel/verihosts/oui"
	"github.com/anxiouscamel/verihosts/report"
	"github.com/anxiouscamel/verihosts/scanner"
	"github.com/anxiouscamel/verihosts/stats"
)

var scanFlags struct {
	mode         string
	configFile   string
	ouiPath      string
	csvPath      string
	forceRebuild bool
}

var scanCmd = &cobra.Command{
	Use:   "scan <range>",
	Short: "Scan an IPv4 range",
	Long: "Scan audits every address in <range> (a single IP, a dashed range like " +
		"\"10.0.0.1-10.0.0.254\", or a CIDR block like \"10.0.0.0/24\") and prints a " +
		"table of hosts, open ports, service banners, and matched CVEs.",
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFlags.mode, "mode", "m", "auto", "preset: auto, leve, or completo")
	scanCmd.Flags().StringVarP(&scanFlags.configFile, "config", "c", "", "path to a TOML config file overlaying the preset")
	scanCmd.Flags().StringVar(&scanFlags.ouiPath, "oui-file", "manuf", "path to the OUI vendor table")
	scanCmd.Flags().StringVarP(&scanFlags.csvPath, "csv", "o", "", "write results as CSV to this path in addition to the terminal table")
	scanCmd.Flags().BoolVar(&scanFlags.forceRebuild, "rebuild-cve-index", false, "force a rebuild of the CVE index cache")
}

func runScan(cmd *cobra.Command, args []string) error {
	targets, err := iprange.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing target range: %w", err)
	}

	cfg, err := config.Resolve(config.Mode(scanFlags.mode), scanFlags.configFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// An interrupt stops the batch loop at its next boundary; whatever has
	// been aggregated so far is still rendered below.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	vendors, err := oui.Load(scanFlags.ouiPath)
	if err != nil {
		log.Warnf("scan: OUI table unavailable, vendor lookup disabled: %v", err)
		vendors = nil
	}

	collector := stats.NoopCollector{}

	var cveIndex *cve.Index
	if !cfg.SkipCVE {
		cveIndex, err = buildOrLoadCVEIndex(ctx, cfg, collector)
		if err != nil {
			log.Warnf("scan: CVE index unavailable, vulnerability matching disabled: %v", err)
			cveIndex = nil
		}
	}

	b := budget.New(cfg.MaxSockets)

	// A disabled governor leaves the batch shape fixed at the preset's
	// seed values for the whole run; scanner.Driver treats a nil Governor
	// as "never adjust".
	var gov *governor.Governor
	if cfg.Adaptive {
		thresholds := governor.DefaultThresholds(cfg.Timeout)
		gov = governor.New(thresholds, b.Limit())
	}

	newProber := func(shape governor.Shape) scanner.Prober {
		opts := hostprobe.Options{
			Ports:           hostprobe.CommonPorts,
			PortConcurrency: shape.Ports,
			SocketTimeout:   shape.Timeout,
			ResolveHostname: cfg.ResolveHostname,
			TCPOnly:         cfg.TCPOnly,
			Budget:          b,
			Collector:       collector,
		}
		if vendors != nil {
			opts.Vendors = vendors
		}
		if cveIndex != nil {
			opts.CVEs = cveIndex
		}
		return hostprobe.New(opts)
	}

	driver := scanner.New(scanner.Options{
		NewProber: newProber,
		Governor:  gov,
		Collector: collector,
		Progress: func(completedTotal, totalTargets, completedBatch, batchSize int) {
			fmt.Fprintf(os.Stderr, "\rscanning: %d/%d hosts", completedTotal, totalTargets)
		},
	})

	initial := governor.Shape{
		BatchSize: cfg.BatchSize,
		Hosts:     cfg.Hosts,
		Ports:     cfg.Ports,
		Timeout:   cfg.Timeout,
	}

	results := driver.Run(ctx, targets, initial)
	fmt.Fprintln(os.Stderr)

	fmt.Println(report.Table(results))

	if scanFlags.csvPath != "" {
		f, err := os.Create(scanFlags.csvPath)
		if err != nil {
			return fmt.Errorf("creating CSV output %s: %w", scanFlags.csvPath, err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, results); err != nil {
			return fmt.Errorf("writing CSV output: %w", err)
		}
	}
	return nil
}

func buildOrLoadCVEIndex(ctx context.Context, cfg config.Config, collector stats.Collector) (*cve.Index, error) {
	if !cfg.SkipNVDUpdate {
		if err := nvdfeed.Update(ctx, cfg.NVDDir, time.Now()); err != nil {
			log.Warnf("scan: NVD feed refresh failed, using whatever is on disk: %v", err)
		}
	}

	start := time.Now()
	if idx, ok := cve.OpenCached(cfg.NVDDir, scanFlags.forceRebuild); ok {
		log.Infof("scan: CVE index loaded from cache: %d entries in %d buckets", idx.EntryCount(), idx.Len())
		collector.AfterCVEIndexBuilt(idx.EntryCount(), idx.Len(), true, time.Since(start))
		return idx, nil
	}

	idx, err := cve.Build(cfg.NVDDir, cve.BuildOptions{
		MaxYears:    cfg.NVDIndexMaxYears,
		Now:         time.Now().Year(),
		PartAllowed: cfg.CPEPartAllowed,
	})
	if err != nil {
		return nil, err
	}
	log.Infof("scan: CVE index built: %d entries in %d buckets", idx.EntryCount(), idx.Len())
	collector.AfterCVEIndexBuilt(idx.EntryCount(), idx.Len(), false, time.Since(start))
	if err := idx.Save(cfg.NVDDir); err != nil {
		log.Warnf("scan: failed to persist CVE index cache: %v", err)
	}
	return idx, nil
}
