// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bioscrape/plasmid-engine/internal/addgene"
	"github.com/bioscrape/plasmid-engine/internal/harvest"
	"github.com/bioscrape/plasmid-engine/internal/sink"
	"github.com/bioscrape/plasmid-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "plasmid-engine/0.1"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [identifiers...]",
	Short: "Download plasmid records by numeric identifier",
	Long: `Harvest fetches the detail and sequence pages for each identifier,
extracts the attribute schema, downloads the annotated-sequence file when
one exists, and writes each assembled record to the selected sink.

Identifiers come from the argument list, from --range start:end, or both.
Not-found identifiers are skipped; transient network failures are retried
with bounded backoff.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("range", "", "inclusive identifier range start:end (e.g. 1:500)")
	harvestCmd.Flags().String("base-url", addgene.DefaultBaseURL, "vendor base URL")
	harvestCmd.Flags().String("vendor", addgene.VendorAddgene, "vendor profile tag")
	harvestCmd.Flags().String("sink", "csv", "output sink: csv, json, files, or sql")
	harvestCmd.Flags().String("out", "plasmids", "output path (file for csv, directory otherwise)")
	harvestCmd.Flags().String("driver", "sqlite3", "database driver for --sink sql: sqlite3 or postgres")
	harvestCmd.Flags().String("dsn", "", "database connection string (postgres falls back to .secrets/postgres-dsn)")
	harvestCmd.Flags().Int("concurrency", 8, "worker pool size")
	harvestCmd.Flags().Float64("rate", 4, "maximum outbound requests per second")
	harvestCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	harvestCmd.Flags().Int("max-attempts", 0, "retry attempt budget per operation (default 623)")

	viper.BindPFlag("base_url", harvestCmd.Flags().Lookup("base-url"))
	viper.BindPFlag("vendor", harvestCmd.Flags().Lookup("vendor"))
	viper.BindPFlag("concurrency", harvestCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("requests_per_second", harvestCmd.Flags().Lookup("rate"))

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	ids, err := collectIdentifiers(cmd, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide one or more numeric identifiers or --range start:end")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	out, _ := cmd.Flags().GetString("out")

	cfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Retry:             types.RetryConfig{MaxAttempts: maxAttempts},
		BaseURL:           viper.GetString("base_url"),
		Vendor:            viper.GetString("vendor"),
		Concurrency:       viper.GetInt("concurrency"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		OutputDir:         out,
	}

	target, err := buildSink(cmd, out)
	if err != nil {
		return err
	}
	defer target.Close()

	// Stop after in-flight identifiers drain; accumulated records survive.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := harvest.New(cfg, target, slog.Default())
	result, runErr := pipeline.Run(ctx, ids)
	if runErr != nil {
		slog.Warn("batch interrupted", "error", runErr)
	}
	if result.HasFailures() {
		return fmt.Errorf("%d identifier(s) failed", result.Failed)
	}
	return nil
}

// collectIdentifiers merges positional arguments with the --range flag,
// preserving order: explicit arguments first, then the range.
func collectIdentifiers(cmd *cobra.Command, args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("identifier %q is not numeric", arg)
		}
		ids = append(ids, id)
	}

	rangeSpec, _ := cmd.Flags().GetString("range")
	if rangeSpec == "" {
		return ids, nil
	}
	start, end, err := parseRange(rangeSpec)
	if err != nil {
		return nil, err
	}
	for id := start; id <= end; id++ {
		ids = append(ids, id)
	}
	return ids, nil
}

func parseRange(spec string) (start, end int, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q must be start:end", spec)
	}
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("range start %q is not numeric", parts[0])
	}
	end, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("range end %q is not numeric", parts[1])
	}
	if start <= 0 || end < start {
		return 0, 0, fmt.Errorf("range %q must satisfy 0 < start <= end", spec)
	}
	return start, end, nil
}

func buildSink(cmd *cobra.Command, out string) (sink.Sink, error) {
	kind, _ := cmd.Flags().GetString("sink")
	switch kind {
	case "csv":
		path := out
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "plasmids.csv")
		}
		return sink.NewCSVSink(path)
	case "json":
		return sink.NewJSONSink(out)
	case "files":
		return sink.NewFilesSink(out)
	case "sql":
		driver, _ := cmd.Flags().GetString("driver")
		dsn, _ := cmd.Flags().GetString("dsn")
		if driver == "postgres" {
			dsn = loadedSecrets.PostgresDSN(dsn)
		}
		if driver == "sqlite3" && dsn == "" {
			dsn = filepath.Join(out, "plasmids.db")
			if err := os.MkdirAll(out, 0o755); err != nil {
				return nil, fmt.Errorf("creating output directory: %w", err)
			}
		}
		if dsn == "" {
			return nil, fmt.Errorf("--sink sql with driver %s requires --dsn or .secrets/postgres-dsn", driver)
		}
		return sink.NewSQLSink(driver, dsn)
	default:
		return nil, fmt.Errorf("unknown sink %q: want csv, json, files, or sql", kind)
	}
}
