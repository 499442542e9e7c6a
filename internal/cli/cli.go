// Package cli implements the command-line interface for seller-report.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/retailops/seller-report/internal/config"
	"github.com/retailops/seller-report/internal/logctx"
	"github.com/retailops/seller-report/pkg/dataset"
	"github.com/retailops/seller-report/pkg/logging"
	"github.com/retailops/seller-report/pkg/report"
	"github.com/retailops/seller-report/pkg/s3fetch"
)

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: seller-report <command> [options]\ncommands: report")
	}

	switch args[0] {
	case "report":
		return runReport(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// Envelope wraps the report rows for serialization. The pipeline itself
// returns bare rows; the id and timestamp exist so emitted files are
// traceable to a run.
type Envelope struct {
	ReportID    string       `json:"report_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Rows        []report.Row `json:"rows"`
}

func runReport(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	sellersPath := fs.String("sellers", "", "sellers JSON file (path or s3:// URI)")
	productsPath := fs.String("products", "", "products JSON file (path or s3:// URI)")
	purchasesPath := fs.String("purchases", "", "purchase records file, JSON or Parquet (path or s3:// URI)")
	outPath := fs.String("out", "", "write the report JSON to this file instead of stdout")
	debug := fs.Bool("debug", cfg.Debug, "enable debug logging")
	human := fs.Bool("human", cfg.HumanLog, "human-friendly console logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sellersPath == "" {
		return errors.New("--sellers is required")
	}
	if *productsPath == "" {
		return errors.New("--products is required")
	}
	if *purchasesPath == "" {
		return errors.New("--purchases is required")
	}

	logging.Init(*debug, *human)
	reportID := uuid.NewString()
	log := logging.L().With().Str("report_id", reportID).Logger()
	ctx := logctx.WithLogger(context.Background(), log)

	inputs, err := stageInputs(ctx, cfg, []string{*sellersPath, *productsPath, *purchasesPath})
	if err != nil {
		return err
	}

	bundle, err := dataset.LoadBundle(ctx, inputs[0], inputs[1], inputs[2])
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := report.Compute(ctx, bundle, &report.Options{
		CalculateRevenue: report.SimpleRevenue,
		CalculateBonus:   report.BonusByProfitRank,
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("sellers", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("report computed")

	envelope := Envelope{
		ReportID:    reportID,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}
	return writeEnvelope(envelope, *outPath)
}

// stageInputs downloads any s3:// inputs to a local staging directory
// and returns local paths, index-aligned with the given paths.
func stageInputs(ctx context.Context, cfg *config.Config, paths []string) ([]string, error) {
	var remote []string
	for _, p := range paths {
		if s3fetch.IsS3URI(p) {
			remote = append(remote, p)
		}
	}
	if len(remote) == 0 {
		return paths, nil
	}

	downloadDir := cfg.DownloadDir
	if downloadDir == "" {
		dir, err := os.MkdirTemp("", "seller-report-*")
		if err != nil {
			return nil, fmt.Errorf("create staging dir: %w", err)
		}
		downloadDir = dir
	}

	client, err := s3fetch.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	fetcher := s3fetch.NewFetcher(client, s3fetch.FetchConfig{
		DownloadDir: downloadDir,
		Concurrency: cfg.DownloadConcurrency,
	})

	local, err := fetcher.Fetch(ctx, remote)
	if err != nil {
		return nil, err
	}

	staged := make([]string, len(paths))
	next := 0
	for i, p := range paths {
		if s3fetch.IsS3URI(p) {
			staged[i] = local[next]
			next++
		} else {
			staged[i] = p
		}
	}
	return staged, nil
}

func writeEnvelope(envelope Envelope, outPath string) error {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
