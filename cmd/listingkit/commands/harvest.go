package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/listingkit/listingkit/internal/logger"
	"github.com/listingkit/listingkit/internal/output"
	"github.com/listingkit/listingkit/internal/store"
	"github.com/listingkit/listingkit/pkg/kb"
	"github.com/listingkit/listingkit/pkg/pipeline"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest records from listing and agent URLs",
	Long: `Harvest fetches each URL through the strategy chain, extracts
attributes with the site-specific adapter (falling back to generic
extraction when it yields too little), and emits one normalized record
per URL.

Examples:
  # Single URL to stdout
  listingkit harvest -u "https://www.zillow.com/homedetails/123-Main-St/456_zpid/"

  # Batch from a file, JSONL output, persisted locally
  listingkit harvest --input urls.txt --format jsonl -o records.jsonl --db listings.db

  # Knowledge documents instead of raw records
  listingkit harvest -u "https://www.trulia.com/p/ca/oakland/123" --kb --format markdown`,
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	flags := harvestCmd.Flags()

	// URL inputs
	flags.StringSliceP("url", "u", nil, "URL(s) to harvest (can be repeated)")
	flags.String("input", "", "file with one URL per line (lines starting with # are skipped)")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, markdown")
	flags.Bool("kb", false, "emit knowledge documents instead of raw records")
	flags.String("db", "", "SQLite file to persist records into")
	flags.Bool("report", true, "print batch summary to stderr (use --report=false to disable)")

	// Fetch settings
	flags.Duration("timeout", 15*time.Second, "per-request timeout")
	flags.Int("retries", 3, "per-strategy retry attempts")
	flags.Duration("min-delay", 2*time.Second, "minimum pause before each direct request")
	flags.Duration("max-delay", 5*time.Second, "maximum pause before each direct request")
	flags.Duration("batch-delay", 3*time.Second, "pause between batch items")
	flags.Bool("browser", false, "enable the headless-browser fallback strategy (needs local Chrome)")

	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("retries", flags.Lookup("retries"))
	_ = viper.BindPFlag("browser", flags.Lookup("browser"))
}

func runHarvest(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	urls, err := collectURLs(cmd)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return cmd.Help()
	}
	logger.Debug("URLs to process", "count", len(urls))

	minDelay, _ := cmd.Flags().GetDuration("min-delay")
	maxDelay, _ := cmd.Flags().GetDuration("max-delay")
	batchDelay, _ := cmd.Flags().GetDuration("batch-delay")

	cfg := pipeline.Config{
		Timeout:       viper.GetDuration("timeout"),
		RetryAttempts: viper.GetInt("retries"),
		MinDelay:      minDelay,
		MaxDelay:      maxDelay,
		BatchDelay:    batchDelay,
		UseBrowser:    viper.GetBool("browser"),
	}

	harvester, err := pipeline.New(cfg)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer harvester.Close()

	writer, cleanup, err := openWriter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var repo store.Repository
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		repo, err = store.Open(dbPath)
		if err != nil {
			logError("%v", err)
			return err
		}
		defer repo.Close()
	}

	asKB, _ := cmd.Flags().GetBool("kb")

	report := harvester.RunBatch(ctx, urls)
	for _, item := range report.Items {
		if item.Err != nil {
			continue
		}
		if err := emit(ctx, writer, repo, item.Result, asKB); err != nil {
			logError("writing result for %s: %v", item.URL, err)
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if showReport, _ := cmd.Flags().GetBool("report"); showReport {
		printReport(report)
	}

	if report.Successful == 0 && report.TotalURLs > 0 {
		return fmt.Errorf("no URLs harvested successfully")
	}
	return nil
}

func emit(ctx context.Context, writer output.Writer, repo store.Repository, res *pipeline.Result, asKB bool) error {
	if repo != nil {
		var err error
		switch {
		case res.Property != nil:
			err = repo.SaveProperty(ctx, res.Property)
		case res.Agent != nil:
			err = repo.SaveAgent(ctx, res.Agent)
		}
		if err != nil {
			return err
		}
	}

	if !asKB {
		return writer.Write(res)
	}
	switch {
	case res.Property != nil:
		return writer.Write(kb.FromProperty(res.Property))
	case res.Agent != nil:
		return writer.Write(kb.FromAgent(res.Agent))
	}
	return nil
}

func collectURLs(cmd *cobra.Command) ([]string, error) {
	urls, _ := cmd.Flags().GetStringSlice("url")

	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return urls, nil
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening URL file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func openWriter(cmd *cobra.Command) (output.Writer, func(), error) {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	dest := os.Stdout
	cleanup := func() {}
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("creating output file: %w", err)
		}
		dest = f
		cleanup = func() { f.Close() }
	}

	writer, err := output.NewWriter(dest, format)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return writer, cleanup, nil
}

func printReport(report pipeline.Report) {
	logInfo("")
	logInfo("Harvest complete: %d/%d succeeded, %d failed in %s",
		report.Successful, report.TotalURLs, report.Failed, report.Elapsed.Round(time.Millisecond))
	logInfo("Attributes extracted: %d, photos collected: %d", report.TotalAttribute, report.TotalPhotos)
	names := make([]string, 0, len(report.AttributeHits))
	for name := range report.AttributeHits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logInfo("  %s: %d", name, report.AttributeHits[name])
	}
	for _, item := range report.Items {
		if item.Err != nil {
			logInfo("  failed: %s (%v)", item.URL, item.Err)
		}
	}
}
