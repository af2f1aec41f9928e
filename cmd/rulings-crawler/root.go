package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rulings-crawler/internal/app"
	"rulings-crawler/internal/classifier"
	"rulings-crawler/internal/config"
	"rulings-crawler/internal/crawler"
	"rulings-crawler/internal/fetcher"
	"rulings-crawler/internal/observability"
	"rulings-crawler/internal/sets"
)

const logPrefix = "rulings-crawler"

type rootOptions struct {
	configPath      string
	setsPath        string
	logDir          string
	delayMS         int
	scrapeSet       string
	scrapeAll       bool
	multipleSources bool
	reftagSources   bool
	expectDigest    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "rulings-crawler (--scrape-set ID | --scrape-all) --multiple-sources",
		Short: "Find Digimon card rulings pages that match a heuristic",
		Long: `rulings-crawler walks every card number of one set (or of all known sets),
fetches the card's rulings page from the wiki and prints the cards whose page
matches the selected heuristic, each with a link to the page.`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Дальше ошибки не про флаги, usage не нужен
			cmd.SilenceUsage = true
			return runCrawl(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file (defaults are used when empty)")
	pf.StringVar(&opts.setsPath, "sets", "", "YAML set table overriding the built-in one")

	f := cmd.Flags()
	f.StringVar(&opts.logDir, "log", "", "directory for the run log (default: current directory)")
	f.IntVar(&opts.delayMS, "delay-ms", 0, "delay between page requests in milliseconds")
	f.StringVar(&opts.scrapeSet, "scrape-set", "", "crawl a single set, e.g. BT1")
	f.BoolVar(&opts.scrapeAll, "scrape-all", false, "crawl every known set")
	f.BoolVar(&opts.multipleSources, "multiple-sources", false, "match pages whose first list cites more than one source")
	f.BoolVar(&opts.reftagSources, "reftag-sources", false, "match pages with multiple reftag sources (not implemented)")
	f.StringVar(&opts.expectDigest, "expect-digest", "", "fail if the report's sha256 digest differs from this value")

	cmd.MarkFlagsMutuallyExclusive("scrape-set", "scrape-all")
	cmd.MarkFlagsOneRequired("scrape-set", "scrape-all")
	cmd.MarkFlagsMutuallyExclusive("multiple-sources", "reftag-sources")
	cmd.MarkFlagsOneRequired("multiple-sources", "reftag-sources")

	cmd.AddCommand(newSetsCmd(opts))

	return cmd
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	// Флаги важнее файла
	if cmd.Flags().Changed("log") {
		cfg.Observability.LogDir = opts.logDir
	}
	if cmd.Flags().Changed("delay-ms") {
		cfg.RateLimit.DelayMS = opts.delayMS
	}
	if opts.setsPath != "" {
		cfg.Sets.File = opts.setsPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func modeName(opts *rootOptions) string {
	if opts.reftagSources {
		return classifier.RefTagSources{}.Name()
	}
	return classifier.MultipleSources{}.Name()
}

func runCrawl(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(observability.Options{
		Dir:        cfg.Observability.LogDir,
		Prefix:     logPrefix,
		Level:      cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.MaxSizeMB,
		MaxBackups: cfg.Observability.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log: %v\n", err)
		}
	}()

	registry, err := sets.Load(cfg.Sets.File)
	if err != nil {
		logger.Error("Failed to load sets", "error", err.Error())
		return err
	}

	mode, err := classifier.Lookup(modeName(opts))
	if err != nil {
		return err
	}

	ctx, cancel := app.GracefulShutdown(cmd.Context(), logger)
	defer cancel()

	f := fetcher.NewFetcher(cfg, logger)
	throttle := fetcher.NewThrottle(cfg.GetDelay())
	sc := crawler.NewSetCrawler(registry, f, throttle, mode, cfg.LinkURL, logger)

	colored := term.IsTerminal(int(os.Stdout.Fd()))
	runner := app.NewRunner(registry, sc, mode, logger, colored, os.Stderr)

	rep, err := runner.Run(ctx, app.Request{SetID: opts.scrapeSet, All: opts.scrapeAll},
		"config", opts.configPath,
		"sets", cfg.Sets.File,
		"log_dir", cfg.Observability.LogDir,
		"delay_ms", cfg.RateLimit.DelayMS,
		"max_retries", cfg.HTTP.MaxRetries,
	)
	if err != nil {
		return err
	}
	return runner.CheckDigest(rep, opts.expectDigest)
}
