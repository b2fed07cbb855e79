package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghic-org/caltech-holidays/internal/calendar"
	"github.com/ghic-org/caltech-holidays/internal/config"
	"github.com/ghic-org/caltech-holidays/internal/event"
	"github.com/ghic-org/caltech-holidays/internal/holiday"
	"github.com/ghic-org/caltech-holidays/internal/logger"
	"github.com/ghic-org/caltech-holidays/internal/scraper"
)

const (
	ExitSuccess     = 0
	ExitFetchFailed = 1
	ExitParseFailed = 2
	ExitNoEvents    = 3
	ExitUnknown     = 255
)

var (
	flagConfig  string
	flagOutput  string
	flagDryRun  bool
	flagDisplay bool
	flagVerbose bool
	flagDebug   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caltech-holidays",
		Short: "Merge Caltech holiday observances into an iCalendar file",
		Long: `Scrapes the Caltech holiday-observances page and merges the holidays it
finds into a persistent iCalendar file. Events carry deterministic IDs, so
re-running against a changed page never produces duplicate entries.`,
		SilenceUsage: true,
		RunE:         runSync,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&flagOutput, "icalendar", "", "Name to write icalendar file to (default caltech_holidays.ics)")
	cmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Disable writing")
	cmd.Flags().BoolVar(&flagDisplay, "display", false, "Print calendar")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable INFO level log messages")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable DEBUG level log messages")

	return cmd
}

// runSync is the main command logic
func runSync(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	output := cfg.Output
	if flagOutput != "" {
		output = flagOutput
	}

	sc := scraper.New(cfg.SourceURL, cfg.UserAgent,
		time.Duration(cfg.TimeoutSeconds)*time.Second, log)

	body, lastModified, err := sc.Get()
	if err != nil {
		log.Error("downloading holiday page failed", logger.Fields{"url": sc.URL()}, err)
		os.Exit(ExitFetchFailed)
	}

	stamp, err := scraper.ParseLastModified(lastModified)
	if err != nil {
		log.Error("unusable Last-Modified header", logger.Fields{"header": lastModified}, err)
		os.Exit(ExitParseFailed)
	}

	doc, err := scraper.ParseDocument(body)
	if err != nil {
		log.Error("parsing holiday page failed", nil, err)
		os.Exit(ExitParseFailed)
	}

	cal, err := calendar.LoadOrCreate(output, log)
	if err != nil {
		return fmt.Errorf("loading calendar: %w", err)
	}

	records, err := holiday.Extract(doc, log)
	if err != nil {
		log.Error("extracting observance tables failed", nil, err)
		os.Exit(ExitParseFailed)
	}

	inserted := 0
	for _, rec := range records {
		if calendar.AddUnique(cal, event.New(rec.Date, rec.Description, stamp), log) {
			inserted++
		}
	}

	if !flagDryRun {
		if err := calendar.Write(cal, output); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
	}

	if flagDisplay {
		fmt.Println(calendar.Display(cal))
	}

	log.Info("run complete", logger.Fields{
		"records":    len(records),
		"inserted":   inserted,
		"duplicates": len(records) - inserted,
		"dry_run":    flagDryRun,
		"output":     output,
	})
	log.Debug("counters", logger.Fields{"snapshot": logger.GetMetricsSnapshot()})

	if len(records) == 0 {
		log.Warn("no entries found", nil)
		os.Exit(ExitNoEvents)
	}

	os.Exit(ExitSuccess)
	return nil
}

// newLogger builds the run logger from the verbosity flags and installs it
// as the package default.
func newLogger() *logger.Logger {
	level := logger.LevelWarn
	if flagVerbose {
		level = logger.LevelInfo
	}
	if flagDebug {
		level = logger.LevelDebug
	}

	log := logger.New(level, os.Stderr)
	logger.SetDefault(log)
	return log
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUnknown)
	}
}
