package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rosterscraper/pkg/checkpoint"
	"rosterscraper/pkg/config"
	"rosterscraper/pkg/logger"
	"rosterscraper/pkg/registrar"
	"rosterscraper/pkg/scraper"
	"rosterscraper/pkg/ui"
)

var (
	// Scrape command flags
	startID         int
	endID           int
	delay           time.Duration
	checkpointEvery int
	runMode         string
	term            string
	outputFile      string
	outputDir       string
	headless        bool
	skipLogin       bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scan a course-number range and collect instructor names",
	Long: `Scan a range of five-digit course numbers and collect the
instructor names listed on each existing course page.

A browser window opens on the registrar's login page first; complete
the login there (including any second factor), then press Enter in
this terminal to start the scan. The browser session carries the
authentication for every course page fetched afterwards.

The accumulated result set is written to the output CSV every
--checkpoint-every identifiers and once more at the end. Interrupting
the run with Ctrl-C still performs a final write.`,
	Example: `  # Scan the whole course-number space with defaults
  rosterscraper scrape

  # Scan a sub-range with a slower politeness delay
  rosterscraper scrape --start 10000 --end 20000 --delay 500ms

  # Resume an interrupted run; dedup makes re-scanning idempotent
  rosterscraper scrape --mode append

  # Keep each run in its own numbered file
  rosterscraper scrape --mode unique`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVar(&startID, "start", 0, "first course number to scan (inclusive)")
	scrapeCmd.Flags().IntVar(&endID, "end", 100000, "course number to stop at (exclusive)")
	scrapeCmd.Flags().DurationVar(&delay, "delay", 100*time.Millisecond, "politeness delay between page requests")
	scrapeCmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", 1000, "write the checkpoint file every N identifiers")
	scrapeCmd.Flags().StringVar(&runMode, "mode", config.ModeOverwrite, "checkpoint file mode: overwrite, append or unique")
	scrapeCmd.Flags().StringVar(&term, "term", "", "registrar term code, e.g. 20259")
	scrapeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output CSV file name")
	scrapeCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for output and checkpoint files")
	scrapeCmd.Flags().BoolVar(&headless, "headless", false, "run the browser headless (only with an already valid session)")
	scrapeCmd.Flags().BoolVar(&skipLogin, "skip-login", false, "skip the interactive login hand-off")
}

func runScrape(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{
		"log-level": logLevel,
	}
	if cmd.Flags().Changed("start") {
		flags["start"] = startID
	}
	if cmd.Flags().Changed("end") {
		flags["end"] = endID
	}
	if cmd.Flags().Changed("delay") {
		flags["delay"] = delay
	}
	if cmd.Flags().Changed("checkpoint-every") {
		flags["checkpoint-every"] = checkpointEvery
	}
	if cmd.Flags().Changed("mode") {
		flags["mode"] = runMode
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if term != "" {
		flags["term"] = term
	}
	if outputFile != "" {
		flags["output"] = outputFile
	}
	if outputDir != "" {
		flags["output-dir"] = outputDir
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err)
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err)
		return err
	}
	log := logger.GetLogger()

	// Unique mode gets its own numbered file; the loop itself then
	// behaves like overwrite on a fresh path.
	if cfg.Scrape.Mode == config.ModeUnique {
		cfg.Output.File = checkpoint.NextRunPath(cfg.Output.Directory, cfg.Output.File)
	}

	store, err := checkpoint.NewStore(cfg.Output.Directory, cfg.Output.File)
	if err != nil {
		ui.PrintError("Failed to prepare output file", err)
		return err
	}

	ui.PrintInfo("Range", fmt.Sprintf("%05d-%05d", cfg.Scrape.Start, cfg.Scrape.End-1))
	ui.PrintInfo("Output", store.Path())
	ui.PrintInfo("Mode", cfg.Scrape.Mode)

	browser, err := registrar.NewBrowser(cfg)
	if err != nil {
		ui.PrintError("Failed to start browser", err)
		return err
	}
	defer browser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !skipLogin {
		if err := browser.OpenLogin(ctx); err != nil {
			ui.PrintError("Failed to open login page", err)
			return err
		}
		ui.PrintWarning("Complete the login in the browser window, then press Enter here to start scraping...")
		if err := waitForEnter(ctx); err != nil {
			return nil // interrupted before the run started
		}
	}

	s := scraper.New(cfg, browser, store)
	progress := ui.NewProgress(cfg.Scrape.End-cfg.Scrape.Start, 100, quiet)
	s.SetProgress(func(st scraper.RunState) {
		progress.Update(st.Scanned, st.Found)
	})

	state, err := s.Run(ctx)
	if err != nil {
		log.WithError(err).Error("run aborted")
		ui.PrintError("Run aborted", err)
		return err
	}

	progress.Finish(state.Scanned, state.Found)
	if state.Interrupted {
		ui.PrintWarning("Run interrupted; progress saved. Re-run with --mode append to continue.")
	}
	ui.PrintSuccess(fmt.Sprintf("Saved %d instructors to %s", state.Found, store.Path()))
	return nil
}

// waitForEnter blocks until the operator presses Enter or the run is
// interrupted. On interrupt the reader goroutine stays blocked on
// stdin; the process is about to exit, so it is never reaped.
func waitForEnter(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		reader := bufio.NewReader(os.Stdin)
		_, _ = reader.ReadString('\n')
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
