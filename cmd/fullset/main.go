// Package main provides the CLI entrypoint for fullset.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"fullset/internal/batch"
	"fullset/internal/collector"
	"fullset/internal/config"
	"fullset/internal/progress"
	"fullset/internal/render"
	"fullset/internal/sim"
	"fullset/internal/store"
	"fullset/internal/ui"
)

const version = "1.0.0"

const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

// errThresholdFailed marks a completed run whose threshold checks did not
// pass, so main can map it to its own exit code.
var errThresholdFailed = errors.New("threshold check failed")

var (
	runConfigPath string
	runTrials     int
	runWorkers    int
	runSeed       int64
	runOutput     string
	runQuiet      bool
	runVerbose    bool
	runChart      string
	runNoSave     bool
	runDBPath     string

	chartRun    string
	chartOut    string
	chartWidth  int
	chartHeight int
	chartDB     string

	historyLast   int
	historyBrowse bool
	historyDB     string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errThresholdFailed) {
			os.Exit(ExitThresholdFailed)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fullset",
		Short:         "Estimate how many draws it takes to earn all eight prizes",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBatchCmd,
	}

	rootCmd.Flags().StringVar(&runConfigPath, "config", "", "path to YAML config file")
	rootCmd.Flags().IntVarP(&runTrials, "trials", "n", 100, "number of trials to run")
	rootCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel workers (0 = one per CPU)")
	rootCmd.Flags().Int64Var(&runSeed, "seed", 0, "base random seed (0 = time-based)")
	rootCmd.Flags().StringVar(&runOutput, "output", "text", "output format: text, json")
	rootCmd.Flags().BoolVar(&runQuiet, "quiet", false, "suppress progress output during the run")
	rootCmd.Flags().BoolVar(&runVerbose, "verbose", false, "print the draw sequence of the first trials")
	rootCmd.Flags().StringVar(&runChart, "chart", "", "write a PNG histogram to this path after the run")
	rootCmd.Flags().BoolVar(&runNoSave, "no-save", false, "do not record this run in the history database")
	rootCmd.Flags().StringVar(&runDBPath, "db", "", "history database path")

	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(runConfigPath)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "trials", &runTrials, cfg.Simulation.Trials)
	applyIntConfig(cmd, "workers", &runWorkers, cfg.Simulation.Workers)
	applyInt64Config(cmd, "seed", &runSeed, cfg.Simulation.Seed)
	applyStringConfig(cmd, "output", &runOutput, cfg.Output.Format)
	applyBoolConfig(cmd, "quiet", &runQuiet, cfg.Output.Quiet)
	applyStringConfig(cmd, "chart", &runChart, cfg.Output.Chart)
	applyStringConfig(cmd, "db", &runDBPath, cfg.History.Path)

	if runOutput != "text" && runOutput != "json" {
		return fmt.Errorf("--output must be 'text' or 'json', got %q", runOutput)
	}
	// Progress and trial traces share stderr with nothing else; machine
	// output always goes to stdout untouched.
	quiet := runQuiet || runOutput == "json"

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prog := progress.New(runTrials, quiet)
	var trace *batch.TraceLogger
	if runVerbose {
		trace = batch.NewTraceLogger(os.Stderr)
	}

	prog.Printf("fullset starting: %d trials, seed %d", runTrials, runSeed)
	prog.Start()
	summary, err := batch.Run(ctx, batch.Options{
		Trials:   runTrials,
		Workers:  runWorkers,
		Seed:     runSeed,
		Progress: prog,
		Trace:    trace,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			prog.Print("interrupted")
		}
		return err
	}
	prog.Finish()

	// Without configured thresholds, check only the hard length bounds.
	// A mean tolerance is meaningful on large batches and comes from the
	// config file.
	thresholds := cfg.Thresholds
	if thresholds == nil {
		thresholds = &collector.Thresholds{
			MaxTrialLength: sim.MaxTrialLen,
			MinTrialLength: sim.MinTrialLen,
		}
	}
	results := thresholds.Check(summary)

	if runOutput == "json" {
		collector.FormatJSON(os.Stdout, summary, results)
	} else {
		collector.FormatText(os.Stdout, summary, results)
	}

	if cfg.History.Enabled && !runNoSave {
		if err := saveRun(ctx, cfg, summary); err != nil {
			prog.Printf("warning: run not saved: %v", err)
		}
	}

	if runChart != "" {
		if err := render.SaveChart(runChart, summary, render.ChartOptions{}); err != nil {
			return err
		}
		prog.Printf("chart written to %s", runChart)
	}

	if !results.Passed {
		if runOutput == "text" {
			fmt.Fprintln(os.Stderr, "\nThreshold check failed!")
		}
		return errThresholdFailed
	}
	return nil
}

func saveRun(ctx context.Context, cfg *config.Config, summary *collector.Summary) error {
	path := runDBPath
	if path == "" {
		path = cfg.HistoryPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	_, err = st.InsertRun(ctx, summary, runWorkers, runSeed)
	return err
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [summary.json]",
		Short: "Render a PNG histogram from a saved run or a JSON summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runChartCmd,
	}
	cmd.Flags().StringVar(&chartRun, "run", "latest", "run ID prefix from history, or 'latest'")
	cmd.Flags().StringVar(&chartOut, "out", "", "output path (default output/<trials>-sim.png)")
	cmd.Flags().IntVar(&chartWidth, "width", render.DefaultChartWidth, "image width in pixels")
	cmd.Flags().IntVar(&chartHeight, "height", render.DefaultChartHeight, "image height in pixels")
	cmd.Flags().StringVar(&chartDB, "db", "", "history database path")
	return cmd
}

func runChartCmd(cmd *cobra.Command, args []string) error {
	var summary *collector.Summary
	if len(args) == 1 {
		s, err := collector.ReadSummaryFile(args[0])
		if err != nil {
			return err
		}
		summary = s
	} else {
		s, err := loadStoredSummary(cmd.Context(), chartDB, chartRun)
		if err != nil {
			return err
		}
		summary = s
	}

	out := chartOut
	if out == "" {
		out = filepath.Join("output", strconv.Itoa(summary.Trials)+"-sim.png")
	}
	opts := render.ChartOptions{Width: chartWidth, Height: chartHeight}
	if err := render.SaveChart(out, summary, opts); err != nil {
		return err
	}
	logErrf("chart written to %s\n", out)
	return nil
}

func loadStoredSummary(ctx context.Context, dbPath, ref string) (*collector.Summary, error) {
	if dbPath == "" {
		dbPath = config.DefaultHistoryPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	run, err := st.GetRun(ctx, ref)
	if err != nil {
		return nil, err
	}
	buckets, err := st.Buckets(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &collector.Summary{
		RunID:     run.RunID,
		Trials:    run.Trials,
		Histogram: buckets,
		Elapsed:   run.Elapsed,
		Lengths: collector.LengthStats{
			Min:  run.MinLength,
			Max:  run.MaxLength,
			Mean: run.MeanLength,
		},
	}, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 20, "number of recent runs to show")
	cmd.Flags().BoolVar(&historyBrowse, "browse", false, "open the interactive browser")
	cmd.Flags().StringVar(&historyDB, "db", "", "history database path")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbPath := historyDB
	if dbPath == "" {
		dbPath = config.DefaultHistoryPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyBrowse {
		model := ui.NewModel(st)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history browser: %w", err)
		}
		return nil
	}

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		logErrln("no runs recorded yet")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(run.RunID),
			strconv.Itoa(run.Trials),
			fmt.Sprintf("%.4f", run.MeanLength),
			strconv.Itoa(run.MinLength),
			strconv.Itoa(run.MaxLength),
			collector.FormatDuration(run.Elapsed),
		}
	}
	return render.Table(cmd.OutOrStdout(),
		[]string{"WHEN", "RUN", "TRIALS", "MEAN", "MIN", "MAX", "ELAPSED"}, rows)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fullset %s\n", version)
		},
	}
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

func applyStringConfig(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) && value != "" {
		*target = value
	}
}

func applyIntConfig(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) && value != 0 {
		*target = value
	}
}

func applyInt64Config(cmd *cobra.Command, name string, target *int64, value int64) {
	if !cmd.Flags().Changed(name) && value != 0 {
		*target = value
	}
}

func applyBoolConfig(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) && value {
		*target = true
	}
}

func logErrf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func logErrln(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
}
