// Package main provides the CLI entrypoint for tensestats.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/romanian-parlamint/future-tense-usage/internal/config"
	"github.com/romanian-parlamint/future-tense-usage/internal/corpus"
	"github.com/romanian-parlamint/future-tense-usage/internal/logger"
	"github.com/romanian-parlamint/future-tense-usage/internal/model"
	"github.com/romanian-parlamint/future-tense-usage/internal/runner"
	"github.com/romanian-parlamint/future-tense-usage/internal/stats"
	"github.com/romanian-parlamint/future-tense-usage/internal/statsui"
	"github.com/romanian-parlamint/future-tense-usage/internal/usage"
	"github.com/romanian-parlamint/future-tense-usage/internal/verbforms"
)

const (
	defaultCorpusRootFile   = "data/corpus/ParlaMint-RO.xml"
	defaultVerbFormsFile    = "data/verb-forms.csv"
	defaultSessionStatsFile = "data/future-usage-per-speaker.csv"
	defaultFormStatsFile    = "data/future-usage-per-form.csv"
	defaultLegislaturesDir  = "data/legislatures"
	defaultPlotDataFile     = "data/plot-data.csv"
	defaultJobs             = -2
	defaultTopForms         = 100
	defaultTopSpeakers      = 10
	defaultCurveWindow      = 5
	defaultLogLevel         = "info"
)

var (
	corpusRootFile string
	verbFormsFile  string
	numJobs        int
	logLevel       string

	perSessionStatsFile string
	perFormStatsFile    string

	topFormsN         int
	topFormsStatsFile string
	savePlotData      bool
	plotDataFile      string

	topSpeakersN         int
	topSpeakersStatsFile string
	legislaturesDir      string

	browseSessionFile  string
	browseFormFile     string
	browseLegislatures string
	browseTopN         int
	browseCurveWindow  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tensestats",
		Short:         "Future-tense usage statistics for the ParlaMint-RO corpus",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&corpusRootFile, "corpus-root-file", defaultCorpusRootFile, "path of the corpus root file")
	rootCmd.PersistentFlags().StringVar(&verbFormsFile, "verb-forms-file", defaultVerbFormsFile, "path of the CSV file containing verb forms")
	rootCmd.PersistentFlags().IntVar(&numJobs, "num-jobs", defaultJobs, "maximum number of concurrently running jobs")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", defaultLogLevel, "level of details to print when running (debug, info, warning, error)")

	rootCmd.AddCommand(newPerSessionCmd())
	rootCmd.AddCommand(newPerFormCmd())
	rootCmd.AddCommand(newTopFormsCmd())
	rootCmd.AddCommand(newTopSpeakersCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newPerSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "per-session",
		Short: "Compute usage counts per speaker and session",
		Args:  cobra.NoArgs,
		RunE:  runPerSessionCmd,
	}
	cmd.Flags().StringVar(&perSessionStatsFile, "statistics-file", defaultSessionStatsFile, "path of the output CSV file containing statistics")
	return cmd
}

func runPerSessionCmd(cmd *cobra.Command, _ []string) error {
	if err := applyAnalysisConfig(cmd); err != nil {
		return err
	}
	forms, files, err := loadAnalysisInputs()
	if err != nil {
		return err
	}
	workers := runner.ResolveJobs(numJobs)
	logger.Infof("Computing per-session statistics from %d files on %d workers.", len(files), workers)
	partials, err := runner.Map(context.Background(), files, workers, func(path string) (model.SessionUsage, error) {
		return usage.CollectSessionUsage(forms, path)
	})
	if err != nil {
		return err
	}
	rows := usage.AggregateSessionUsage(partials)
	if err := usage.SaveSessionUsage(perSessionStatsFile, rows); err != nil {
		return err
	}
	logger.Infof("Wrote %d rows to %s.", len(rows), perSessionStatsFile)
	return nil
}

func newPerFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "per-form",
		Short: "Compute usage counts per speaker, session, and verb form",
		Args:  cobra.NoArgs,
		RunE:  runPerFormCmd,
	}
	cmd.Flags().StringVar(&perFormStatsFile, "statistics-file", defaultFormStatsFile, "path of the output CSV file containing statistics")
	return cmd
}

func runPerFormCmd(cmd *cobra.Command, _ []string) error {
	if err := applyAnalysisConfig(cmd); err != nil {
		return err
	}
	forms, files, err := loadAnalysisInputs()
	if err != nil {
		return err
	}
	workers := runner.ResolveJobs(numJobs)
	logger.Infof("Computing per-form statistics from %d files on %d workers.", len(files), workers)
	partials, err := runner.Map(context.Background(), files, workers, func(path string) (model.FormUsage, error) {
		return usage.CollectFormUsage(forms, path)
	})
	if err != nil {
		return err
	}
	rows := usage.AggregateFormUsage(partials)
	if err := usage.SaveFormUsage(perFormStatsFile, rows); err != nil {
		return err
	}
	logger.Infof("Wrote %d rows to %s.", len(rows), perFormStatsFile)
	return nil
}

func loadAnalysisInputs() ([]string, []string, error) {
	if err := setupLogging(logLevel); err != nil {
		return nil, nil, err
	}
	table, err := verbforms.Load(verbFormsFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("Loaded %d verb forms from %s.", table.Len(), verbFormsFile)
	files, err := corpus.ListSessionFiles(corpusRootFile)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no session files found next to %s", corpusRootFile)
	}
	return table.FutureForms(), files, nil
}

func newTopFormsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-forms",
		Short: "Report the most used verb forms",
		Args:  cobra.NoArgs,
		RunE:  runTopFormsCmd,
	}
	cmd.Flags().StringVar(&topFormsStatsFile, "statistics-file", defaultFormStatsFile, "path of the file containing per-form usage statistics")
	cmd.Flags().IntVarP(&topFormsN, "top", "N", defaultTopForms, "number of forms to report")
	cmd.Flags().BoolVar(&savePlotData, "save-plot-data", false, "store the aggregated data behind the report")
	cmd.Flags().StringVar(&plotDataFile, "plot-data-file", defaultPlotDataFile, "path of the file where to store plot data")
	return cmd
}

func runTopFormsCmd(cmd *cobra.Command, _ []string) error {
	if err := applyReportConfig(cmd); err != nil {
		return err
	}
	rows, err := stats.LoadFormUsage(topFormsStatsFile)
	if err != nil {
		return err
	}
	totals := stats.TopForms(rows, topFormsN)
	if err := stats.RenderTopForms(cmd.OutOrStdout(), totals); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if savePlotData {
		if err := stats.SaveFormTotals(plotDataFile, totals); err != nil {
			return err
		}
		logger.Infof("Wrote plot data to %s.", plotDataFile)
	}
	return nil
}

func newTopSpeakersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-speakers",
		Short: "Report the speakers using the future tense the most",
		Args:  cobra.NoArgs,
		RunE:  runTopSpeakersCmd,
	}
	cmd.Flags().StringVar(&topSpeakersStatsFile, "statistics-file", defaultSessionStatsFile, "path of the file containing per-session usage statistics")
	cmd.Flags().IntVarP(&topSpeakersN, "top", "N", defaultTopSpeakers, "number of speakers to report")
	cmd.Flags().StringVar(&legislaturesDir, "legislatures", defaultLegislaturesDir, "directory containing deputy info per legislature")
	return cmd
}

func runTopSpeakersCmd(cmd *cobra.Command, _ []string) error {
	if err := applyReportConfig(cmd); err != nil {
		return err
	}
	rows, err := stats.LoadSessionUsage(topSpeakersStatsFile)
	if err != nil {
		return err
	}
	roster, err := loadRoster(legislaturesDir)
	if err != nil {
		return err
	}
	totals := stats.TopSpeakers(rows, roster, topSpeakersN)
	if err := stats.RenderTopSpeakers(cmd.OutOrStdout(), totals); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// loadRoster treats a missing legislature directory as no roster, so
// reports still run with raw speaker IDs.
func loadRoster(dir string) (*stats.Roster, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			logger.Warningf("Legislature directory %s not found; speaker names will not be resolved.", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat legislature directory: %w", err)
	}
	return stats.LoadRoster(dir)
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the computed statistics interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	cmd.Flags().StringVar(&browseSessionFile, "statistics-file", defaultSessionStatsFile, "path of the file containing per-session usage statistics")
	cmd.Flags().StringVar(&browseFormFile, "form-statistics-file", defaultFormStatsFile, "path of the file containing per-form usage statistics")
	cmd.Flags().StringVar(&browseLegislatures, "legislatures", defaultLegislaturesDir, "directory containing deputy info per legislature")
	cmd.Flags().IntVarP(&browseTopN, "top", "N", defaultTopSpeakers, "number of rows in the top tables")
	cmd.Flags().IntVar(&browseCurveWindow, "curve-window", defaultCurveWindow, "moving average window for usage curves")
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	if err := applyReportConfig(cmd); err != nil {
		return err
	}
	legislatures := browseLegislatures
	if legislatures != "" {
		if _, err := os.Stat(legislatures); os.IsNotExist(err) {
			legislatures = ""
		}
	}
	uiModel := statsui.NewModel(statsui.Config{
		SessionStatsFile: browseSessionFile,
		FormStatsFile:    browseFormFile,
		Legislatures:     legislatures,
		TopN:             browseTopN,
		CurveWindow:      browseCurveWindow,
	})
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run statistics browser: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyAnalysisConfig(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "corpus-root-file", &corpusRootFile, fileCfg.Analysis.CorpusRootFile)
	applyStringConfig(cmd, "verb-forms-file", &verbFormsFile, fileCfg.Analysis.VerbFormsFile)
	applyIntConfig(cmd, "num-jobs", &numJobs, fileCfg.Analysis.Jobs)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Analysis.LogLevel)
	return nil
}

func applyReportConfig(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Analysis.LogLevel)
	applyStringConfig(cmd, "legislatures", &legislaturesDir, fileCfg.Report.Legislatures)
	applyStringConfig(cmd, "legislatures", &browseLegislatures, fileCfg.Report.Legislatures)
	applyIntConfig(cmd, "top", &topFormsN, fileCfg.Report.TopForms)
	applyIntConfig(cmd, "top", &topSpeakersN, fileCfg.Report.TopSpeakers)
	return setupLogging(logLevel)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func setupLogging(level string) error {
	parsed, err := logger.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	logger.SetLevel(parsed)
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tensestats configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# corpus-root-file = %q
# verb-forms-file = %q
# jobs = %d                # negative means all CPUs but (n+1)
# log-level = %q

[report]
# legislatures = %q
# top-forms = %d
# top-speakers = %d

[scraper]
# verbs-file = "data/dex-entries.csv"
# output-file = %q
# log-level = %q
`,
		defaultCorpusRootFile,
		defaultVerbFormsFile,
		defaultJobs,
		defaultLogLevel,
		defaultLegislaturesDir,
		defaultTopForms,
		defaultTopSpeakers,
		defaultVerbFormsFile,
		defaultLogLevel,
	)
}
