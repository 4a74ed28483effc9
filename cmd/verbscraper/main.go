// Package main provides the CLI entrypoint for verbscraper.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/romanian-parlamint/future-tense-usage/internal/config"
	"github.com/romanian-parlamint/future-tense-usage/internal/logger"
	"github.com/romanian-parlamint/future-tense-usage/internal/scraper"
	"github.com/romanian-parlamint/future-tense-usage/internal/store"
)

const (
	defaultVerbsFile  = "data/dex-entries.csv"
	defaultOutputFile = "data/verb-forms.csv"
	defaultLogLevel   = "info"
	verbsDelimiter    = ';'
)

var (
	verbsFile  string
	outputFile string
	cacheDB    string
	baseURL    string
	logLevel   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "verbscraper",
		Short:         "Scrape Romanian verb conjugations from conjugare.ro",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runScrapeCmd,
	}
	rootCmd.Flags().StringVar(&verbsFile, "verbs-file", defaultVerbsFile, "path of the CSV file containing verbs")
	rootCmd.Flags().StringVar(&outputFile, "output-file", defaultOutputFile, "path of the output file")
	rootCmd.Flags().StringVar(&cacheDB, "cache-db", config.DefaultScrapeDBPath(), "path of the SQLite cache used to resume interrupted runs")
	rootCmd.Flags().StringVar(&baseURL, "base-url", scraper.DefaultBaseURL, "base URL of the conjugation site")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", defaultLogLevel, "level of details to print when running (debug, info, warning, error)")
	return rootCmd
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	if err := applyScraperConfig(cmd); err != nil {
		return err
	}

	verbs, err := scraper.LoadVerbs(verbsFile, verbsDelimiter)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d distinct entries from verbs file.", len(verbs))

	st, err := store.Open(cacheDB)
	if err != nil {
		return fmt.Errorf("failed to open cache db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Errorf("Failed to close cache db: %v.", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := scraper.NewClient(baseURL)
	logger.Infof("Start scraping verb forms.")
	for _, verb := range verbs {
		if err := ctx.Err(); err != nil {
			logger.Warningf("Interrupted; progress is saved in %s.", cacheDB)
			return err
		}
		cached, err := st.HasVerb(ctx, verb)
		if err != nil {
			return err
		}
		if cached {
			logger.Debugf("Skipping %s; forms already cached.", verb)
			continue
		}

		logger.Infof("Scraping forms for %s.", verb)
		conjugations, err := client.FetchConjugations(ctx, verb)
		if errors.Is(err, scraper.ErrVerbNotFound) {
			logger.Warningf("No data found for %s.", verb)
			continue
		}
		if err != nil {
			return err
		}
		if len(conjugations) == 0 {
			logger.Warningf("No data found for %s.", verb)
			continue
		}

		if err := st.InsertVerbForms(ctx, verb, conjugations); err != nil {
			return err
		}
		if err := exportResults(ctx, st); err != nil {
			return err
		}

		pause := time.Duration(rand.IntN(2)) * time.Second
		logger.Debugf("Sleeping for %s.", pause)
		time.Sleep(pause)
	}

	count, err := st.CountVerbs(ctx)
	if err != nil {
		return err
	}
	logger.Infof("That's all folks! %d verbs cached.", count)
	return nil
}

// exportResults regenerates the output CSV from the cache after every
// verb, so an interrupted run still leaves a usable file behind.
func exportResults(ctx context.Context, st *store.Store) error {
	conjugations, err := st.ListConjugations(ctx)
	if err != nil {
		return err
	}
	if err := scraper.SaveCSV(outputFile, conjugations); err != nil {
		return err
	}
	logger.Infof("Saving results to %s.", outputFile)
	return nil
}

func applyScraperConfig(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "verbs-file", &verbsFile, fileCfg.Scraper.VerbsFile)
	applyStringConfig(cmd, "output-file", &outputFile, fileCfg.Scraper.OutputFile)
	applyStringConfig(cmd, "cache-db", &cacheDB, fileCfg.Scraper.CacheDB)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Scraper.LogLevel)

	parsed, err := logger.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	logger.SetLevel(parsed)
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
