// Package main provides the ads2bib CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/ads2bib/internal/ads"
	"github.com/matsen/ads2bib/internal/config"
	"github.com/matsen/ads2bib/internal/fetch"
	"github.com/matsen/ads2bib/internal/notify"
	"github.com/matsen/ads2bib/internal/pipeline"
	"github.com/matsen/ads2bib/internal/store"
)

// Version is set at build time via ldflags
var Version = "dev"

// debugMode enables verbose logging.
var debugMode bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "ads2bib <article-identifier>",
	Short: "Add astrophysics articles from NASA/ADS to your reference store",
	Long: `ads2bib adds articles listed on NASA/ADS to your personal reference
store using the ADS API.

It accepts several kinds of article tokens:
  - the ADS bibcode of an article (e.g. 1998ApJ...500..525S, 2019arXiv190404507R)
  - the arXiv identifier of an article (e.g. 0911.4956)

A personal ADS API token is required (per ADS policy). Set it with
"ads2bib config ads_token <token>", or export ADS_API_TOKEN (a .env file
in the working directory is honored).

If an article is already in the store, the old entry's custom fields,
annotations and group memberships are carried over to the new one.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runAdd,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Debug mode; prints extra statements")
	rootCmd.Version = Version
}

func runAdd(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return &configError{err}
	}
	if debugMode {
		cfg.Options.Debug = true
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()
	logger.Info().Str("version", Version).Msg("starting ads2bib")

	client := ads.NewClient(
		ads.WithBaseURL(cfg.APIBaseURL()),
		ads.WithToken(cfg.Token()),
	)

	var fetcher pipeline.PDFFetcher
	if cfg.Options.DownloadPDF {
		opts := []fetch.Option{fetch.WithLogger(logger)}
		if cfg.RelayEnabled() {
			logger.Debug().Str("server", cfg.Proxy.SSHServer).Msg("ssh relay enabled")
			opts = append(opts, fetch.WithRelay(
				fetch.NewSSHRelay(cfg.Proxy.SSHUser, cfg.Proxy.SSHServer, cfg.Proxy.SSHPort)))
		}
		fetcher = fetch.New(opts...)
	}

	refs, err := store.Open(config.StorePath())
	if err != nil {
		return fmt.Errorf("opening reference store: %w", err)
	}
	defer refs.Close()

	p := &pipeline.Pipeline{
		Metadata: client,
		PDF:      fetcher,
		Store:    refs,
		Notifier: notify.Desktop{},
		Log:      logger,
	}

	res, err := p.Run(cmd.Context(), args[0])
	if err != nil {
		logger.Error().Err(err).Str("identifier", args[0]).Msg("reconciliation failed")
		return err
	}

	if res.Merged {
		fmt.Printf("Merged duplicate into %s: %s\n", res.CiteKey, res.Title)
	} else {
		fmt.Printf("Added %s: %s\n", res.CiteKey, res.Title)
	}
	return nil
}

// configError marks configuration failures for exit-code mapping.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func isConfigError(err error) bool {
	var ce *configError
	return errors.As(err, &ce)
}
