package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/ads2bib/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set preference values",
	Long: `Get or set preference values.

Usage:
  ads2bib config                          # Show all preferences
  ads2bib config ads_token                # Get one value
  ads2bib config ads_token <token>        # Set a value
  ads2bib config proxy.ssh_server gate1   # Set the relay host

Keys:
  ads_mirror            ADS API host
  ads_token             ADS API token ("dev_key" means unset)
  proxy.ssh_user        Relay SSH user
  proxy.ssh_server      Relay SSH host
  proxy.ssh_port        Relay SSH port
  options.download_pdf  Fetch full-text PDFs (true/false)
  options.pdf_reader    Preferred PDF reader
  options.debug         Verbose logging (true/false)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &configError{err}
	}

	// No args: show all preferences
	if len(args) == 0 {
		for _, key := range config.Keys() {
			value, _ := cfg.Get(key)
			fmt.Printf("%-22s %s\n", key, value)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get one value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	}

	// Two args: set a value
	if err := cfg.Set(key, args[1]); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return &configError{err}
	}
	fmt.Printf("Updated %s to %s\n", key, args[1])
	return nil
}

// normalizeKey accepts dashed variants (ads-token -> ads_token).
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}
