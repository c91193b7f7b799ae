/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vicschmitt/blxtract/pkg/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blxtract",
	Short: "Extract records from BLX container files",
	Long: `blxtract splits BLX container files into their records by scanning
for the format's start-of-record delimiters. The BLX format is
reverse-engineered; the delimiters are heuristic byte patterns, not a
documented schema.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file with delimiter candidates (default: built-in BLX marks)")
}

// loadConfig returns the configuration selected by --config, falling back
// to the built-in BLX defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(cfgFile)
}
