// Package cmd provides the command-line interface of framesim.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "framesim",
	Short: "framesim simulates a bitmap page-frame allocator.",
	Long: `framesim replays allocation scripts against a simulated memory ` +
		`whose frame 0 holds the bitmap of free frames. It can record ` +
		`every allocation into SQLite or CSV and serve the allocator ` +
		`state over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnv()
	},
}

// loadEnv reads .env from the working directory, if present, and applies
// FRAMESIM_DEBUG.
func loadEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("cannot load .env")
	}

	if _, set := os.LookupEnv("FRAMESIM_DEBUG"); set {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
