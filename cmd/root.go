// Package cmd provides CLI commands for bibfield.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibfield/prefs"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var (
	prefsFile  string
	fieldsPath string

	// preferences and fieldRegistry are set up before any subcommand runs.
	preferences   = prefs.New()
	fieldRegistry = schema.StandardFields()
)

var rootCmd = &cobra.Command{
	Use:   "bibfield",
	Short: "Encode, decode and convert BibTeX field values",
	Long: `Bibfield works with the field grammar of BibTeX files: braces and
quotes, '#' string concatenation, protected capitals, citation keys and
the ';'-separated list format used to store preferences.

Field values are shown in normalized form, where a string reference such as
jan is written #jan#.

Examples:
  bibfield field parse '{Proc. of } # ieee # " conf"'
  bibfield key check "O'Brien, J."
  bibfield convert bibtex json -i refs.bib --pretty
  bibfield validate refs.bib
  bibfield --prefs prefs.yaml field wrap "IEEE Trans"`,
	PersistentPreRunE: loadSettings,
	SilenceUsage:      true,
}

// loadSettings reads --prefs and --fields. The numericFields preference is
// applied to a copy of the standard field registry.
func loadSettings(cmd *cobra.Command, args []string) error {
	if prefsFile != "" {
		p, err := prefs.Load(prefsFile)
		if err != nil {
			return fmt.Errorf("loading preferences: %w", err)
		}
		preferences = p
		slog.Debug("loaded preferences", "file", prefsFile)
	}

	fieldRegistry = schema.StandardFields().Clone()
	if fieldsPath != "" {
		extra := schema.NewRegistry()
		if err := extra.LoadFromPath(fieldsPath); err != nil {
			return fmt.Errorf("loading field descriptors: %w", err)
		}
		fieldRegistry.Merge(extra)
	}
	preferences.ApplyNumericFields(fieldRegistry)
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().StringVar(&prefsFile, "prefs", "", "Preferences file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&fieldsPath, "fields", "", "Extra field descriptor YAML file or directory")

	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(arrayCmd)
	rootCmd.AddCommand(dateCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(prefsCmd)
}
