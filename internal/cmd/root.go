// Package cmd contains all CLI commands for clinicdash.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hargabyte/clinicdash/internal/config"
	"github.com/hargabyte/clinicdash/internal/logging"
)

var (
	// Version is the current version of clinicdash
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	forAgents    bool
	outputFormat string
	logLevel     string

	// cfg is the effective configuration, built before every command runs
	cfg = config.DefaultConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clinicdash",
	Short: "Dental clinic appointment analytics",
	Long: `clinicdash turns a snapshot of dental clinic appointments into the
aggregate views behind a practice dashboard.

Appointments come from a JSON, CSV or SQLite snapshot, or from the built-in
fixture generator when no snapshot is given. Every report is computed from
the same snapshot and printed as YAML (default), JSON or text.

Configuration:
  .clinicdash/config.yaml, found by walking up from the working directory.
  Environment: CLINICDASH_PATIENTS, CLINICDASH_SEED, CLINICDASH_DATASET,
  CLINICDASH_FORMAT, CLINICDASH_LOG_LEVEL (also read from ./.env).
  Flags override environment, which overrides the config file.

Global Flags:
  --format     Output format: yaml (default) | json | text
  --log-level  Log level on stderr: debug | info (default) | warn | error

Examples:
  clinicdash generate -n 500 --seed 7 -o snapshot.db   # Write a fixture
  clinicdash report                                    # List reports
  clinicdash report all --input snapshot.db --format text
  clinicdash report revenue-by-treatment --format json
  clinicdash validate --input export.csv

See 'clinicdash <command> --help' for command-specific options.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging with console output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .clinicdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "Output format (yaml|json|text)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if forAgents {
			outputAgentHelp(cmd)
			return nil
		}
		return cmd.Help()
	}
}

// setup builds the effective configuration and the stderr logger.
// Precedence is flags, then environment, then config file, then defaults.
func setup(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	loaded, err := loadConfig(workDir)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(loaded, workDir); err != nil {
		return err
	}

	if cmd.Flags().Changed("format") {
		loaded.Output.Format = strings.ToLower(strings.TrimSpace(outputFormat))
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = strings.ToLower(strings.TrimSpace(logLevel))
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}

	level, pretty := loaded.Log.Level, loaded.Log.Pretty
	if verbose {
		level, pretty = "debug", true
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level, pretty)
	if err != nil {
		return err
	}

	cfg = loaded
	cmd.SetContext(logger.WithContext(cmd.Context()))
	logger.Debug().Str("command", cmd.CommandPath()).Str("format", cfg.Output.Format).Msg("configuration loaded")
	return nil
}

// loadConfig reads --config when given, otherwise searches upward from workDir.
func loadConfig(workDir string) (*config.Config, error) {
	if configPath == "" {
		return config.Load(workDir)
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return config.LoadFromPath(configPath)
}

// log returns the logger attached by setup.
func log(cmd *cobra.Command) *zerolog.Logger {
	return zerolog.Ctx(cmd.Context())
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	output := map[string]any{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		lines := strings.Split(cmd.Example, "\n")
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
