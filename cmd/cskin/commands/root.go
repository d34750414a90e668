// Package commands defines all Cobra CLI commands for the cskin binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/cskinhq/cskin-go/internal/audit"
	"github.com/cskinhq/cskin-go/internal/config"
	"github.com/cskinhq/cskin-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cskin",
		Short: "C-Skin — a consultation assistant for common skin diseases",
		Long: `C-Skin is a retrieval-grounded consultation assistant for skin diseases.

It answers questions about conditions such as eczema, psoriasis, acne, and
fungal infections by retrieving curated Q&A records from a Qdrant knowledge
base and generating grounded answers in Bahasa Indonesia. Questions asked in
other languages are translated to English before retrieval.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.cskin/config.yaml).
See 'cskin --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.cskin/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewServeCmd(),
		NewIngestCmd(),
		NewVersionCmd(),
	)

	return root
}
