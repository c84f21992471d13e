// Justifier: justification engine MCP server
//
// Explains why an axiom follows from a knowledge base by computing its
// justifications: minimal sets of axioms from which it is entailed.
//
// Usage:
//
//	justifier serve      # Start MCP server (stdio transport)
//	justifier explain    # Justify one entailment from the command line
//	justifier unsat      # List unsatisfiable classes of a KB file
//	justifier version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/config"
	"github.com/HendryAvila/justifier/internal/logging"
	jserver "github.com/HendryAvila/justifier/internal/server"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "justifier",
		Short:         "Justification engine for description-logic knowledge bases",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "justifier": {
        "command": "justifier",
        "args": ["serve"]
      }
    }
  }`,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.justifier/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		newServeCmd(opts),
		newExplainCmd(opts),
		newUnsatCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load resolves the configuration and builds the logger, applying flag
// overrides on top of file and environment settings.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "justifier v%s\n", jserver.Version)
		},
	}
}
