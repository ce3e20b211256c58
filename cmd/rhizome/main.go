package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rhizome/internal/config"
	"rhizome/internal/journal"
	"rhizome/internal/store"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rhizome",
	Short: "rhizome - a planted knowledge-graph instance",
	Long: `rhizome tends a planted instance: a SQLite knowledge graph of
confidence-weighted edges, an append-only decision journal, and the
practices that grow around them (excavation, rituals, notes, myths,
a path-seeded tarot spread).

Run 'rhizome bootstrap' first in a fresh workspace to see where you are.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// openStore opens the workspace graph, creating .rhizome/ on first use.
func openStore() (*store.GraphStore, error) {
	gs, err := store.NewGraphStore(config.GraphPath(workspace))
	if err != nil {
		return nil, fmt.Errorf("failed to open graph store: %w", err)
	}
	return gs, nil
}

// openJournal opens the workspace decision journal.
func openJournal() (*journal.Journal, error) {
	j, err := journal.New(config.JournalPath(workspace))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory holding the instance")

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(excavateCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(edgeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(edgesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(tarotCmd)
	rootCmd.AddCommand(mythCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(ritualCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
