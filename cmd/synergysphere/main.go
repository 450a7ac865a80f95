// Package main implements the synergysphere terminal client.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/synergysphere/synergysphere/internal/app"
	"github.com/synergysphere/synergysphere/internal/fixture"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	noDemo     bool
	demoSeed   int64
)

var rootCmd = &cobra.Command{
	Use:   "synergysphere",
	Short: "SynergySphere - a collaborative project workspace for your terminal",
	Long: `SynergySphere runs a project workspace in your terminal: a project
dashboard, a Kanban board per project, discussion threads, and a
notification center. State lives in memory for the duration of the
session and a demo workspace is seeded at startup.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	RunE:    run,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the configuration file")
	rootCmd.Flags().BoolVar(&noDemo, "no-demo", false, "Start with an empty workspace instead of the demo fixture")
	rootCmd.Flags().Int64Var(&demoSeed, "seed", 0, "Fix the demo fixture's random offsets (0 derives from the clock)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if noDemo {
		cfg.Demo.Enabled = false
	}
	if demoSeed != 0 {
		cfg.Demo.Seed = demoSeed
	}

	s, err := store.NewSQLiteStore(store.MemoryDSN)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer s.Close()

	if cfg.Demo.Enabled {
		seed := cfg.Demo.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		if err := fixture.Seed(context.Background(), s, rng); err != nil {
			return fmt.Errorf("seeding demo workspace: %w", err)
		}
	}

	m := app.New(s, *cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
