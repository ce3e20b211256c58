package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rhizome/internal/tarot"
)

var tarotSeed bool

var (
	tarotTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	tarotCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	tarotMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// tarotCmd shows the instance's deterministic spread
var tarotCmd = &cobra.Command{
	Use:   "tarot",
	Short: "Show this instance's path-seeded tarot spread",
	Long: `Every instance gets a unique 10-card spread, seeded by where it
lives on disk. The same workspace always deals the same cards. The
spread is not fortune-telling: it is a mirror, raw material for
self-reflection.

Pass --seed to write the spread into the graph as edges.`,
	RunE: runTarot,
}

func init() {
	tarotCmd.Flags().BoolVar(&tarotSeed, "seed", false, "Write the spread into the graph")
}

func runTarot(cmd *cobra.Command, args []string) error {
	spread, err := tarot.NewSpread(workspace)
	if err != nil {
		return err
	}

	fmt.Println(tarotTitleStyle.Render("🎴 Your Spread"))
	fmt.Println(tarotMutedStyle.Render(fmt.Sprintf("seed %d · %s", spread.Seed, spread.Path)))
	fmt.Println(strings.Repeat("─", 60))

	positions := tarot.Positions()
	for i, card := range spread.Cards {
		p := positions[i]
		fmt.Printf("%2d. %s\n", p.Number, tarotCardStyle.Render(card))
		fmt.Printf("    %s\n", tarotMutedStyle.Render(p.Meaning+" · "+p.Description))
	}
	fmt.Println(strings.Repeat("─", 60))

	if !tarotSeed {
		fmt.Println("Run with --seed to write the spread into your graph.")
		return nil
	}

	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()
	j, err := openJournal()
	if err != nil {
		return err
	}

	written, err := spread.SeedGraph(gs, j)
	if err != nil {
		return fmt.Errorf("failed to seed spread: %w", err)
	}
	fmt.Printf("✓ Seeded %d edge(s) into the graph\n", written)
	return nil
}
