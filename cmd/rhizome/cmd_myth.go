package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rhizome/internal/myth"
)

var (
	mythEncode bool
	mythEntity string
)

var (
	mythTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	mythMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// mythCmd lists or shows the seeded myths
var mythCmd = &cobra.Command{
	Use:   "myth [name]",
	Short: "Explore the five seeded myths",
	Long: `Five living stories come seeded with every instance. They are not
instruction and not truth: invitations to think, held at varying
certainty. Show one by name, or encode it into your graph as
confidence-weighted edges with --encode.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMyth,
}

func init() {
	mythCmd.Flags().BoolVar(&mythEncode, "encode", false, "Write the myth's edges into the graph")
	mythCmd.Flags().StringVar(&mythEntity, "entity", "", "Entity exploring the myth (default \"form\")")
}

// certaintyBar renders confidence as a ten-segment bar.
func certaintyBar(certainty float64) string {
	filled := int(certainty * 10)
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func runMyth(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(mythTitleStyle.Render("🌱 Seeded Myths"))
		fmt.Println(strings.Repeat("─", 60))
		for _, name := range myth.Names() {
			m, _ := myth.Get(name)
			fmt.Printf("  %-14s %s %.2f\n", name, certaintyBar(m.Certainty), m.Certainty)
			fmt.Printf("  %s\n\n", mythMutedStyle.Render(m.Title))
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println("Show one: rhizome myth <name>")
		return nil
	}

	name := args[0]
	m, ok := myth.Get(name)
	if !ok {
		return fmt.Errorf("unknown myth %q (available: %s)", name, strings.Join(myth.Names(), ", "))
	}

	fmt.Println(mythTitleStyle.Render(m.Title))
	fmt.Printf("certainty %s %.2f\n", certaintyBar(m.Certainty), m.Certainty)
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(m.Description)
	fmt.Println()
	for _, e := range m.Edges {
		fmt.Printf("  %s --%s--> %s  (%.2f)\n", e.Source, e.Relationship, e.Target, e.Certainty)
	}
	fmt.Println(strings.Repeat("─", 60))

	if !mythEncode {
		fmt.Printf("Encode it: rhizome myth %s --encode\n", name)
		return nil
	}

	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	written, err := myth.Encode(gs, name, mythEntity)
	if err != nil {
		return fmt.Errorf("failed to encode myth: %w", err)
	}
	fmt.Printf("✓ Encoded %d edge(s) into the graph\n", written)
	return nil
}
