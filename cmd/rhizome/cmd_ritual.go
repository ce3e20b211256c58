package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rhizome/internal/config"
	"rhizome/internal/ritual"
)

var ritualNote string

// ritualCmd lists or runs rituals
var ritualCmd = &cobra.Command{
	Use:   "ritual [name]",
	Short: "List or run the seeded rituals",
	Long: `Three practices come seeded: breathing (daily), retrospective
(weekly), logging (ongoing). They are invitations, not prescriptions.
Running one prints its prompts and records the run; the prompts can be
replaced per instance through ritual_prompts in config.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRitual,
}

var ritualStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often each ritual has been tended",
	RunE:  runRitualStats,
}

func init() {
	ritualCmd.Flags().StringVarP(&ritualNote, "note", "n", "", "Note to record with the run")
	ritualCmd.AddCommand(ritualStatsCmd)
}

func openRegistry() (*ritual.Registry, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}
	return ritual.NewRegistry(config.RitualLogPath(workspace), cfg.RitualPrompts)
}

func runRitual(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		stats, err := reg.GetStats()
		if err != nil {
			return err
		}

		fmt.Println("🕯  Rituals")
		fmt.Println(strings.Repeat("─", 60))
		for _, rit := range reg.List() {
			fmt.Printf("  %s (%s)\n", strings.ToUpper(rit.Name), rit.Frequency)
			fmt.Printf("    %s\n", rit.Description)
			fmt.Printf("    Times run: %d\n", stats.ByRitual[rit.Name])
			if last := stats.LastRun[rit.Name]; last != "" {
				fmt.Printf("    Last run:  %s\n", last)
			}
			fmt.Println()
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println("Run one: rhizome ritual <name>")
		return nil
	}

	rit, err := reg.Run(args[0], ritualNote)
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("%s RITUAL\n", strings.ToUpper(rit.Name))
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("\n%s\n\n", rit.Lead)
	for i, prompt := range rit.Prompts {
		fmt.Printf("  %d. %s\n", i+1, prompt)
	}
	fmt.Printf("\n%s\n", rit.Close)
	return nil
}

func runRitualStats(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	stats, err := reg.GetStats()
	if err != nil {
		return err
	}

	fmt.Println("📊 Practice")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("  Total runs: %d\n", stats.TotalRuns)
	for _, rit := range reg.List() {
		fmt.Printf("  %-14s %d\n", rit.Name, stats.ByRitual[rit.Name])
	}
	fmt.Println(strings.Repeat("─", 60))
	return nil
}
