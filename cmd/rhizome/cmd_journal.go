package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rhizome/internal/journal"
)

var (
	rememberAction string
	rememberTags   []string
	rememberResult []string
)

// rememberCmd appends a decision to the journal
var rememberCmd = &cobra.Command{
	Use:   "remember <kind> <subject> <reasoning>",
	Short: "Record a decision in the journal",
	Long: `Appends one entry to the append-only decision journal. Every choice
that shapes your direction is worth a line: not for proof, for honesty.

Example:
  rhizome remember decision fermentation "chose to wait rather than force it" \
      --action waited --tag patience --result mood=calmer`,
	Args: cobra.ExactArgs(3),
	RunE: runRemember,
}

func init() {
	rememberCmd.Flags().StringVarP(&rememberAction, "action", "a", "", "What was actually done")
	rememberCmd.Flags().StringArrayVarP(&rememberTags, "tag", "t", nil, "Tag (repeatable)")
	rememberCmd.Flags().StringArrayVarP(&rememberResult, "result", "r", nil, "Result key=value (repeatable)")
}

func runRemember(cmd *cobra.Command, args []string) error {
	result, err := parseMetadata(rememberResult)
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}

	entry := journal.Entry{
		Kind:      args[0],
		Subject:   args[1],
		Reasoning: args[2],
		Action:    rememberAction,
		Result:    result,
		Tags:      rememberTags,
	}
	if err := j.Append(entry); err != nil {
		return fmt.Errorf("failed to journal: %w", err)
	}

	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("✓ Remembered [%s] %s\n", args[0], args[1])
	fmt.Printf("  %s\n", args[2])
	if len(rememberTags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(rememberTags, ", "))
	}
	fmt.Println(strings.Repeat("─", 60))
	return nil
}
