package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"rhizome/internal/config"
	"rhizome/internal/notes"
)

var (
	noteContent string
	noteLinks   []string
)

// noteCmd creates or appends to a markdown note
var noteCmd = &cobra.Command{
	Use:   "note <title>",
	Short: "Create or append to a note",
	Long: `Notes are associative memory: one markdown file per title, grown by
appending timestamped sections. Link related thoughts with --link;
links render as [[wiki]] markers.

Example:
  rhizome note "On Fermentation" -c "Bubbles this morning." -l trust,patience`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

var noteShowCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "Render a note in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

func init() {
	noteCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Section body to append")
	noteCmd.Flags().StringArrayVarP(&noteLinks, "link", "l", nil, "Associative link (repeatable, comma-separated ok)")
	noteCmd.AddCommand(noteShowCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	path, err := notes.Update(config.NotesDir(workspace), args[0], noteContent, noteLinks)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	fmt.Printf("✓ Note: %s\n", path)
	return nil
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	meta, body, err := notes.Read(config.NotesDir(workspace), args[0])
	if err != nil {
		return err
	}

	if title, ok := meta["title"]; ok {
		fmt.Println(title)
	}
	if updated, ok := meta["updated"]; ok {
		fmt.Printf("updated %s\n", updated)
	}
	fmt.Println(strings.Repeat("─", 60))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Println(body)
		return nil
	}

	rendered, err := renderer.Render(body)
	if err != nil {
		fmt.Println(body)
		return nil
	}
	fmt.Fprint(os.Stdout, rendered)
	return nil
}
