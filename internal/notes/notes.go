// Package notes maintains associative memory notes: markdown files with a
// small front-matter block (title, created, updated), one file per
// slugified title, grown by appending timestamped sections. Notes know
// nothing about the graph; links are plain [[wiki]] markers.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify derives the note filename stem from a title.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "note"
	}
	return slug
}

// ParseFrontMatter splits a note into its front-matter map and body. Files
// without a front-matter block (or with an unterminated one) come back with
// an empty map and the text untouched.
func ParseFrontMatter(text string) (map[string]string, string) {
	if !strings.HasPrefix(text, "---\n") {
		return map[string]string{}, text
	}

	lines := strings.Split(text, "\n")
	meta := map[string]string{}
	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			end = i
			break
		}
		if key, value, ok := strings.Cut(lines[i], ":"); ok {
			meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	if end == -1 {
		return map[string]string{}, text
	}

	body := strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	return meta, body
}

// buildFrontMatter renders the block with title/created/updated first so
// files stay diffable, then any extra keys in sorted order.
func buildFrontMatter(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}

	ordered := []string{"title", "created", "updated"}
	var b strings.Builder
	b.WriteString("---\n")
	written := map[string]bool{}
	for _, key := range ordered {
		if value, ok := meta[key]; ok {
			fmt.Fprintf(&b, "%s: %s\n", key, value)
			written[key] = true
		}
	}
	var rest []string
	for key := range meta {
		if !written[key] {
			rest = append(rest, key)
		}
	}
	for _, key := range sortedStrings(rest) {
		fmt.Fprintf(&b, "%s: %s\n", key, meta[key])
	}
	b.WriteString("---\n")
	return b.String()
}

func sortedStrings(s []string) []string {
	out := append([]string(nil), s...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// FormatLinks renders associative links as a "Links: [[a]] [[b]]" line.
// Items may be comma separated; empty input yields an empty string.
func FormatLinks(items []string) string {
	var links []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if clean := strings.TrimSpace(part); clean != "" {
				links = append(links, "[["+clean+"]]")
			}
		}
	}
	if len(links) == 0 {
		return ""
	}
	return "Links: " + strings.Join(links, " ")
}

// Update creates or appends to the note for title under dir and returns its
// path. New notes get a front-matter block and an H1; existing notes get
// their updated stamp refreshed and a new "## <timestamp>" section appended.
func Update(dir, title, body string, links []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create notes directory: %w", err)
	}

	path := filepath.Join(dir, Slugify(title)+".md")
	now := time.Now().Format(timestampLayout)
	linksLine := FormatLinks(links)

	var meta map[string]string
	var newBody string

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		var prior string
		meta, prior = ParseFrontMatter(string(existing))
		if _, ok := meta["title"]; !ok {
			meta["title"] = title
		}
		meta["updated"] = now

		section := joinSections("## "+now, body, linksLine)
		newBody = strings.TrimRight(prior, "\n")
		if newBody != "" {
			newBody += "\n\n"
		}
		newBody += section
	case os.IsNotExist(err):
		meta = map[string]string{"title": title, "created": now, "updated": now}
		newBody = joinSections("# "+title, "## "+now, body, linksLine)
	default:
		return "", fmt.Errorf("read note: %w", err)
	}

	content := buildFrontMatter(meta) + strings.TrimSpace(newBody) + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return path, nil
}

// Read returns a note's front matter and body by title.
func Read(dir, title string) (map[string]string, string, error) {
	path := filepath.Join(dir, Slugify(title)+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read note: %w", err)
	}
	meta, body := ParseFrontMatter(string(data))
	return meta, body, nil
}

func joinSections(sections ...string) string {
	var kept []string
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}
