// Package export renders guides as a single Markdown document.
package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/apiguide/pkg/content"
)

// GenerateMarkdown renders guides in order with a table of contents.
func GenerateMarkdown(guides []content.Guide, title string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC1123)))

	sb.WriteString("## Table of Contents\n\n")
	for _, g := range guides {
		sb.WriteString(fmt.Sprintf("- [%s](#%s) (%d %ss)\n", g.Title, anchor(g.Title), g.Len(), g.Noun()))
		for i, u := range g.Units {
			sb.WriteString(fmt.Sprintf("  %d. [%s](#%s)\n", i+1, u.Title, anchor(u.Title)))
		}
	}
	sb.WriteString("\n---\n\n")

	for _, g := range guides {
		writeGuide(&sb, g)
	}
	return sb.String()
}

func writeGuide(sb *strings.Builder, g content.Guide) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", g.Title))
	if g.Subtitle != "" {
		sb.WriteString(g.Subtitle + "\n\n")
	}

	for _, u := range g.Units {
		sb.WriteString(fmt.Sprintf("### %s\n\n", u.Title))
		if u.Description != "" {
			sb.WriteString("_" + u.Description + "_\n\n")
		}

		if u.Difficulty != "" || u.TimeEstimate != "" {
			sb.WriteString("| Difficulty | Time |\n|---|---|\n")
			sb.WriteString(fmt.Sprintf("| %s | %s |\n\n", u.Difficulty, u.TimeEstimate))
		}

		writeList(sb, "Objectives", u.Objectives)
		writeList(sb, "Prerequisites", u.Prerequisites)

		if u.Explanation != "" {
			sb.WriteString(u.Explanation + "\n\n")
		}

		for i, item := range u.Body {
			sb.WriteString(fmt.Sprintf("#### %d. %s\n\n", i+1, item.Title))
			if item.Content != "" {
				sb.WriteString(item.Content + "\n\n")
			}
			if item.Code != nil {
				sb.WriteString(fence(*item.Code))
			}
			if item.Explanation != "" {
				sb.WriteString(item.Explanation + "\n\n")
			}
			if item.Tip != "" {
				sb.WriteString("> **Tip:** " + strings.ReplaceAll(item.Tip, "\n", "\n> ") + "\n\n")
			}
		}

		if ex := u.Exercise; ex != nil {
			sb.WriteString(fmt.Sprintf("#### Exercise: %s\n\n", ex.Title))
			if ex.Description != "" {
				sb.WriteString(ex.Description + "\n\n")
			}
			for i, s := range ex.Steps {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
			}
			if len(ex.Steps) > 0 {
				sb.WriteString("\n")
			}
		}
	}
	sb.WriteString("---\n\n")
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("**%s**\n\n", heading))
	for _, it := range items {
		sb.WriteString("- " + it + "\n")
	}
	sb.WriteString("\n")
}

// fence wraps code in a fence long enough not to collide with backticks
// inside the sample.
func fence(c content.CodeSample) string {
	marker := "```"
	for strings.Contains(c.Text, marker) {
		marker += "`"
	}
	text := strings.TrimRight(c.Text, "\n")
	return fmt.Sprintf("%s%s\n%s\n%s\n\n", marker, c.Lang(), text, marker)
}

// anchor approximates GitHub's heading slugs. Markdown anchors vary by
// renderer.
func anchor(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// SaveMarkdownToFile writes the rendered guides to filename.
func SaveMarkdownToFile(guides []content.Guide, title, filename string) error {
	md := GenerateMarkdown(guides, title, time.Now())
	if err := os.WriteFile(filename, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
