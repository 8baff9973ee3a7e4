package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/apiguide/pkg/content"
)

// codeMarks decides how each code sample's label is decorated.
type codeMarks struct {
	selected int                  // body item index of the selected sample, -1 for none
	copied   func(id string) bool // nil when no acknowledgment should show
}

// UnitMarkdown renders unit i of g as markdown without any selection or
// copy decoration. Used by the CLI's show command.
func UnitMarkdown(g content.Guide, i int) string {
	u, ok := g.Unit(i)
	if !ok {
		return ""
	}
	return unitMarkdown(g, u, codeMarks{selected: -1})
}

func unitMarkdown(g content.Guide, u content.Unit, marks codeMarks) string {
	var sb strings.Builder

	if u.Description != "" {
		sb.WriteString("_" + u.Description + "_\n\n")
	}

	writeBullets(&sb, "Objectives", u.Objectives)
	writeBullets(&sb, "Prerequisites", u.Prerequisites)

	if u.Explanation != "" {
		sb.WriteString(strings.TrimSpace(u.Explanation) + "\n\n")
	}

	for i, item := range u.Body {
		sb.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, item.Title))
		if item.Content != "" {
			sb.WriteString(strings.TrimSpace(item.Content) + "\n\n")
		}
		if item.Code != nil {
			sb.WriteString(codeLabel(content.CodeBlockID(g.ID, u.ID, i), *item.Code, i == marks.selected, marks.copied))
			sb.WriteString(codeFence(*item.Code))
		}
		if item.Explanation != "" {
			sb.WriteString(strings.TrimSpace(item.Explanation) + "\n\n")
		}
		if item.Tip != "" {
			sb.WriteString("> 💡 **Tip:** " + strings.ReplaceAll(strings.TrimSpace(item.Tip), "\n", "\n> ") + "\n\n")
		}
	}

	if ex := u.Exercise; ex != nil {
		sb.WriteString("---\n\n")
		sb.WriteString(fmt.Sprintf("## 🏋 Exercise: %s\n\n", ex.Title))
		if ex.Description != "" {
			sb.WriteString(ex.Description + "\n\n")
		}
		for i, step := range ex.Steps {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
		}
		if len(ex.Steps) > 0 {
			sb.WriteString("\n")
		}
	}

	if u.Interactive == "playground" {
		sb.WriteString("> Press **P** to open the API playground.\n")
	}

	return sb.String()
}

func writeBullets(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("**" + heading + "**\n\n")
	for _, it := range items {
		sb.WriteString("- " + it + "\n")
	}
	sb.WriteString("\n")
}

// codeLabel is the line above a code sample: its language, a selection
// arrow, and the copy acknowledgment.
func codeLabel(id string, code content.CodeSample, selected bool, copied func(string) bool) string {
	label := "`" + code.Lang() + "`"
	if selected {
		label = "**▶** " + label + " · _y to copy_"
	}
	if copied != nil && copied(id) {
		label += " · **✓ copied**"
	}
	return label + "\n\n"
}

// codeFence fences code with a marker longer than any backtick run inside
// it, keeping the text byte-for-byte.
func codeFence(code content.CodeSample) string {
	marker := "```"
	for strings.Contains(code.Text, marker) {
		marker += "`"
	}
	return marker + code.Lang() + "\n" + strings.TrimRight(code.Text, "\n") + "\n" + marker + "\n\n"
}
