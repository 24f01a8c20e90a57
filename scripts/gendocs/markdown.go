package main

import (
	"fmt"
	"strings"
)

// MarkdownWriter builds a markdown document section by section.
type MarkdownWriter struct {
	sb strings.Builder
}

// NewMarkdownWriter creates an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block with title and description.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.sb.WriteString("---\n")
	fmt.Fprintf(&w.sb, "title: %s\n", title)
	fmt.Fprintf(&w.sb, "description: %s\n", description)
	w.sb.WriteString("---\n\n")
}

// GeneratedMarker writes a comment warning that the file is generated.
func (w *MarkdownWriter) GeneratedMarker() {
	w.sb.WriteString("<!-- Generated by scripts/gendocs. DO NOT EDIT. -->\n\n")
}

// Header writes a markdown header at the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	w.sb.WriteString(strings.Repeat("#", level))
	w.sb.WriteByte(' ')
	w.sb.WriteString(text)
	w.sb.WriteString("\n\n")
}

// Paragraph writes a paragraph followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.sb.WriteString(strings.TrimSpace(text))
	w.sb.WriteString("\n\n")
}

// CodeBlock writes a fenced code block with the given language tag.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.sb, "```%s\n", lang)
	w.sb.WriteString(strings.TrimRight(code, "\n"))
	w.sb.WriteString("\n```\n\n")
}

// BulletList writes items as a markdown bullet list.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		fmt.Fprintf(&w.sb, "- %s\n", item)
	}
	w.sb.WriteByte('\n')
}

// Table writes a markdown table. Pipes inside cells are escaped.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	escape := func(cell string) string {
		return strings.ReplaceAll(cell, "|", "\\|")
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = escape(h)
	}
	fmt.Fprintf(&w.sb, "| %s |\n", strings.Join(cells, " | "))

	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(&w.sb, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[i] = escape(row[i])
			}
		}
		fmt.Fprintf(&w.sb, "| %s |\n", strings.Join(cells, " | "))
	}
	w.sb.WriteByte('\n')
}

// Bytes returns the document built so far.
func (w *MarkdownWriter) Bytes() []byte {
	return []byte(w.sb.String())
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// Bold wraps s in double asterisks.
func Bold(s string) string {
	return "**" + s + "**"
}

// cleanDescription collapses a multi-line description into one table-safe
// line.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}
