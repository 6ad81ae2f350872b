package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Text renders the document as flattened plain text, suitable for a
// notification body.
func Text(doc Document) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	for _, f := range doc.Meta {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}

	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "\n%s:\n", s.Heading)
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "  %s: %s\n", f.Label, f.Value)
		}
		if len(s.Columns) > 0 {
			tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "  %s\n", strings.Join(s.Columns, "\t"))
			for _, row := range s.Rows {
				fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
			}
			_ = tw.Flush()
		}
		for _, n := range s.Notes {
			fmt.Fprintf(&b, "  Note: %s\n", n)
		}
	}
	return b.String()
}

// Markdown renders the document as GitHub-flavoured Markdown.
func Markdown(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(doc.Title))
	for _, f := range doc.Meta {
		fmt.Fprintf(&b, "- **%s:** %s\n", f.Label, escapeMarkdown(f.Value))
	}

	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Heading)
		if len(s.Fields) > 0 {
			b.WriteString("| | |\n|---|---:|\n")
			for _, f := range s.Fields {
				fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(f.Label), escapeCell(f.Value))
			}
			b.WriteString("\n")
		}
		if len(s.Columns) > 0 {
			b.WriteString("| " + strings.Join(escapeCells(s.Columns), " | ") + " |\n")
			b.WriteString("|" + strings.Repeat("---|", len(s.Columns)) + "\n")
			for _, row := range s.Rows {
				b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
			}
			b.WriteString("\n")
		}
		for _, n := range s.Notes {
			fmt.Fprintf(&b, "> %s\n\n", escapeMarkdown(n))
		}
	}
	return b.String()
}

const pageStyle = `body{font-family:Helvetica,Arial,sans-serif;margin:2rem;color:#222}
table{border-collapse:collapse;margin:0.5rem 0 1rem}
td,th{border:1px solid #ccc;padding:0.3rem 0.6rem;text-align:left}
blockquote{margin:0.5rem 0;padding:0.4rem 0.8rem;border-left:4px solid #c33;background:#fbeaea}`

// HTML renders the document as a standalone HTML page.
func HTML(doc Document) (string, error) {
	return htmlPage(doc, pageStyle)
}

func htmlPage(doc Document, css string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(doc)), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n<style>%s</style>\n</head>\n<body>\n", html.EscapeString(doc.Title), css)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeMarkdown(s), "|", `\|`)
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}
	return out
}
