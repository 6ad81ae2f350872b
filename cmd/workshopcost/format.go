package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/Simplici0/workshopcost/internal/report"
)

// write prints doc as text or markdown, or raw as indented JSON.
func write(w io.Writer, format string, doc report.Document, raw any) error {
	switch format {
	case "", "text":
		_, err := io.WriteString(w, report.Text(doc))
		return err
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(doc))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(raw)
	default:
		return fmt.Errorf("unknown format %q (want text, json or markdown)", format)
	}
}
