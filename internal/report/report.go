// Package report renders flat statistics records as human-readable
// Markdown and HTML. The rendered output is advisory only and never feeds
// back into the collected records.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/statflat/internal/record"
)

var mdEscaper = strings.NewReplacer("|", "\\|", "\n", " ")

// Markdown renders the record as a document with one table row per field,
// in field order.
func Markdown(title string, fetchedAt time.Time, flat *record.FlatRecord) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString(fmt.Sprintf("Collected at %s — %d fields.\n\n",
		fetchedAt.Format(time.RFC3339), flat.Len()))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("| --- | --- |\n")
	for _, path := range flat.Paths() {
		value, _ := flat.Get(path)
		sb.WriteString("| " + mdEscaper.Replace(path) + " | " + mdEscaper.Replace(value) + " |\n")
	}
	return sb.String()
}

// HTML renders the record as a complete HTML page via goldmark.
func HTML(title string, fetchedAt time.Time, flat *record.FlatRecord) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(title, fetchedAt, flat)), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title></head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
