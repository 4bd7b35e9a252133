// Package docimport turns lesson-plan files into the markdown the rubric
// extractor reads. HTML exports from word processors and LMS editors are
// sanitized and converted so their tables become pipe rows.
package docimport

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// Format of an input document.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied name to a Format. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", nil
	case "md", "markdown", "text", "txt":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown document format %q", s)
}

// MaxSize bounds how much of a document is read.
const MaxSize = 4 << 20

// Importer converts documents to markdown. It is safe for concurrent use.
type Importer struct {
	policy *bluemonday.Policy
	conv   *converter.Converter
}

// NewImporter creates an importer.
func NewImporter() *Importer {
	return &Importer{
		policy: bluemonday.UGCPolicy(),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Import reads r and returns markdown. An empty format is detected from the
// content.
func (im *Importer) Import(r io.Reader, format Format) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("document exceeds %d bytes", MaxSize)
	}
	if format == "" {
		format = DetectFormat("", data)
	}

	switch format {
	case FormatMarkdown:
		return string(data), nil
	case FormatHTML:
		return im.htmlToMarkdown(data)
	}
	return "", fmt.Errorf("unsupported document format %q", format)
}

// ImportString is Import over an in-memory document.
func (im *Importer) ImportString(doc string, format Format) (string, error) {
	return im.Import(strings.NewReader(doc), format)
}

func (im *Importer) htmlToMarkdown(data []byte) (string, error) {
	clean := im.policy.SanitizeBytes(data)
	md, err := im.conv.ConvertString(string(clean))
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// DetectFormat picks a format from the file extension, then from the first
// non-blank byte of content.
func DetectFormat(name string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".md", ".markdown", ".txt":
		return FormatMarkdown
	}
	trimmed := bytes.TrimLeft(content, " \t\r\n\uFEFF")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatHTML
	}
	return FormatMarkdown
}

// Title returns the text of the first markdown heading in md, or fallback
// when there is none.
func Title(md, fallback string) string {
	for line := range strings.Lines(md) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if t := strings.TrimSpace(strings.TrimLeft(line, "#")); t != "" {
			return t
		}
	}
	return fallback
}
