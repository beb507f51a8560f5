// Package export writes a rendered metadata document as CSV or XLSX rows.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/render"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row shared by the CSV and XLSX exports.
var columns = []string{
	"Category",
	"Field",
	"Label",
	"Value",
}

// Writer wraps csv.Writer for exporting metadata as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocument writes one row per displayed field, in category order.
func (w *Writer) WriteDocument(doc *domain.MetadataDocument) error {
	for _, row := range Rows(doc) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a complete CSV export, BOM and header included.
func WriteCSV(out io.Writer, doc *domain.MetadataDocument) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteDocument(doc); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Rows converts a document into export rows using the display rendering.
// Empty categories are skipped.
func Rows(doc *domain.MetadataDocument) [][]string {
	var rows [][]string
	for _, cat := range render.Categorize(doc) {
		for _, f := range cat.Fields {
			rows = append(rows, []string{cat.Title, f.Name, f.Label, f.Value})
		}
	}
	return rows
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the default export name for a source file.
// Format: {sanitized_name}_metadata_{YYYY-MM-DD}.{ext}
func BuildFilename(sourceName, ext string) string {
	sanitized := SanitizeFilename(sourceName)
	if sanitized == "" {
		sanitized = "file"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_metadata_%s.%s", sanitized, date, ext)
}
