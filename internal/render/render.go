// Package render turns a MetadataDocument into display-ready categories and
// fields. Nothing here is stored; every value is derived on demand.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"exiflyzer/internal/domain"
)

// ExpandThreshold is the rendered length above which a textual value is shown
// collapsed by default.
const ExpandThreshold = 100

// DisplayField is one rendered metadata entry.
type DisplayField struct {
	Name       string
	Label      string
	Value      string
	Expandable bool
	Structured bool
}

// DisplayCategory is a titled group of rendered fields.
type DisplayCategory struct {
	Key    string
	Title  string
	Icon   Icon
	Fields []DisplayField
}

// Categorize renders every non-empty category of doc in document order.
func Categorize(doc *domain.MetadataDocument) []DisplayCategory {
	if doc == nil {
		return nil
	}
	out := make([]DisplayCategory, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		if len(c.Fields) == 0 {
			continue
		}
		dc := DisplayCategory{
			Key:    c.Name,
			Title:  CategoryTitle(c.Name),
			Icon:   IconFor(c.Name),
			Fields: make([]DisplayField, 0, len(c.Fields)),
		}
		for _, f := range c.Fields {
			dc.Fields = append(dc.Fields, RenderField(c.Name, f.Name, f.Value))
		}
		out = append(out, dc)
	}
	return out
}

// RenderField derives the display form of one field.
func RenderField(category, field string, raw any) DisplayField {
	df := DisplayField{Name: field, Label: Label(field)}

	if block, ok := structuredBlock(raw); ok {
		df.Value = block
		df.Structured = true
		return df
	}

	if isSizeField(field) {
		if n, ok := toNumber(raw); ok {
			df.Value = FormatBytes(math.Trunc(n))
			return df
		}
	}

	df.Value = text(raw)
	df.Expandable = utf8.RuneCountInString(df.Value) > ExpandThreshold
	return df
}

// Label inserts a space before every capital letter and trims the result,
// so ImageWidth becomes "Image Width".
func Label(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isSizeField(field string) bool {
	return strings.Contains(strings.ToLower(field), "size")
}

// structuredBlock pretty-prints nested values with a two-space indent.
func structuredBlock(raw any) (string, bool) {
	switch v := raw.(type) {
	case json.RawMessage:
		var buf bytes.Buffer
		if err := json.Indent(&buf, v, "", "  "); err != nil {
			return string(v), true
		}
		return buf.String(), true
	case map[string]any, []any:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(out), true
	}
	return "", false
}

// toNumber reports whether raw is a finite number or a numeric string.
func toNumber(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
