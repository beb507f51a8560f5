package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/render"
)

var iconGlyphs = map[render.Icon]string{
	render.IconFile:     "[F]",
	render.IconFolder:   "[D]",
	render.IconFileText: "[T]",
	render.IconImage:    "[I]",
	render.IconCamera:   "[C]",
	render.IconMapPin:   "[L]",
	render.IconCalendar: "[@]",
	render.IconInfo:     "[i]",
}

// collapsedWidth is how many runes of an expandable value are shown by default.
const collapsedWidth = render.ExpandThreshold

func printStatus(w io.Writer, status *domain.SystemStatus) {
	if !status.OK() {
		fmt.Fprintf(w, "Status:         error\n")
		if status != nil && status.Message != "" {
			fmt.Fprintf(w, "Message:        %s\n", status.Message)
		}
		return
	}
	fmt.Fprintf(w, "Status:         ok\n")
	if status.ExiftoolVersion != "" {
		fmt.Fprintf(w, "ExifTool:       %s\n", status.ExiftoolVersion)
	}
	fmt.Fprintf(w, "Supported:      %s\n", strings.Join(status.SupportedExtensions, ", "))
}

func printDocument(w io.Writer, file *domain.CandidateFile, doc *domain.MetadataDocument, full bool) error {
	fmt.Fprintf(w, "%s (%s)\n", file.Name, render.FormatBytes(float64(file.Size)))

	fp, err := render.MetadataFootprint(doc, file.Size)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, fp.String())

	categories := render.Categorize(doc)
	if len(categories) == 0 {
		fmt.Fprintln(w, "\nNo metadata found.")
		return nil
	}

	for _, cat := range categories {
		fmt.Fprintf(w, "\n%s %s\n", iconGlyphs[cat.Icon], cat.Title)
		width := labelWidth(cat.Fields)
		for _, f := range cat.Fields {
			switch {
			case f.Structured:
				fmt.Fprintf(w, "  %s:\n", f.Label)
				for _, line := range strings.Split(f.Value, "\n") {
					fmt.Fprintf(w, "      %s\n", line)
				}
			case f.Expandable && !full:
				fmt.Fprintf(w, "  %-*s  %s... (use --full)\n", width, f.Label, truncate(f.Value, collapsedWidth))
			default:
				fmt.Fprintf(w, "  %-*s  %s\n", width, f.Label, f.Value)
			}
		}
	}
	return nil
}

func printJSON(w io.Writer, doc *domain.MetadataDocument) error {
	if doc == nil {
		doc = &domain.MetadataDocument{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func labelWidth(fields []render.DisplayField) int {
	width := 0
	for _, f := range fields {
		if n := len([]rune(f.Label)); n > width {
			width = n
		}
	}
	return width
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
