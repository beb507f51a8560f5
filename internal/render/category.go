package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"exiflyzer/internal/domain"
)

// Icon identifies the glyph shown next to a category heading.
type Icon string

const (
	IconFile     Icon = "file"
	IconFolder   Icon = "folder"
	IconFileText Icon = "file-text"
	IconImage    Icon = "image"
	IconCamera   Icon = "camera"
	IconMapPin   Icon = "map-pin"
	IconCalendar Icon = "calendar"
	IconInfo     Icon = "info"
)

var categoryIcons = map[string]Icon{
	"basic":    IconFile,
	"file":     IconFolder,
	"pdf":      IconFileText,
	"image":    IconImage,
	"camera":   IconCamera,
	"location": IconMapPin,
	"datetime": IconCalendar,
}

// IconFor returns the icon for a category key, IconInfo when unknown.
func IconFor(category string) Icon {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return IconInfo
}

// CategoryTitle replaces underscores with spaces and upper-cases the first
// letter of each word: gps_location becomes "Gps Location".
func CategoryTitle(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Footprint is how much of a file its metadata accounts for.
type Footprint struct {
	Bytes   int
	Human   string
	Percent float64
}

func (f Footprint) String() string {
	return fmt.Sprintf("Metadata takes %s (%.1f%%) of this file", f.Human, f.Percent)
}

// MetadataFootprint measures the JSON-encoded document against fileSize.
func MetadataFootprint(doc *domain.MetadataDocument, fileSize int64) (Footprint, error) {
	if doc == nil {
		return Footprint{Human: FormatBytes(0)}, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return Footprint{}, err
	}
	encoded := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	fp := Footprint{Bytes: len(encoded), Human: FormatBytes(float64(len(encoded)))}
	if fileSize > 0 {
		fp.Percent = math.Round(float64(len(encoded))/float64(fileSize)*1000) / 10
	}
	return fp, nil
}
