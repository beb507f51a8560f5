// Package organizer groups a flat tag map into the categorized document
// returned by the upload endpoint.
package organizer

import (
	"sort"
	"strings"

	"exiflyzer/internal/domain"
)

// Category keys in response order.
const (
	CategoryBasic      = "basic"
	CategoryFile       = "file"
	CategoryImage      = "image"
	CategoryEXIF       = "exif"
	CategoryGPS        = "gps"
	CategoryPDF        = "pdf"
	CategoryICCProfile = "icc_profile"
	CategoryXMP        = "xmp"
	CategoryOther      = "other"
)

var categoryOrder = []string{
	CategoryBasic,
	CategoryFile,
	CategoryImage,
	CategoryEXIF,
	CategoryGPS,
	CategoryPDF,
	CategoryICCProfile,
	CategoryXMP,
	CategoryOther,
}

var basicFields = map[string]bool{
	"FileName": true,
	"FileType": true,
	"MIMEType": true,
}

// prefixRules are checked in order; the first match wins.
var prefixRules = []struct {
	prefixes []string
	category string
}{
	{[]string{"File", "System"}, CategoryFile},
	{[]string{"Image", "Pixel"}, CategoryImage},
	{[]string{"EXIF"}, CategoryEXIF},
	{[]string{"GPS"}, CategoryGPS},
	{[]string{"PDF"}, CategoryPDF},
	{[]string{"ICC"}, CategoryICCProfile},
	{[]string{"XMP"}, CategoryXMP},
}

// CategoryOf returns the category a tag belongs to.
func CategoryOf(tag string) string {
	if basicFields[tag] {
		return CategoryBasic
	}
	for _, rule := range prefixRules {
		for _, p := range rule.prefixes {
			if strings.HasPrefix(tag, p) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// Organize builds a MetadataDocument from tags. Basic fields are kept as
// given; other nil or empty-string values are skipped. Fields are sorted
// within each category and empty categories are dropped.
func Organize(tags map[string]any) *domain.MetadataDocument {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	grouped := make(map[string][]domain.Field, len(categoryOrder))
	for _, k := range keys {
		v := tags[k]
		cat := CategoryOf(k)
		if cat != CategoryBasic && isEmpty(v) {
			continue
		}
		grouped[cat] = append(grouped[cat], domain.Field{Name: k, Value: v})
	}

	doc := &domain.MetadataDocument{}
	for _, cat := range categoryOrder {
		if fields := grouped[cat]; len(fields) > 0 {
			doc.Categories = append(doc.Categories, domain.Category{Name: cat, Fields: fields})
		}
	}
	return doc
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
