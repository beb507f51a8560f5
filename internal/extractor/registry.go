// Package extractor selects the metadata extraction backend by name.
package extractor

import (
	"fmt"
	"sort"

	"exiflyzer/internal/config"
	"exiflyzer/internal/port"
)

// ProviderFactory creates a MetadataExtractor from the tool config.
type ProviderFactory func(cfg *config.ToolConfig) (port.MetadataExtractor, error)

// registry of extractor provider factories, populated at startup via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates the extractor named by cfg.Provider.
func NewExtractor(cfg *config.ToolConfig) (port.MetadataExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Providers lists the registered provider names.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
