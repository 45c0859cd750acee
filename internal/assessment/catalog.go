package assessment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk shape of an optional questionnaire override.
//
//	questions:
//	  - {id: P1, text: "...", category: Past}
//	archetypes:
//	  Past: {label: "The Nostalgic", summary: "...", tips: ["..."]}
//
// Either section may be omitted; omitted sections keep the defaults.
type CatalogFile struct {
	Questions  []Question           `yaml:"questions"`
	Archetypes map[string]Archetype `yaml:"archetypes"`
}

// LoadCatalog reads the override file at path. An empty path returns the
// default bank and catalog.
func LoadCatalog(path string) (*Bank, Catalog, error) {
	if path == "" {
		return DefaultBank(), DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog data and merges it over the defaults.
func ParseCatalog(data []byte) (*Bank, Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parsing catalog: %w", err)
	}

	bank := DefaultBank()
	if len(file.Questions) > 0 {
		b, err := NewBank(file.Questions)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog questions: %w", err)
		}
		bank = b
	}

	catalog := DefaultCatalog()
	for name, override := range file.Archetypes {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog archetypes: %w", err)
		}
		merged := catalog[cat]
		if override.Label != "" {
			merged.Label = override.Label
		}
		if override.Summary != "" {
			merged.Summary = override.Summary
		}
		if len(override.Tips) > 0 {
			merged.Tips = override.Tips
		}
		merged.Category = cat
		catalog[cat] = merged
	}
	if err := catalog.Validate(); err != nil {
		return nil, nil, err
	}

	return bank, catalog, nil
}
