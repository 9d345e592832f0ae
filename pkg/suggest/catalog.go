package suggest

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/debleena1993/KPIChatbot/pkg/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// catalog is the hand-authored fallback suggestion set: a fixed list
// per sector plus sector-independent common suggestions.
type catalog struct {
	Sectors map[string][]models.KPISuggestion `yaml:"sectors"`
	Common  []models.KPISuggestion            `yaml:"common"`
}

// loadCatalog parses the embedded catalog.
func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parse suggestion catalog: %w", err)
	}
	return &c, nil
}

// forSector returns the fixed suggestions for a sector followed by the
// common set. Unknown sectors get only the common set.
func (c *catalog) forSector(sector string) []models.KPISuggestion {
	var out []models.KPISuggestion
	out = append(out, c.Sectors[sector]...)
	out = append(out, c.Common...)
	return out
}
