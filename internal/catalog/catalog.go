// Package catalog holds the recognized headline categories and country codes.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Country is one selectable country filter.
type Country struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Catalog is the immutable set of categories and countries the server accepts.
// Build it once at startup with Default or Load and share it read-only.
type Catalog struct {
	categories []string
	countries  []Country
	catIndex   map[string]bool
	ctyIndex   map[string]bool
}

type catalogFile struct {
	Categories []string  `yaml:"categories"`
	Countries  []Country `yaml:"countries"`
}

var (
	// ErrNoCategories is returned when a catalog lists no categories.
	ErrNoCategories = errors.New("catalog must list at least one category")

	// ErrInvalidCountry is returned for country codes that are not two lowercase letters.
	ErrInvalidCountry = errors.New("country code must be two lowercase letters")
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path. An empty path yields the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML catalog document.
func Parse(b []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, ErrNoCategories
	}

	c := &Catalog{
		catIndex: make(map[string]bool, len(f.Categories)),
		ctyIndex: make(map[string]bool, len(f.Countries)),
	}
	for _, name := range f.Categories {
		name = strings.TrimSpace(name)
		if name == "" || c.catIndex[name] {
			continue
		}
		c.catIndex[name] = true
		c.categories = append(c.categories, name)
	}
	for _, cty := range f.Countries {
		if !validCode(cty.Code) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCountry, cty.Code)
		}
		if c.ctyIndex[cty.Code] {
			continue
		}
		c.ctyIndex[cty.Code] = true
		c.countries = append(c.countries, cty)
	}
	return c, nil
}

func validCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// DefaultCategory is the category used for fallback redirects: the first listed.
func (c *Catalog) DefaultCategory() string { return c.categories[0] }

// HasCategory reports whether name is a recognized category.
func (c *Catalog) HasCategory(name string) bool { return c.catIndex[name] }

// HasCountry reports whether code is a recognized country code.
func (c *Catalog) HasCountry(code string) bool { return c.ctyIndex[code] }

// Categories returns a copy of the category list in display order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Countries returns a copy of the country list in display order.
func (c *Catalog) Countries() []Country {
	return append([]Country(nil), c.countries...)
}
