// Package catalog maps user-typed technology names to the canonical
// identifiers each downstream source needs: lifecycle-API slugs, repository
// identifiers, package names and a resolution strategy ordering.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Source types a version resolution strategy may name.
const (
	SourceNpm    = "npm"
	SourcePyPI   = "pypi"
	SourceGitHub = "github"
	SourceStatic = "static"
)

// Categories assigned to known technologies. CategoryUnknown is used for
// anything not in the table.
const (
	CategoryFrontend         = "frontend"
	CategoryBackend          = "backend"
	CategoryDatabase         = "database"
	CategoryLanguage         = "language"
	CategoryRuntime          = "runtime"
	CategoryOrchestration    = "orchestration"
	CategoryContainerization = "containerization"
	CategoryWebserver        = "webserver"
	CategorySearch           = "search"
	CategoryBuild            = "build"
	CategoryUnknown          = "unknown"
)

// Technology is one entry of the known-technology table.
type Technology struct {
	Key           string   `yaml:"key"`
	Aliases       []string `yaml:"aliases"`
	Category      string   `yaml:"category"`
	Npm           string   `yaml:"npm"`
	PyPI          string   `yaml:"pypi"`
	Repos         []string `yaml:"repos"`
	EOLSlugs      []string `yaml:"eol_slugs"`
	StaticVersion string   `yaml:"static_version"`
	StaticEOL     string   `yaml:"static_eol"`
	StaticSupport string   `yaml:"static_support"`
	StaticLTS     bool     `yaml:"static_lts"`
	CheckURL      string   `yaml:"check_url"`
	EOLPattern    string   `yaml:"eol_pattern"`
	Strategies    []string `yaml:"strategies"`
}

type catalogFile struct {
	Technologies []Technology `yaml:"technologies"`
}

// Normalization is the result of mapping a raw name through the table.
type Normalization struct {
	Key        string
	Category   string
	Known      bool
	Tech       *Technology
	Strategies []string
}

// DefaultStrategies is the source ordering used for unrecognized names.
var DefaultStrategies = []string{SourceNpm, SourcePyPI, SourceGitHub, SourceStatic}

// Catalog holds the loaded table and its alias index.
type Catalog struct {
	byKey map[string]*Technology
	alias map[string]string
	keys  []string
}

// Load parses the embedded technology table.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing technology catalog: %w", err)
	}

	c := &Catalog{
		byKey: make(map[string]*Technology),
		alias: make(map[string]string),
	}
	for i := range file.Technologies {
		tech := &file.Technologies[i]
		key := CanonicalForm(tech.Key)
		c.byKey[key] = tech
		c.alias[key] = key
		c.keys = append(c.keys, key)
		for _, a := range tech.Aliases {
			c.alias[CanonicalForm(a)] = key
		}
	}
	sort.Strings(c.keys)
	return c, nil
}

// CanonicalForm lowercases and trims a raw name. Alias resolution happens on
// top of this form, so "Node.JS " and "node.js" collapse before lookup.
func CanonicalForm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Normalize maps a raw technology name to its canonical key, category and
// resolution strategy ordering. Unrecognized names stay usable: they get the
// default ordering and the unknown category rather than an error.
func (c *Catalog) Normalize(raw string) Normalization {
	form := CanonicalForm(raw)
	if key, ok := c.alias[form]; ok {
		tech := c.byKey[key]
		strategies := tech.Strategies
		if len(strategies) == 0 {
			strategies = DefaultStrategies
		}
		return Normalization{
			Key:        key,
			Category:   tech.Category,
			Known:      true,
			Tech:       tech,
			Strategies: strategies,
		}
	}
	return Normalization{
		Key:        form,
		Category:   CategoryUnknown,
		Strategies: DefaultStrategies,
	}
}

// Suggestions returns known canonical keys with the given prefix, for name
// autocomplete. A blank query returns the full key list.
func (c *Catalog) Suggestions(query string) []string {
	form := CanonicalForm(query)
	var out []string
	for _, key := range c.keys {
		if form == "" || strings.HasPrefix(key, form) {
			out = append(out, key)
		}
	}
	return out
}

// RuntimeCategory reports whether a category has no general ecosystem
// advisory feed, which switches the vulnerability resolver into its degraded
// vendor-managed mode.
func RuntimeCategory(category string) bool {
	switch category {
	case CategoryLanguage, CategoryRuntime, CategoryDatabase,
		CategoryOrchestration, CategoryContainerization,
		CategoryWebserver, CategorySearch, CategoryBuild:
		return true
	}
	return false
}
