package security

import (
	_ "embed"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"codescope/internal/cserr"
	"codescope/internal/deps"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Vulnerability is one known-bad dependency version set.
type Vulnerability struct {
	Ecosystem   string   `toml:"ecosystem"`
	Name        string   `toml:"name"`
	Versions    []string `toml:"versions"`
	Severity    Severity `toml:"severity"`
	Advisory    string   `toml:"advisory"`
	Description string   `toml:"description"`
}

// Catalog holds the vulnerability database.
type Catalog struct {
	Vulnerabilities []Vulnerability `toml:"vulnerability"`
}

// LoadCatalog reads a catalog from path, or the embedded default when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, cserr.Wrap(cserr.CatalogInvalid, "read catalog", err)
		}
		data = b
	}

	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, cserr.Wrap(cserr.CatalogInvalid, "decode catalog", err)
	}
	return &cat, nil
}

// Match returns the vulnerability a dependency falls under, if any.
// Version entries match exactly or as a dot-boundary prefix.
func (c *Catalog) Match(dep deps.Dependency) (*Vulnerability, bool) {
	version := normalizeVersion(dep.Version)
	if version == "" {
		return nil, false
	}

	for i := range c.Vulnerabilities {
		v := &c.Vulnerabilities[i]
		if v.Ecosystem != string(dep.Ecosystem) || !strings.EqualFold(v.Name, dep.Name) {
			continue
		}
		for _, bad := range v.Versions {
			if version == bad || strings.HasPrefix(version, bad+".") {
				return v, true
			}
		}
	}
	return nil, false
}

// normalizeVersion strips constraint operators and range tails so
// "^4.17.20" and ">=4.17.20, <5" both reduce to "4.17.20".
func normalizeVersion(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "^~=<>! ")
	return strings.TrimSpace(s)
}
