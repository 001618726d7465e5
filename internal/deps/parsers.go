package deps

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"codescope/internal/scan"
)

// ManifestParser extracts declared dependencies from one manifest
// format.
type ManifestParser interface {
	// Applies reports whether this parser handles the given relative
	// path.
	Applies(relPath string) bool
	// Parse returns the dependencies declared in the manifest.
	Parse(rec scan.FileRecord) ([]Dependency, error)
}

// Parsers returns every supported manifest parser.
func Parsers() []ManifestParser {
	return []ManifestParser{
		requirementsParser{},
		packageJSONParser{},
		pipfileParser{},
		pyprojectParser{},
		cargoParser{},
		goModParser{},
		gemfileParser{},
		composerParser{},
		pubspecParser{},
	}
}

func base(relPath string) string { return path.Base(relPath) }

// requirementsParser reads pip requirements files.
type requirementsParser struct{}

func (requirementsParser) Applies(relPath string) bool {
	b := base(relPath)
	return b == "requirements.txt" || (strings.HasPrefix(b, "requirements-") && strings.HasSuffix(b, ".txt"))
}

var requirementSplit = regexp.MustCompile(`==|>=|<=|~=|!=|===|>|<`)

func (requirementsParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var out []Dependency
	sc := bufio.NewScanner(bytes.NewReader(rec.Content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		// Environment markers and extras do not affect the name.
		if i := strings.Index(line, ";"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		name := line
		version := ""
		if loc := requirementSplit.FindStringIndex(line); loc != nil {
			name = strings.TrimSpace(line[:loc[0]])
			version = strings.TrimSpace(line[loc[0]:])
		}
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		if name == "" {
			continue
		}
		out = append(out, Dependency{
			Name:      name,
			Version:   version,
			Ecosystem: EcosystemPyPI,
			Manifest:  rec.Path,
		})
	}
	return out, sc.Err()
}

// packageJSONParser reads npm manifests.
type packageJSONParser struct{}

func (packageJSONParser) Applies(relPath string) bool { return base(relPath) == "package.json" }

func (packageJSONParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(rec.Content, &pkg); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}

	out := fromMap(pkg.Dependencies, EcosystemNPM, rec.Path, false)
	out = append(out, fromMap(pkg.DevDependencies, EcosystemNPM, rec.Path, true)...)
	return out, nil
}

// pipfileParser reads Pipfiles (TOML).
type pipfileParser struct{}

func (pipfileParser) Applies(relPath string) bool { return base(relPath) == "Pipfile" }

func (pipfileParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var doc struct {
		Packages    map[string]any `toml:"packages"`
		DevPackages map[string]any `toml:"dev-packages"`
	}
	if err := toml.Unmarshal(rec.Content, &doc); err != nil {
		return nil, fmt.Errorf("parse Pipfile: %w", err)
	}

	out := fromAnyMap(doc.Packages, EcosystemPyPI, rec.Path, false)
	out = append(out, fromAnyMap(doc.DevPackages, EcosystemPyPI, rec.Path, true)...)
	return out, nil
}

// pyprojectParser reads PEP 621 and poetry pyproject.toml files.
type pyprojectParser struct{}

func (pyprojectParser) Applies(relPath string) bool { return base(relPath) == "pyproject.toml" }

func (pyprojectParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(rec.Content, &doc); err != nil {
		return nil, fmt.Errorf("parse pyproject.toml: %w", err)
	}

	var out []Dependency
	for _, spec := range doc.Project.Dependencies {
		name := spec
		version := ""
		if loc := requirementSplit.FindStringIndex(spec); loc != nil {
			name = strings.TrimSpace(spec[:loc[0]])
			version = strings.TrimSpace(spec[loc[0]:])
		}
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		out = append(out, Dependency{Name: strings.TrimSpace(name), Version: version, Ecosystem: EcosystemPyPI, Manifest: rec.Path})
	}

	for _, dep := range fromAnyMap(doc.Tool.Poetry.Dependencies, EcosystemPyPI, rec.Path, false) {
		if dep.Name == "python" {
			continue
		}
		out = append(out, dep)
	}
	for _, dep := range fromAnyMap(doc.Tool.Poetry.DevDependencies, EcosystemPyPI, rec.Path, true) {
		out = append(out, dep)
	}
	return out, nil
}

// cargoParser reads Cargo.toml.
type cargoParser struct{}

func (cargoParser) Applies(relPath string) bool { return base(relPath) == "Cargo.toml" }

func (cargoParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var doc struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal(rec.Content, &doc); err != nil {
		return nil, fmt.Errorf("parse Cargo.toml: %w", err)
	}

	out := fromAnyMap(doc.Dependencies, EcosystemCrates, rec.Path, false)
	out = append(out, fromAnyMap(doc.DevDependencies, EcosystemCrates, rec.Path, true)...)
	return out, nil
}

// goModParser reads go.mod require directives.
type goModParser struct{}

func (goModParser) Applies(relPath string) bool { return base(relPath) == "go.mod" }

func (goModParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var out []Dependency
	inBlock := false

	sc := bufio.NewScanner(bytes.NewReader(rec.Content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "require (":
			inBlock = true
			continue
		case inBlock && line == ")":
			inBlock = false
			continue
		}

		fields := strings.Fields(line)
		if !inBlock {
			if len(fields) < 3 || fields[0] != "require" {
				continue
			}
			fields = fields[1:]
		}
		if len(fields) < 2 || strings.HasPrefix(fields[0], "//") {
			continue
		}
		out = append(out, Dependency{
			Name:      fields[0],
			Version:   fields[1],
			Ecosystem: EcosystemGo,
			Manifest:  rec.Path,
			Dev:       len(fields) > 2 && strings.Contains(line, "// indirect"),
		})
	}
	return out, sc.Err()
}

// gemfileParser reads Gemfiles with a line pattern; full Ruby parsing
// is out of reach for a static scan.
type gemfileParser struct{}

func (gemfileParser) Applies(relPath string) bool { return base(relPath) == "Gemfile" }

var gemLine = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)

func (gemfileParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var out []Dependency
	sc := bufio.NewScanner(bytes.NewReader(rec.Content))
	for sc.Scan() {
		m := gemLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		out = append(out, Dependency{
			Name:      m[1],
			Version:   m[2],
			Ecosystem: EcosystemRubyGems,
			Manifest:  rec.Path,
		})
	}
	return out, sc.Err()
}

// composerParser reads composer.json, skipping platform requirements
// like "php" and "ext-*".
type composerParser struct{}

func (composerParser) Applies(relPath string) bool { return base(relPath) == "composer.json" }

func (composerParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var doc struct {
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal(rec.Content, &doc); err != nil {
		return nil, fmt.Errorf("parse composer.json: %w", err)
	}

	filter := func(m map[string]string) map[string]string {
		out := make(map[string]string, len(m))
		for k, v := range m {
			if k == "php" || strings.HasPrefix(k, "ext-") {
				continue
			}
			out[k] = v
		}
		return out
	}

	out := fromMap(filter(doc.Require), EcosystemPackagist, rec.Path, false)
	out = append(out, fromMap(filter(doc.RequireDev), EcosystemPackagist, rec.Path, true)...)
	return out, nil
}

// pubspecParser reads Dart pubspec.yaml.
type pubspecParser struct{}

func (pubspecParser) Applies(relPath string) bool { return base(relPath) == "pubspec.yaml" }

func (pubspecParser) Parse(rec scan.FileRecord) ([]Dependency, error) {
	var doc struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(rec.Content, &doc); err != nil {
		return nil, fmt.Errorf("parse pubspec.yaml: %w", err)
	}

	out := fromAnyMap(doc.Dependencies, EcosystemPub, rec.Path, false)
	out = append(out, fromAnyMap(doc.DevDependencies, EcosystemPub, rec.Path, true)...)
	return out, nil
}

// fromMap builds sorted dependencies from a name->version map.
func fromMap(m map[string]string, eco Ecosystem, manifest string, dev bool) []Dependency {
	out := make([]Dependency, 0, len(m))
	for name, version := range m {
		out = append(out, Dependency{Name: name, Version: version, Ecosystem: eco, Manifest: manifest, Dev: dev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// fromAnyMap handles manifests where a dependency value is either a
// version string or a table ({version = "1.2", features = [...]}).
func fromAnyMap(m map[string]any, eco Ecosystem, manifest string, dev bool) []Dependency {
	out := make([]Dependency, 0, len(m))
	for name, v := range m {
		version := ""
		switch val := v.(type) {
		case string:
			version = val
		case map[string]any:
			if s, ok := val["version"].(string); ok {
				version = s
			}
		}
		out = append(out, Dependency{Name: name, Version: version, Ecosystem: eco, Manifest: manifest, Dev: dev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
