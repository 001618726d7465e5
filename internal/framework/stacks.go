package framework

import (
	"strings"

	"codescope/internal/scan"

	"gopkg.in/yaml.v3"
)

// DatabaseDetector matches database engines from manifest drivers,
// sqlite files and docker-compose service images.
type DatabaseDetector struct{}

func (DatabaseDetector) Name() string { return "database" }

func (DatabaseDetector) Matches(snap *scan.Snapshot) []Info {
	infos := collectCategory(snap, CategoryDatabase)

	compose := composeImages(snap)
	if len(compose) == 0 {
		return infos
	}

	merged := make(map[Name][]string, len(infos)+len(compose))
	for _, info := range infos {
		merged[info.Name] = info.Signals
	}
	for name, sigs := range compose {
		merged[name] = append(merged[name], sigs...)
	}
	return foldSignals(merged, CategoryDatabase)
}

// composeImages inspects root-level compose files for known database
// images. A malformed compose file is silently skipped; the scanner
// already surfaced unreadable files.
func composeImages(snap *scan.Snapshot) map[Name][]string {
	signals := make(map[Name][]string)

	for _, name := range []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"} {
		rec := snap.File(name)
		if rec == nil {
			continue
		}

		var doc struct {
			Services map[string]struct {
				Image string `yaml:"image"`
			} `yaml:"services"`
		}
		if err := yaml.Unmarshal(rec.Content, &doc); err != nil {
			continue
		}

		for _, svc := range doc.Services {
			image := svc.Image
			// Strip registry path and tag: "library/postgres:16" -> "postgres".
			if i := strings.LastIndexByte(image, '/'); i >= 0 {
				image = image[i+1:]
			}
			if i := strings.IndexByte(image, ':'); i >= 0 {
				image = image[:i]
			}
			if db, ok := composeImageSignatures[image]; ok {
				signals[db] = append(signals[db], "compose:"+svc.Image)
			}
		}
	}

	return signals
}

// TestingDetector matches test frameworks from manifests and test
// runner config files.
type TestingDetector struct{}

func (TestingDetector) Name() string { return "testing" }

func (TestingDetector) Matches(snap *scan.Snapshot) []Info {
	return collectCategory(snap, CategoryTesting)
}

// CSSDetector matches styling toolchains.
type CSSDetector struct{}

func (CSSDetector) Name() string { return "css" }

func (CSSDetector) Matches(snap *scan.Snapshot) []Info {
	return collectCategory(snap, CategoryCSS)
}
