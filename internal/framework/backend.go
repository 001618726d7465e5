package framework

import (
	"strings"

	"codescope/internal/scan"
)

// BackendDetector matches server frameworks from Python and npm
// manifests, Go modules, JVM build files, framework marker files and
// source imports.
type BackendDetector struct{}

func (BackendDetector) Name() string { return "backend" }

func (BackendDetector) Matches(snap *scan.Snapshot) []Info {
	infos := collectCategory(snap, CategoryBackend)

	// Source imports count as a signal of their own, so a project
	// holding a single route file and no manifest is still detected.
	extra := sourceImportSignals(snap)

	if rec := snap.File("go.mod"); rec != nil {
		if strings.Contains(string(rec.Content), "github.com/gin-gonic/gin") {
			extra[Gin] = append(extra[Gin], "gomod:github.com/gin-gonic/gin")
		}
	}

	for _, name := range []string{"pom.xml", "build.gradle", "build.gradle.kts"} {
		rec := snap.File(name)
		if rec == nil {
			continue
		}
		if strings.Contains(string(rec.Content), "spring-boot") {
			extra[SpringBoot] = append(extra[SpringBoot], "build:"+name)
		}
	}

	if len(extra) == 0 {
		return infos
	}

	merged := make(map[Name][]string, len(infos)+len(extra))
	for _, info := range infos {
		merged[info.Name] = info.Signals
	}
	for name, sigs := range extra {
		merged[name] = append(merged[name], sigs...)
	}
	return foldSignals(merged, CategoryBackend)
}
