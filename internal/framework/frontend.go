package framework

import (
	"sort"
	"strings"

	"codescope/internal/scan"
)

// FrontendDetector matches UI frameworks from package.json entries,
// framework config files and component file extensions.
type FrontendDetector struct{}

func (FrontendDetector) Name() string { return "frontend" }

func (FrontendDetector) Matches(snap *scan.Snapshot) []Info {
	return collectCategory(snap, CategoryFrontend)
}

// collectCategory gathers every signal for one category and folds them
// into Info values with signal-count confidence.
func collectCategory(snap *scan.Snapshot, category Category) []Info {
	signals := make(map[Name][]string)

	deps := npmDependencies(snap)
	for _, sig := range npmSignatures {
		if sig.category != category {
			continue
		}
		for _, pkg := range sig.packages {
			if _, ok := deps[pkg]; ok {
				signals[sig.framework] = append(signals[sig.framework], "npm:"+pkg)
			}
		}
	}

	pyText := pythonManifestText(snap)
	for _, sig := range pythonSignatures {
		if sig.category != category {
			continue
		}
		for _, pkg := range sig.packages {
			if pyText != "" && containsWord(pyText, pkg) {
				signals[sig.framework] = append(signals[sig.framework], "pip:"+pkg)
			}
		}
	}

	for _, sig := range configFileSignatures {
		if sig.category != category {
			continue
		}
		signals[sig.framework] = append(signals[sig.framework], matchFiles(snap, sig)...)
	}

	return foldSignals(signals, category)
}

// foldSignals converts accumulated signals into sorted Info values.
func foldSignals(signals map[Name][]string, category Category) []Info {
	infos := make([]Info, 0, len(signals))
	for name, sigs := range signals {
		if len(sigs) == 0 {
			continue
		}
		conf := ConfidenceMedium
		if len(sigs) >= 2 {
			conf = ConfidenceHigh
		}
		sort.Strings(sigs)
		infos = append(infos, Info{Name: name, Category: category, Confidence: conf, Signals: sigs})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// containsWord reports whether text contains word at a position not
// surrounded by identifier characters. "redis" must not match
// "hiredis"; "flask-login" still counts for flask since '-' is a
// boundary in package names.
func containsWord(text, word string) bool {
	for start := 0; start <= len(text)-len(word); {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		after := idx + len(word)
		beforeOK := idx == 0 || !isIdent(text[idx-1])
		afterOK := after >= len(text) || !isIdent(text[after])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
	return false
}

func isIdent(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
