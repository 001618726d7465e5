package framework

import (
	"log/slog"
	"sort"

	"codescope/internal/scan"
)

// Detector runs every strategy and merges their detections into one
// deterministic list.
type Detector struct {
	strategies []Strategy
	log        *slog.Logger
}

// NewDetector creates a Detector with the full strategy set.
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Detector{
		strategies: []Strategy{
			FrontendDetector{},
			BackendDetector{},
			DatabaseDetector{},
			TestingDetector{},
			CSSDetector{},
		},
		log: logger,
	}
}

// Detect merges strategy results with set semantics per framework name.
// When two strategies report the same name, the higher confidence wins;
// on a full tie the lexically smaller category label wins, so output
// never depends on strategy order.
func (d *Detector) Detect(snap *scan.Snapshot) []Info {
	byName := make(map[Name]Info)

	for _, strat := range d.strategies {
		for _, info := range strat.Matches(snap) {
			prev, seen := byName[info.Name]
			if !seen {
				byName[info.Name] = info
				continue
			}
			if info.Confidence.Weight() > prev.Confidence.Weight() {
				byName[info.Name] = info
			} else if info.Confidence.Weight() == prev.Confidence.Weight() && info.Category < prev.Category {
				byName[info.Name] = info
			}
		}
	}

	out := make([]Info, 0, len(byName))
	for _, info := range byName {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	d.log.Debug("framework detection complete", "frameworks", len(out))
	return out
}

// Detected reports whether name is present in a detection list.
func Detected(infos []Info, name Name) bool {
	for _, info := range infos {
		if info.Name == name {
			return true
		}
	}
	return false
}
