package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codescope/internal/analyzer"
	"codescope/internal/lang"
	"codescope/internal/metrics"
	"codescope/internal/security"
)

func sampleReport() *analyzer.Report {
	return &analyzer.Report{
		RunID:      "11111111-2222-3333-4444-555555555555",
		Root:       "/tmp/project",
		StartedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		DurationMS: 10,
		Phase:      analyzer.PhaseDone,
		TotalFiles: 2,
		Languages: lang.Result{
			Languages: []lang.Info{{Name: "Python", Category: "backend", FileCount: 2, LineCount: 40}},
			Primary:   "Python",
		},
		Security: security.Result{
			Issues: []security.Issue{{
				Severity: security.SeverityHigh,
				Category: security.CategorySecret,
				Rule:     "api_key",
				File:     "settings.py",
				Line:     3,
			}},
			Summary: security.Summary{Total: 1, FilesAffected: 1},
		},
		Metrics: metrics.Summary{TotalFiles: 2, TotalLines: 40, CodeLines: 30, QualityScore: 90},
	}
}

func TestFormatForPath(t *testing.T) {
	testCases := []struct {
		path string
		want Format
	}{
		{"report.json", FormatJSON},
		{"report.json.zst", FormatZstd},
		{"report.zst", FormatZstd},
		{"report.md", FormatMarkdown},
		{"report", FormatJSON},
	}
	for _, tc := range testCases {
		if got := FormatForPath(tc.path); got != tc.want {
			t.Errorf("FormatForPath(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	e := NewExporter(nil)

	if err := e.WriteFile(path, sampleReport()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["runId"] != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("runId = %v", doc["runId"])
	}
}

func TestWriteZstdRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json.zst")
	e := NewExporter(nil)
	report := sampleReport()

	if err := e.WriteFile(path, report); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	compressed, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}

	direct, err := e.Render(report, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain, direct) {
		t.Error("decompressed output differs from direct JSON render")
	}
}

func TestRenderDeterministic(t *testing.T) {
	e := NewExporter(nil)
	first, err := e.Render(sampleReport(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Render(sampleReport(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("JSON render is not deterministic")
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := string(RenderMarkdown(sampleReport()))

	for _, want := range []string{
		"# Project Analysis: /tmp/project",
		"Quality score: 90.0/100",
		"| Python | 2 | 40 |",
		"1 issues in 1 files",
		"settings.py:3",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "## API Endpoints") {
		t.Error("empty endpoint section should be omitted")
	}
}
