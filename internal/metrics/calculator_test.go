package metrics

import (
	"strings"
	"testing"

	"codescope/internal/scan"
	"codescope/internal/security"
)

func file(path, content string) scan.FileRecord {
	lines := strings.Count(content, "\n")
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		lines++
	}
	return scan.FileRecord{Path: path, Content: []byte(content), Lines: lines}
}

func TestCalculateBasicCounts(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{
		file("app.py", "import os\n\n# comment\nprint('hi')\n"),
		file("test_app.py", "def test_ok():\n    assert True\n"),
		file("lib/util.js", "const x = 1;\n// note\nconst y = 2;\n"),
	}}

	c := NewCalculator(DefaultWeights(), nil)
	summary := c.Calculate(snap, security.Result{})

	if summary.TotalFiles != 3 {
		t.Errorf("totalFiles = %d", summary.TotalFiles)
	}
	if summary.TotalLines != 9 {
		t.Errorf("totalLines = %d, want 9", summary.TotalLines)
	}
	// Blank and comment lines excluded: 2 + 2 + 2.
	if summary.CodeLines != 6 {
		t.Errorf("codeLines = %d, want 6", summary.CodeLines)
	}
	if summary.TestFiles != 1 {
		t.Errorf("testFiles = %d", summary.TestFiles)
	}
	if summary.FilesByExtension[".py"] != 2 || summary.FilesByExtension[".js"] != 1 {
		t.Errorf("byExtension = %+v", summary.FilesByExtension)
	}
}

func TestQualityScoreDeductions(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("a.py", "x = 1\n")}}
	sec := security.Result{Issues: []security.Issue{
		{Severity: security.SeverityHigh},
		{Severity: security.SeverityMedium},
		{Severity: security.SeverityLow},
	}}

	c := NewCalculator(DefaultWeights(), nil)
	summary := c.Calculate(snap, sec)

	// 100 - 10 - 5 - 2 = 83; one tiny file adds no other deduction.
	if summary.QualityScore != 83 {
		t.Errorf("qualityScore = %f, want 83", summary.QualityScore)
	}
}

func TestQualityScoreClampedAtZero(t *testing.T) {
	var issues []security.Issue
	for i := 0; i < 20; i++ {
		issues = append(issues, security.Issue{Severity: security.SeverityHigh})
	}

	snap := &scan.Snapshot{Files: []scan.FileRecord{file("a.py", "x = 1\n")}}
	c := NewCalculator(DefaultWeights(), nil)
	summary := c.Calculate(snap, security.Result{Issues: issues})

	if summary.QualityScore != 0 {
		t.Errorf("qualityScore = %f, want 0", summary.QualityScore)
	}
}

func TestLongFilePenalty(t *testing.T) {
	long := strings.Repeat("x = 1\n", 600)
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("big.py", long)}}

	c := NewCalculator(DefaultWeights(), nil)
	summary := c.Calculate(snap, security.Result{})

	if summary.QualityScore >= 100 {
		t.Errorf("long file should deduct, score = %f", summary.QualityScore)
	}
}

func TestLargestFilesOrdering(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{
		file("small.py", "x = 1\n"),
		file("mid.py", strings.Repeat("y = 2\n", 10)),
		file("big.py", strings.Repeat("z = 3\n", 100)),
	}}

	c := NewCalculator(DefaultWeights(), nil)
	summary := c.Calculate(snap, security.Result{})

	if len(summary.LargestFiles) != 3 {
		t.Fatalf("largestFiles = %+v", summary.LargestFiles)
	}
	if summary.LargestFiles[0].Path != "big.py" || summary.LargestFiles[2].Path != "small.py" {
		t.Errorf("ordering wrong: %+v", summary.LargestFiles)
	}
}

func TestIsTestFile(t *testing.T) {
	testCases := []struct {
		path string
		want bool
	}{
		{"foo_test.go", true},
		{"test_views.py", true},
		{"app/tests/test_api.py", true},
		{"src/__tests__/app.test.js", true},
		{"component.spec.ts", true},
		{"conftest.py", true},
		{"main.py", false},
		{"contest.py", false},
		{"protester.go", false},
	}
	for _, tc := range testCases {
		if got := IsTestFile(tc.path); got != tc.want {
			t.Errorf("IsTestFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestEmptySnapshot(t *testing.T) {
	c := NewCalculator(DefaultWeights(), nil)
	summary := c.Calculate(&scan.Snapshot{}, security.Result{})

	if summary.TotalFiles != 0 || summary.TotalLines != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.QualityScore != 100 {
		t.Errorf("empty project score = %f, want 100", summary.QualityScore)
	}
	if summary.ComplexityAvg != 0 {
		t.Errorf("complexityAvg = %f", summary.ComplexityAvg)
	}
}
