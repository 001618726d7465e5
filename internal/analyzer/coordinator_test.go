package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"codescope/internal/cserr"
	"codescope/internal/output"
)

func newCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeFlaskProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "requirements.txt", "flask==2.3.2\nrequests==2.31.0\n")
	writeFile(t, root, "app.py", `from flask import Flask

app = Flask(__name__)

@app.route('/health')
def health():
    return 'ok'

@app.route('/items', methods=['POST'])
def create_item():
    return 'created'
`)
	return root
}

func TestAnalyzeMissingRoot(t *testing.T) {
	c := newCoordinator(t)

	report, err := c.Analyze(context.Background(), "/no/such/directory")
	if !errors.Is(err, cserr.ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
	if report == nil || report.Phase != PhaseFailed {
		t.Errorf("report = %+v, want failed phase", report)
	}
	if c.Phase() != PhaseFailed {
		t.Errorf("coordinator phase = %s", c.Phase())
	}
}

func TestAnalyzeEmptyDir(t *testing.T) {
	c := newCoordinator(t)

	report, err := c.Analyze(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Phase != PhaseDone {
		t.Errorf("phase = %s, want done", report.Phase)
	}
	if report.TotalFiles != 0 {
		t.Errorf("totalFiles = %d", report.TotalFiles)
	}
	if report.Metrics.QualityScore != 100 {
		t.Errorf("qualityScore = %f, want 100", report.Metrics.QualityScore)
	}
	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Errorf("runId %q not a uuid: %v", report.RunID, err)
	}
}

func TestAnalyzeFlaskProject(t *testing.T) {
	c := newCoordinator(t)

	report, err := c.Analyze(context.Background(), writeFlaskProject(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Languages.Primary != "Python" {
		t.Errorf("primary language = %q", report.Languages.Primary)
	}

	var foundFlask bool
	for _, info := range report.Frameworks {
		if info.Name == "Flask" {
			foundFlask = true
		}
	}
	if !foundFlask {
		t.Fatalf("Flask not detected: %+v", report.Frameworks)
	}

	if len(report.Dependencies.Dependencies) != 2 {
		t.Fatalf("dependencies = %+v", report.Dependencies.Dependencies)
	}
	if report.Dependencies.Dependencies[0].Name != "flask" {
		t.Errorf("first dependency = %+v", report.Dependencies.Dependencies[0])
	}

	if len(report.API.Endpoints) != 2 {
		t.Fatalf("endpoints = %+v", report.API.Endpoints)
	}
	if report.API.Endpoints[0].Path != "/health" || report.API.Endpoints[0].Method != "GET" {
		t.Errorf("endpoint[0] = %+v", report.API.Endpoints[0])
	}
	if report.API.Endpoints[1].Path != "/items" || report.API.Endpoints[1].Method != "POST" {
		t.Errorf("endpoint[1] = %+v", report.API.Endpoints[1])
	}

	if report.Security.Summary.Total != 0 {
		t.Errorf("unexpected security issues: %+v", report.Security.Issues)
	}
	if report.Metrics.TotalFiles != 2 || report.Metrics.TotalLines == 0 {
		t.Errorf("metrics = %+v", report.Metrics)
	}
}

func TestAnalyzeLoneRouteFile(t *testing.T) {
	// One Python file, no manifest: the source import alone must carry
	// both framework detection and endpoint extraction.
	root := t.TempDir()
	writeFile(t, root, "app.py", `from flask import Flask

app = Flask(__name__)

@app.route('/ping')
def ping():
    return 'pong'
`)

	c := newCoordinator(t)
	report, err := c.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var flask bool
	for _, info := range report.Frameworks {
		if info.Name == "Flask" {
			flask = true
		}
	}
	if !flask {
		t.Errorf("Flask not in frameworks: %+v", report.Frameworks)
	}
	if len(report.API.Endpoints) != 1 {
		t.Fatalf("endpoints = %+v, want one", report.API.Endpoints)
	}
	if report.API.Endpoints[0].Path != "/ping" {
		t.Errorf("endpoint = %+v", report.API.Endpoints[0])
	}
}

func TestLanguagePartitionInvariant(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "print('hi')\n")
	writeFile(t, root, "util.js", "const x = 1;\n")
	writeFile(t, root, "notes.xyzzy", "not a known language\n")

	c := newCoordinator(t)
	report, err := c.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	classified := 0
	for _, info := range report.Languages.Languages {
		classified += info.FileCount
	}
	if classified+report.Languages.Unclassified != report.TotalFiles {
		t.Errorf("partition broken: %d classified + %d unclassified != %d files",
			classified, report.Languages.Unclassified, report.TotalFiles)
	}
}

func TestAnalyzeWarningsAggregated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", "{not valid json")

	c := newCoordinator(t)
	report, err := c.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var depsWarning bool
	for _, w := range report.Warnings {
		if w.Phase == "deps" && w.Path == "package.json" {
			depsWarning = true
		}
	}
	if !depsWarning {
		t.Errorf("no deps warning on report: %+v", report.Warnings)
	}
	if report.Dependencies.Warnings != nil {
		t.Errorf("warnings duplicated under dependencies: %+v", report.Dependencies.Warnings)
	}
}

func TestAnalyzeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newCoordinator(t)
	report, err := c.Analyze(ctx, writeFlaskProject(t))
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if cserr.CodeOf(err) != cserr.Canceled {
		t.Errorf("code = %s, want CANCELED", cserr.CodeOf(err))
	}
	if report == nil || report.Phase != PhaseFailed {
		t.Errorf("report = %+v, want failed phase", report)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	root := writeFlaskProject(t)
	c := newCoordinator(t)

	encode := func(report *Report) []byte {
		doc := report.ToDocument()
		// Run identity and timing differ between runs by design.
		delete(doc, "runId")
		delete(doc, "startedAt")
		delete(doc, "durationMs")
		data, err := output.Encode(doc)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		return data
	}

	first, err := c.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := c.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !bytes.Equal(encode(first), encode(second)) {
		t.Errorf("reports differ between runs:\n%s\n%s", encode(first), encode(second))
	}
}

func TestReportDocumentKeys(t *testing.T) {
	c := newCoordinator(t)
	report, err := c.Analyze(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	doc := report.ToDocument()
	for _, key := range []string{"runId", "root", "phase", "languages", "security", "metrics"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document missing %q", key)
		}
	}
	if doc["phase"] != string(PhaseDone) {
		t.Errorf("phase = %v", doc["phase"])
	}
}
