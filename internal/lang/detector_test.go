package lang

import (
	"testing"

	"codescope/internal/scan"
)

func TestDetect(t *testing.T) {
	testCases := []struct {
		path    string
		content string
		want    string
		ok      bool
	}{
		{"src/app.py", "", "Python", true},
		{"web/index.tsx", "", "TypeScript", true},
		{"Dockerfile", "FROM python:3.12", "Dockerfile", true},
		{"Makefile", "all:", "Makefile", true},
		{"Gemfile", "", "Ruby", true},
		{"scripts/run", "#!/usr/bin/env python3\nprint()", "Python", true},
		{"scripts/deploy", "#!/bin/bash\necho hi", "Shell", true},
		{"LICENSE", "MIT", "", false},
		{"notes.txt", "hello", "", false},
	}

	for _, tc := range testCases {
		rec := scan.FileRecord{Path: tc.path, Content: []byte(tc.content)}
		got, ok := Detect(rec)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Detect(%q) = (%q, %v), want (%q, %v)", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAggregateOrdering(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{
		{Path: "a.py", Lines: 10},
		{Path: "b.py", Lines: 20},
		{Path: "c.js", Lines: 5},
		{Path: "d.rb", Lines: 1},
		{Path: "e.go", Lines: 1},
		{Path: "README", Lines: 3},
	}}

	res := Aggregate(snap)

	if res.Primary != "Python" {
		t.Errorf("primary = %q, want Python", res.Primary)
	}
	if res.Unclassified != 1 {
		t.Errorf("unclassified = %d, want 1", res.Unclassified)
	}
	if len(res.Languages) != 4 {
		t.Fatalf("languages = %d, want 4", len(res.Languages))
	}

	py := res.Languages[0]
	if py.Name != "Python" || py.FileCount != 2 || py.LineCount != 30 {
		t.Errorf("python tally = %+v", py)
	}

	// Single-file languages tie on count and fall back to name order.
	if res.Languages[1].Name != "Go" || res.Languages[2].Name != "JavaScript" || res.Languages[3].Name != "Ruby" {
		t.Errorf("tie-break order wrong: %+v", res.Languages[1:])
	}
}

func TestAggregateEmpty(t *testing.T) {
	res := Aggregate(&scan.Snapshot{})
	if len(res.Languages) != 0 || res.Primary != "" {
		t.Errorf("empty snapshot should yield empty result, got %+v", res)
	}
}

func TestCategoryOf(t *testing.T) {
	if CategoryOf("Python") != CategoryBackend {
		t.Error("Python should be backend")
	}
	if CategoryOf("Elm") != CategoryGeneral {
		t.Error("unknown language should be general")
	}
}
