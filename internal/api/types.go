package api

import "codescope/internal/framework"

// Endpoint is one HTTP route found by static extraction.
type Endpoint struct {
	Method     string         `json:"method"`
	Path       string         `json:"path"`
	Handler    string         `json:"handler"`
	SourceFile string         `json:"sourceFile"`
	Framework  framework.Name `json:"framework"`
}

// Result is the API phase output.
type Result struct {
	Endpoints []Endpoint `json:"endpoints"`
	// ByFramework counts endpoints per framework.
	ByFramework map[framework.Name]int `json:"byFramework,omitempty"`
}
