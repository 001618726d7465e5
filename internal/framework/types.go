// Package framework identifies frameworks and major libraries from
// static project signals: manifests, config files, file extensions and
// docker-compose services. It never executes project code.
package framework

import "codescope/internal/scan"

// Category classifies what role a framework plays.
type Category string

const (
	CategoryFrontend Category = "frontend"
	CategoryBackend  Category = "backend"
	CategoryDatabase Category = "database"
	CategoryTesting  Category = "testing"
	CategoryCSS      Category = "css"
)

// Confidence expresses how many independent signals backed a detection.
type Confidence string

const (
	// ConfidenceHigh means two or more independent signals matched.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means exactly one signal matched.
	ConfidenceMedium Confidence = "medium"
)

// Weight returns a numeric rank for merging detections.
func (c Confidence) Weight() int {
	if c == ConfidenceHigh {
		return 2
	}
	return 1
}

// Info is one detected framework.
type Info struct {
	Name       Name       `json:"name"`
	Category   Category   `json:"category"`
	Confidence Confidence `json:"confidence"`
	Signals    []string   `json:"signals,omitempty"`
}

// Name identifies a framework. The set is closed so downstream phases
// (API extraction, schema parsing) can dispatch on it.
type Name string

const (
	React      Name = "React"
	Vue        Name = "Vue.js"
	Angular    Name = "Angular"
	Svelte     Name = "Svelte"
	NextJS     Name = "Next.js"
	NuxtJS     Name = "Nuxt.js"
	Gatsby     Name = "Gatsby"
	FastAPI    Name = "FastAPI"
	Django     Name = "Django"
	Flask      Name = "Flask"
	Express    Name = "Express.js"
	NestJS     Name = "NestJS"
	SpringBoot Name = "Spring Boot"
	Laravel    Name = "Laravel"
	Gin        Name = "Gin"
	PostgreSQL Name = "PostgreSQL"
	MySQL      Name = "MySQL"
	MongoDB    Name = "MongoDB"
	Redis      Name = "Redis"
	SQLite     Name = "SQLite"
	Pytest     Name = "pytest"
	Jest       Name = "Jest"
	Vitest     Name = "Vitest"
	Mocha      Name = "Mocha"
	RSpec      Name = "RSpec"
	Tailwind   Name = "Tailwind CSS"
	Bootstrap  Name = "Bootstrap"
	Sass       Name = "Sass"
)

// Strategy inspects a snapshot for frameworks of one category group.
type Strategy interface {
	Name() string
	Matches(snap *scan.Snapshot) []Info
}
