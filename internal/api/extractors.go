package api

import (
	"regexp"
	"strings"

	"codescope/internal/framework"
	"codescope/internal/scan"
)

// Extractor finds endpoints for one framework. Applies gates on the
// framework's import signature so a Flask-looking decorator in a
// non-Flask file never double counts.
type Extractor interface {
	Framework() framework.Name
	Applies(rec scan.FileRecord) bool
	Extract(rec scan.FileRecord) []Endpoint
}

// extractors returns the extractor set in a fixed order so endpoint
// output never depends on iteration order.
func extractors() []Extractor {
	return []Extractor{
		fastapiExtractor{},
		flaskExtractor{},
		djangoExtractor{},
		expressExtractor{},
		nestExtractor{},
		ginExtractor{},
	}
}

// handlerAfter finds the first function definition after offset.
func handlerAfter(content string, offset int, defRe *regexp.Regexp) string {
	if offset >= len(content) {
		return "unknown"
	}
	if m := defRe.FindStringSubmatch(content[offset:]); m != nil {
		return m[1]
	}
	return "unknown"
}

// fastapiExtractor matches FastAPI route decorators.
type fastapiExtractor struct{}

var (
	fastapiRoute = regexp.MustCompile(`@(?:app|router)\.(get|post|put|delete|patch|head|options)\s*\(\s*["']([^"']+)["']`)
	pythonDef    = regexp.MustCompile(`(?:async\s+)?def\s+(\w+)\s*\(`)
)

func (fastapiExtractor) Framework() framework.Name { return framework.FastAPI }

func (fastapiExtractor) Applies(rec scan.FileRecord) bool {
	if !strings.HasSuffix(rec.Path, ".py") {
		return false
	}
	content := string(rec.Content)
	return strings.Contains(content, "from fastapi") || strings.Contains(content, "import fastapi")
}

func (fastapiExtractor) Extract(rec scan.FileRecord) []Endpoint {
	content := string(rec.Content)
	var out []Endpoint
	for _, loc := range fastapiRoute.FindAllStringSubmatchIndex(content, -1) {
		method := content[loc[2]:loc[3]]
		path := content[loc[4]:loc[5]]
		out = append(out, Endpoint{
			Method:     strings.ToUpper(method),
			Path:       path,
			Handler:    handlerAfter(content, loc[1], pythonDef),
			SourceFile: rec.Path,
			Framework:  framework.FastAPI,
		})
	}
	return out
}

// flaskExtractor matches @app.route / @blueprint.route decorators.
type flaskExtractor struct{}

var (
	flaskRoute   = regexp.MustCompile(`@(?:app|blueprint|bp)\.route\s*\(\s*["']([^"']+)["']([^)]*)\)`)
	flaskMethods = regexp.MustCompile(`methods\s*=\s*\[([^\]]*)\]`)
)

func (flaskExtractor) Framework() framework.Name { return framework.Flask }

func (flaskExtractor) Applies(rec scan.FileRecord) bool {
	if !strings.HasSuffix(rec.Path, ".py") {
		return false
	}
	content := string(rec.Content)
	return strings.Contains(content, "from flask") || strings.Contains(content, "import flask")
}

func (flaskExtractor) Extract(rec scan.FileRecord) []Endpoint {
	content := string(rec.Content)
	var out []Endpoint
	for _, loc := range flaskRoute.FindAllStringSubmatchIndex(content, -1) {
		path := content[loc[2]:loc[3]]
		args := content[loc[4]:loc[5]]
		handler := handlerAfter(content, loc[1], pythonDef)

		methods := []string{"GET"}
		if m := flaskMethods.FindStringSubmatch(args); m != nil {
			methods = nil
			for _, raw := range strings.Split(m[1], ",") {
				cleaned := strings.Trim(strings.TrimSpace(raw), `"'`)
				if cleaned != "" {
					methods = append(methods, strings.ToUpper(cleaned))
				}
			}
		}

		for _, method := range methods {
			out = append(out, Endpoint{
				Method:     method,
				Path:       path,
				Handler:    handler,
				SourceFile: rec.Path,
				Framework:  framework.Flask,
			})
		}
	}
	return out
}

// djangoExtractor matches path()/re_path() entries in URL configs.
type djangoExtractor struct{}

var djangoPath = regexp.MustCompile(`(?:re_)?path\s*\(\s*["']([^"']*)["']\s*,\s*([\w.]+)`)

func (djangoExtractor) Framework() framework.Name { return framework.Django }

func (djangoExtractor) Applies(rec scan.FileRecord) bool {
	if !strings.HasSuffix(rec.Path, "urls.py") {
		return false
	}
	return strings.Contains(string(rec.Content), "django.urls")
}

func (djangoExtractor) Extract(rec scan.FileRecord) []Endpoint {
	content := string(rec.Content)
	var out []Endpoint
	for _, m := range djangoPath.FindAllStringSubmatch(content, -1) {
		view := m[2]
		if view == "include" {
			continue
		}
		out = append(out, Endpoint{
			// URL configs do not constrain the verb; GET is the
			// conventional floor.
			Method:     "GET",
			Path:       "/" + strings.TrimPrefix(m[1], "/"),
			Handler:    view,
			SourceFile: rec.Path,
			Framework:  framework.Django,
		})
	}
	return out
}

// expressExtractor matches app.get(...)-style registrations.
type expressExtractor struct{}

var (
	expressRoute    = regexp.MustCompile(`(?:app|router)\.(get|post|put|delete|patch)\s*\(\s*["']([^"']+)["']`)
	expressCallback = regexp.MustCompile(`(?:function\s+(\w+)|(\w+)\s*=>|\(\s*req)`)
)

func (expressExtractor) Framework() framework.Name { return framework.Express }

func (expressExtractor) Applies(rec scan.FileRecord) bool {
	if !isJSFile(rec.Path) {
		return false
	}
	content := string(rec.Content)
	return strings.Contains(content, `require("express")`) ||
		strings.Contains(content, `require('express')`) ||
		strings.Contains(content, `from "express"`) ||
		strings.Contains(content, `from 'express'`)
}

func (expressExtractor) Extract(rec scan.FileRecord) []Endpoint {
	content := string(rec.Content)
	var out []Endpoint
	for _, loc := range expressRoute.FindAllStringSubmatchIndex(content, -1) {
		method := content[loc[2]:loc[3]]
		path := content[loc[4]:loc[5]]

		handler := "anonymous"
		if m := expressCallback.FindStringSubmatch(content[loc[1]:]); m != nil {
			if m[1] != "" {
				handler = m[1]
			} else if m[2] != "" && m[2] != "async" {
				handler = m[2]
			}
		}

		out = append(out, Endpoint{
			Method:     strings.ToUpper(method),
			Path:       path,
			Handler:    handler,
			SourceFile: rec.Path,
			Framework:  framework.Express,
		})
	}
	return out
}

// nestExtractor matches NestJS controller decorators, joining the
// @Controller base path with each method decorator path.
type nestExtractor struct{}

var (
	nestController = regexp.MustCompile(`@Controller\s*\(\s*(?:["']([^"']*)["'])?\s*\)`)
	nestMethod     = regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Head|Options)\s*\(\s*(?:["']([^"']*)["'])?\s*\)\s*\r?\n\s*(?:async\s+)?(\w+)\s*\(`)
)

func (nestExtractor) Framework() framework.Name { return framework.NestJS }

func (nestExtractor) Applies(rec scan.FileRecord) bool {
	if !isJSFile(rec.Path) {
		return false
	}
	return strings.Contains(string(rec.Content), "@nestjs/common")
}

func (nestExtractor) Extract(rec scan.FileRecord) []Endpoint {
	content := string(rec.Content)

	basePath := ""
	if m := nestController.FindStringSubmatch(content); m != nil {
		basePath = m[1]
	}

	var out []Endpoint
	for _, m := range nestMethod.FindAllStringSubmatch(content, -1) {
		out = append(out, Endpoint{
			Method:     strings.ToUpper(m[1]),
			Path:       joinRoute(basePath, m[2]),
			Handler:    m[3],
			SourceFile: rec.Path,
			Framework:  framework.NestJS,
		})
	}
	return out
}

// ginExtractor matches gin engine/group route registrations.
type ginExtractor struct{}

var ginRoute = regexp.MustCompile(`\b\w+\.(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\s*\(\s*"([^"]+)"\s*,\s*([\w.]+)`)

func (ginExtractor) Framework() framework.Name { return framework.Gin }

func (ginExtractor) Applies(rec scan.FileRecord) bool {
	if !strings.HasSuffix(rec.Path, ".go") {
		return false
	}
	return strings.Contains(string(rec.Content), "github.com/gin-gonic/gin")
}

func (ginExtractor) Extract(rec scan.FileRecord) []Endpoint {
	content := string(rec.Content)
	var out []Endpoint
	for _, m := range ginRoute.FindAllStringSubmatch(content, -1) {
		out = append(out, Endpoint{
			Method:     m[1],
			Path:       m[2],
			Handler:    m[3],
			SourceFile: rec.Path,
			Framework:  framework.Gin,
		})
	}
	return out
}

func isJSFile(path string) bool {
	for _, ext := range []string{".js", ".mjs", ".cjs", ".ts"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func joinRoute(basePath, path string) string {
	joined := "/" + strings.Trim(basePath, "/")
	if p := strings.Trim(path, "/"); p != "" {
		if joined == "/" {
			joined = "/" + p
		} else {
			joined += "/" + p
		}
	}
	return joined
}
