package framework

import (
	"encoding/json"
	"path"
	"strings"

	"codescope/internal/scan"
)

// packageSignature ties npm package names to a framework.
type packageSignature struct {
	framework Name
	category  Category
	packages  []string
}

// fileSignature ties a basename (or an extension starting with '.') to
// a framework.
type fileSignature struct {
	framework Name
	category  Category
	pattern   string
}

var npmSignatures = []packageSignature{
	{React, CategoryFrontend, []string{"react", "react-dom"}},
	{Vue, CategoryFrontend, []string{"vue", "vuex", "vue-router"}},
	{Angular, CategoryFrontend, []string{"@angular/core", "@angular/common"}},
	{Svelte, CategoryFrontend, []string{"svelte"}},
	{NextJS, CategoryFrontend, []string{"next"}},
	{NuxtJS, CategoryFrontend, []string{"nuxt"}},
	{Gatsby, CategoryFrontend, []string{"gatsby"}},
	{Express, CategoryBackend, []string{"express"}},
	{NestJS, CategoryBackend, []string{"@nestjs/core"}},
	{MongoDB, CategoryDatabase, []string{"mongoose", "mongodb"}},
	{PostgreSQL, CategoryDatabase, []string{"pg"}},
	{Redis, CategoryDatabase, []string{"redis", "ioredis"}},
	{Jest, CategoryTesting, []string{"jest"}},
	{Vitest, CategoryTesting, []string{"vitest"}},
	{Mocha, CategoryTesting, []string{"mocha"}},
	{Tailwind, CategoryCSS, []string{"tailwindcss"}},
	{Bootstrap, CategoryCSS, []string{"bootstrap"}},
	{Sass, CategoryCSS, []string{"sass", "node-sass"}},
}

// pythonSignatures match against requirements.txt / pyproject.toml text.
var pythonSignatures = []packageSignature{
	{FastAPI, CategoryBackend, []string{"fastapi"}},
	{Django, CategoryBackend, []string{"django"}},
	{Flask, CategoryBackend, []string{"flask"}},
	{PostgreSQL, CategoryDatabase, []string{"psycopg2", "psycopg", "asyncpg"}},
	{MongoDB, CategoryDatabase, []string{"pymongo", "motor"}},
	{Redis, CategoryDatabase, []string{"redis", "aioredis"}},
	{Pytest, CategoryTesting, []string{"pytest"}},
}

var configFileSignatures = []fileSignature{
	{NextJS, CategoryFrontend, "next.config.js"},
	{NextJS, CategoryFrontend, "next.config.mjs"},
	{NextJS, CategoryFrontend, "next.config.ts"},
	{NuxtJS, CategoryFrontend, "nuxt.config.js"},
	{NuxtJS, CategoryFrontend, "nuxt.config.ts"},
	{Angular, CategoryFrontend, "angular.json"},
	{Gatsby, CategoryFrontend, "gatsby-config.js"},
	{Vue, CategoryFrontend, "vue.config.js"},
	{Svelte, CategoryFrontend, "svelte.config.js"},
	{React, CategoryFrontend, ".jsx"},
	{React, CategoryFrontend, ".tsx"},
	{Vue, CategoryFrontend, ".vue"},
	{Svelte, CategoryFrontend, ".svelte"},
	{Django, CategoryBackend, "manage.py"},
	{Laravel, CategoryBackend, "artisan"},
	{NestJS, CategoryBackend, "nest-cli.json"},
	{Pytest, CategoryTesting, "conftest.py"},
	{Pytest, CategoryTesting, "pytest.ini"},
	{Jest, CategoryTesting, "jest.config.js"},
	{Vitest, CategoryTesting, "vitest.config.ts"},
	{RSpec, CategoryTesting, ".rspec"},
	{Tailwind, CategoryCSS, "tailwind.config.js"},
	{Tailwind, CategoryCSS, "tailwind.config.ts"},
	{Sass, CategoryCSS, ".scss"},
	{Sass, CategoryCSS, ".sass"},
	{SQLite, CategoryDatabase, ".sqlite"},
	{SQLite, CategoryDatabase, ".sqlite3"},
}

// importSignature matches a framework import in source files, so a
// project with routes but no manifest still reports its framework.
type importSignature struct {
	framework Name
	label     string
	exts      []string
	markers   []string
}

var sourceImportSignatures = []importSignature{
	{Flask, "import:flask", []string{".py"}, []string{"from flask", "import flask"}},
	{FastAPI, "import:fastapi", []string{".py"}, []string{"from fastapi", "import fastapi"}},
	{Django, "import:django", []string{".py"}, []string{"from django", "import django"}},
	{Express, "import:express", []string{".js", ".mjs", ".cjs", ".ts"},
		[]string{`require("express")`, `require('express')`, `from "express"`, `from 'express'`}},
	{NestJS, "import:@nestjs/common", []string{".js", ".ts"}, []string{"@nestjs/common"}},
	{Gin, "import:gin", []string{".go"}, []string{"github.com/gin-gonic/gin"}},
}

// sourceImportSignals scans source files for framework imports. Each
// signature contributes at most one signal no matter how many files
// import it.
func sourceImportSignals(snap *scan.Snapshot) map[Name][]string {
	signals := make(map[Name][]string)
	for _, sig := range sourceImportSignatures {
		if rec := firstImportMatch(snap, sig); rec != "" {
			signals[sig.framework] = append(signals[sig.framework], sig.label)
		}
	}
	return signals
}

func firstImportMatch(snap *scan.Snapshot, sig importSignature) string {
	for _, f := range snap.Files {
		if !hasAnySuffix(f.Path, sig.exts) {
			continue
		}
		content := string(f.Content)
		for _, marker := range sig.markers {
			if strings.Contains(content, marker) {
				return f.Path
			}
		}
	}
	return ""
}

func hasAnySuffix(p string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// composeImageSignatures map docker-compose image prefixes to databases.
var composeImageSignatures = map[string]Name{
	"postgres": PostgreSQL,
	"mysql":    MySQL,
	"mariadb":  MySQL,
	"mongo":    MongoDB,
	"redis":    Redis,
}

// npmDependencies merges dependencies and devDependencies from the
// root package.json. Returns nil if there is none or it is malformed.
func npmDependencies(snap *scan.Snapshot) map[string]string {
	rec := snap.File("package.json")
	if rec == nil {
		return nil
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(rec.Content, &pkg); err != nil {
		return nil
	}

	all := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for k, v := range pkg.Dependencies {
		all[k] = v
	}
	for k, v := range pkg.DevDependencies {
		all[k] = v
	}
	return all
}

// pythonManifestText concatenates the lowercased contents of
// requirements*.txt, pyproject.toml and Pipfile at the root.
func pythonManifestText(snap *scan.Snapshot) string {
	var sb strings.Builder
	for _, name := range []string{"requirements.txt", "requirements-dev.txt", "pyproject.toml", "Pipfile"} {
		if rec := snap.File(name); rec != nil {
			sb.Write(rec.Content)
			sb.WriteByte('\n')
		}
	}
	return strings.ToLower(sb.String())
}

// matchFiles returns the matched signal labels for a file signature.
func matchFiles(snap *scan.Snapshot, sig fileSignature) []string {
	var signals []string
	for _, f := range snap.Files {
		base := path.Base(f.Path)
		if strings.HasPrefix(sig.pattern, ".") && sig.pattern != base {
			if strings.HasSuffix(base, sig.pattern) {
				signals = append(signals, "ext:"+sig.pattern)
				break
			}
			continue
		}
		if base == sig.pattern {
			signals = append(signals, "file:"+sig.pattern)
			break
		}
	}
	return signals
}
