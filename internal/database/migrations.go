package database

import (
	"path"
	"regexp"
	"strings"

	"codescope/internal/scan"
)

// migrationDirs are path fragments that mark migration trees.
var migrationDirs = []string{
	"migrations",
	"alembic/versions",
	"db/migrate",
	"prisma/migrations",
}

var migrationExts = map[string]struct{}{
	".py":  {},
	".sql": {},
	".js":  {},
	".ts":  {},
}

var timestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{14})`),           // 20240115093000
	regexp.MustCompile(`(\d{4}_\d{2}_\d{2})`), // 2024_01_15
	regexp.MustCompile(`^(\d{4})_`),           // django 0001_initial
}

// ExtractMigrations lists migration files found under known migration
// directories, in snapshot (lexical) order.
func ExtractMigrations(snap *scan.Snapshot) []Migration {
	var out []Migration

	for _, f := range snap.Files {
		lower := strings.ToLower(f.Path)

		inMigrationDir := false
		for _, dir := range migrationDirs {
			if strings.Contains(lower, dir+"/") {
				inMigrationDir = true
				break
			}
		}
		if !inMigrationDir {
			continue
		}
		if _, ok := migrationExts[path.Ext(lower)]; !ok {
			continue
		}

		name := path.Base(f.Path)
		if name == "__init__.py" || name == "env.py" {
			continue
		}

		out = append(out, Migration{
			Name:      name,
			Path:      f.Path,
			Tool:      migrationTool(lower),
			Timestamp: migrationTimestamp(name),
		})
	}
	return out
}

func migrationTool(lowerPath string) string {
	switch {
	case strings.Contains(lowerPath, "alembic"):
		return "Alembic"
	case strings.Contains(lowerPath, "prisma"):
		return "Prisma"
	case strings.Contains(lowerPath, "db/migrate"):
		return "ActiveRecord"
	case strings.HasSuffix(lowerPath, ".py"):
		return "Django"
	case strings.HasSuffix(lowerPath, ".sql"):
		return "SQL"
	default:
		return "Unknown"
	}
}

func migrationTimestamp(name string) string {
	for _, re := range timestampPatterns {
		if m := re.FindStringSubmatch(name); m != nil {
			return m[1]
		}
	}
	return ""
}
