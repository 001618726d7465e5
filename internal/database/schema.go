package database

import (
	"regexp"
	"strings"

	"codescope/internal/scan"
)

// ormExtractor pulls model definitions for one ORM out of a file. Each
// extractor gates on its import signature first.
type ormExtractor struct {
	orm     ORM
	applies func(rec scan.FileRecord) bool
	extract func(rec scan.FileRecord) []Table
}

func ormExtractors() []ormExtractor {
	return []ormExtractor{
		{SQLAlchemy, appliesPython("sqlalchemy"), extractSQLAlchemy},
		{DjangoORM, appliesPython("django.db"), extractDjango},
		{Prisma, appliesSuffix(".prisma"), extractPrisma},
		{Mongoose, appliesJS("mongoose"), extractMongoose},
		{Sequelize, appliesJS("sequelize"), extractSequelize},
		{GORM, appliesGo("gorm.io/gorm"), extractGORM},
	}
}

func appliesPython(marker string) func(scan.FileRecord) bool {
	return func(rec scan.FileRecord) bool {
		return strings.HasSuffix(rec.Path, ".py") && strings.Contains(string(rec.Content), marker)
	}
}

func appliesJS(marker string) func(scan.FileRecord) bool {
	return func(rec scan.FileRecord) bool {
		if !strings.HasSuffix(rec.Path, ".js") && !strings.HasSuffix(rec.Path, ".ts") {
			return false
		}
		return strings.Contains(string(rec.Content), marker)
	}
}

func appliesGo(marker string) func(scan.FileRecord) bool {
	return func(rec scan.FileRecord) bool {
		return strings.HasSuffix(rec.Path, ".go") && strings.Contains(string(rec.Content), marker)
	}
}

func appliesSuffix(suffix string) func(scan.FileRecord) bool {
	return func(rec scan.FileRecord) bool {
		return strings.HasSuffix(rec.Path, suffix)
	}
}

var (
	saClass     = regexp.MustCompile(`(?m)^class\s+(\w+)\(.*Base.*\):`)
	saTableName = regexp.MustCompile(`__tablename__\s*=\s*['"]([^'"]+)['"]`)
	saColumn    = regexp.MustCompile(`(\w+)\s*=\s*Column\(([^),]+)`)
)

// extractSQLAlchemy finds declarative models. Columns are scoped to
// the class body, not the whole file.
func extractSQLAlchemy(rec scan.FileRecord) []Table {
	content := string(rec.Content)
	var tables []Table

	for _, body := range classBodies(content, saClass) {
		table := Table{
			Model:      body.name,
			Name:       strings.ToLower(body.name),
			ORM:        SQLAlchemy,
			SourceFile: rec.Path,
		}
		if m := saTableName.FindStringSubmatch(body.text); m != nil {
			table.Name = m[1]
		}
		for _, col := range saColumn.FindAllStringSubmatch(body.text, -1) {
			table.Columns = append(table.Columns, Column{Name: col[1], Type: strings.TrimSpace(col[2])})
		}
		tables = append(tables, table)
	}
	return tables
}

var (
	djClass   = regexp.MustCompile(`(?m)^class\s+(\w+)\(models\.Model\):`)
	djDBTable = regexp.MustCompile(`db_table\s*=\s*['"]([^'"]+)['"]`)
	djField   = regexp.MustCompile(`(\w+)\s*=\s*models\.(\w+)\(`)
)

func extractDjango(rec scan.FileRecord) []Table {
	content := string(rec.Content)
	var tables []Table

	for _, body := range classBodies(content, djClass) {
		table := Table{
			Model:      body.name,
			Name:       strings.ToLower(body.name),
			ORM:        DjangoORM,
			SourceFile: rec.Path,
		}
		if m := djDBTable.FindStringSubmatch(body.text); m != nil {
			table.Name = m[1]
		}
		for _, f := range djField.FindAllStringSubmatch(body.text, -1) {
			table.Columns = append(table.Columns, Column{Name: f[1], Type: f[2]})
		}
		tables = append(tables, table)
	}
	return tables
}

var (
	prismaModel = regexp.MustCompile(`(?m)^model\s+(\w+)\s*\{`)
	prismaMap   = regexp.MustCompile(`@@map\("([^"]+)"\)`)
	prismaField = regexp.MustCompile(`(?m)^\s*(\w+)\s+(\w+[\[\]?]*)`)
)

func extractPrisma(rec scan.FileRecord) []Table {
	content := string(rec.Content)
	var tables []Table

	for _, loc := range prismaModel.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		body := content[loc[1]:]
		if end := strings.Index(body, "}"); end >= 0 {
			body = body[:end]
		}

		table := Table{
			Model:      name,
			Name:       strings.ToLower(name),
			ORM:        Prisma,
			SourceFile: rec.Path,
		}
		if m := prismaMap.FindStringSubmatch(body); m != nil {
			table.Name = m[1]
		}
		for _, f := range prismaField.FindAllStringSubmatch(body, -1) {
			if strings.HasPrefix(f[1], "@@") {
				continue
			}
			table.Columns = append(table.Columns, Column{Name: f[1], Type: f[2]})
		}
		tables = append(tables, table)
	}
	return tables
}

var mongooseModel = regexp.MustCompile(`const\s+(\w+)\s*=\s*mongoose\.model\(['"]([^'"]+)['"]`)

func extractMongoose(rec scan.FileRecord) []Table {
	var tables []Table
	for _, m := range mongooseModel.FindAllStringSubmatch(string(rec.Content), -1) {
		tables = append(tables, Table{
			Model:      m[1],
			Name:       m[2],
			ORM:        Mongoose,
			SourceFile: rec.Path,
		})
	}
	return tables
}

var (
	sequelizeClass  = regexp.MustCompile(`class\s+(\w+)\s+extends\s+Model`)
	sequelizeDefine = regexp.MustCompile(`sequelize\.define\(['"](\w+)['"]`)
)

func extractSequelize(rec scan.FileRecord) []Table {
	content := string(rec.Content)
	var tables []Table
	for _, m := range sequelizeClass.FindAllStringSubmatch(content, -1) {
		tables = append(tables, Table{
			Model:      m[1],
			Name:       strings.ToLower(m[1]),
			ORM:        Sequelize,
			SourceFile: rec.Path,
		})
	}
	for _, m := range sequelizeDefine.FindAllStringSubmatch(content, -1) {
		tables = append(tables, Table{
			Model:      m[1],
			Name:       strings.ToLower(m[1]),
			ORM:        Sequelize,
			SourceFile: rec.Path,
		})
	}
	return tables
}

var (
	gormStruct = regexp.MustCompile(`(?s)type\s+(\w+)\s+struct\s*\{(.*?)\n\}`)
	gormField  = regexp.MustCompile(`(?m)^\s*(\w+)\s+([\w.\[\]*]+)`)
)

// extractGORM finds structs that embed gorm.Model or carry gorm tags.
func extractGORM(rec scan.FileRecord) []Table {
	content := string(rec.Content)
	var tables []Table

	for _, m := range gormStruct.FindAllStringSubmatch(content, -1) {
		body := m[2]
		if !strings.Contains(body, "gorm.Model") && !strings.Contains(body, `gorm:"`) {
			continue
		}
		table := Table{
			Model:      m[1],
			Name:       strings.ToLower(m[1]) + "s",
			ORM:        GORM,
			SourceFile: rec.Path,
		}
		for _, f := range gormField.FindAllStringSubmatch(body, -1) {
			if f[1] == "gorm" || f[2] == "gorm.Model" {
				continue
			}
			table.Columns = append(table.Columns, Column{Name: f[1], Type: f[2]})
		}
		tables = append(tables, table)
	}
	return tables
}

type classBody struct {
	name string
	text string
}

// classBodies slices a Python file into per-class regions so fields of
// one model never leak into another.
func classBodies(content string, classRe *regexp.Regexp) []classBody {
	locs := classRe.FindAllStringSubmatchIndex(content, -1)
	var bodies []classBody
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		bodies = append(bodies, classBody{
			name: content[loc[2]:loc[3]],
			text: content[loc[0]:end],
		})
	}
	return bodies
}
