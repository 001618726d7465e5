package database

// ORM names a supported object-relational mapper.
type ORM string

const (
	SQLAlchemy ORM = "SQLAlchemy"
	DjangoORM  ORM = "Django ORM"
	Prisma     ORM = "Prisma"
	Mongoose   ORM = "Mongoose"
	Sequelize  ORM = "Sequelize"
	GORM       ORM = "GORM"
)

// Column is one extracted model field.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Table is one ORM model mapped to a table or collection.
type Table struct {
	Name       string   `json:"name"`
	Model      string   `json:"model"`
	ORM        ORM      `json:"orm"`
	SourceFile string   `json:"sourceFile"`
	Columns    []Column `json:"columns,omitempty"`
}

// Migration is one migration file found under a known migration dir.
type Migration struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Tool      string `json:"tool"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Schema is the database phase output. An empty schema is a valid
// result, not an error.
type Schema struct {
	ORMFramework ORM         `json:"ormFramework,omitempty"`
	Tables       []Table     `json:"tables"`
	Migrations   []Migration `json:"migrations,omitempty"`
}
