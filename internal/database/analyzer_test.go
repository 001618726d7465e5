package database

import (
	"testing"

	"codescope/internal/scan"
)

func file(path, content string) scan.FileRecord {
	return scan.FileRecord{Path: path, Content: []byte(content)}
}

func TestSQLAlchemyModels(t *testing.T) {
	content := `from sqlalchemy import Column, Integer, String
from sqlalchemy.orm import declarative_base

Base = declarative_base()

class User(Base):
    __tablename__ = "users"
    id = Column(Integer, primary_key=True)
    email = Column(String)

class Order(Base):
    id = Column(Integer, primary_key=True)
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("models.py", content)}}
	schema := NewAnalyzer(nil).Analyze(snap)

	if schema.ORMFramework != SQLAlchemy {
		t.Errorf("orm = %s, want SQLAlchemy", schema.ORMFramework)
	}
	if len(schema.Tables) != 2 {
		t.Fatalf("tables = %d, want 2: %+v", len(schema.Tables), schema.Tables)
	}

	// Sorted by model name within one file: Order, User.
	order := schema.Tables[0]
	if order.Model != "Order" || order.Name != "order" {
		t.Errorf("order table = %+v", order)
	}
	if len(order.Columns) != 1 || order.Columns[0].Name != "id" {
		t.Errorf("order columns leaked across classes: %+v", order.Columns)
	}

	user := schema.Tables[1]
	if user.Name != "users" {
		t.Errorf("__tablename__ not honored: %+v", user)
	}
	if len(user.Columns) != 2 {
		t.Errorf("user columns = %+v", user.Columns)
	}
}

func TestDjangoModels(t *testing.T) {
	content := `from django.db import models

class Article(models.Model):
    title = models.CharField(max_length=200)
    body = models.TextField()

    class Meta:
        db_table = "blog_articles"
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("blog/models.py", content)}}
	schema := NewAnalyzer(nil).Analyze(snap)

	if len(schema.Tables) != 1 {
		t.Fatalf("tables = %+v", schema.Tables)
	}
	a := schema.Tables[0]
	if a.Name != "blog_articles" || a.ORM != DjangoORM {
		t.Errorf("table = %+v", a)
	}
	if len(a.Columns) != 2 {
		t.Errorf("columns = %+v", a.Columns)
	}
}

func TestPrismaModels(t *testing.T) {
	content := `model User {
  id    Int    @id @default(autoincrement())
  email String @unique
  @@map("app_users")
}
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("prisma/schema.prisma", content)}}
	schema := NewAnalyzer(nil).Analyze(snap)

	if len(schema.Tables) != 1 {
		t.Fatalf("tables = %+v", schema.Tables)
	}
	if schema.Tables[0].Name != "app_users" {
		t.Errorf("@@map not honored: %+v", schema.Tables[0])
	}
}

func TestMongooseModels(t *testing.T) {
	content := `const mongoose = require("mongoose");
const userSchema = new mongoose.Schema({ email: String });
const User = mongoose.model("User", userSchema);
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("models/user.js", content)}}
	schema := NewAnalyzer(nil).Analyze(snap)

	if len(schema.Tables) != 1 || schema.Tables[0].Name != "User" || schema.Tables[0].Model != "User" {
		t.Errorf("tables = %+v", schema.Tables)
	}
}

func TestGORMModels(t *testing.T) {
	content := `package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Code  string
	Price uint
}

type plain struct {
	X int
}
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("models/product.go", content)}}
	schema := NewAnalyzer(nil).Analyze(snap)

	if len(schema.Tables) != 1 {
		t.Fatalf("tables = %+v", schema.Tables)
	}
	p := schema.Tables[0]
	if p.Model != "Product" || p.Name != "products" {
		t.Errorf("table = %+v", p)
	}
	if len(p.Columns) != 2 {
		t.Errorf("columns = %+v", p.Columns)
	}
}

func TestMigrations(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{
		file("app/migrations/0001_initial.py", ""),
		file("app/migrations/__init__.py", ""),
		file("alembic/versions/20240115093000_add_users.py", ""),
		file("db/migrate/20230101120000_create_orders.sql", ""),
		file("src/main.py", ""),
	}}

	migrations := ExtractMigrations(snap)
	if len(migrations) != 3 {
		t.Fatalf("migrations = %+v", migrations)
	}

	if migrations[0].Name != "0001_initial.py" || migrations[0].Tool != "Django" || migrations[0].Timestamp != "0001" {
		t.Errorf("django migration = %+v", migrations[0])
	}
	if migrations[1].Tool != "Alembic" || migrations[1].Timestamp != "20240115093000" {
		t.Errorf("alembic migration = %+v", migrations[1])
	}
	if migrations[2].Tool != "ActiveRecord" {
		t.Errorf("rails migration = %+v", migrations[2])
	}
}

func TestEmptySchemaIsNotAnError(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{file("readme.md", "# hi")}}
	schema := NewAnalyzer(nil).Analyze(snap)

	if schema.ORMFramework != "" || len(schema.Tables) != 0 {
		t.Errorf("schema = %+v", schema)
	}
}
