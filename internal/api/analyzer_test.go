package api

import (
	"testing"

	"codescope/internal/scan"
)

func pyFile(path, content string) scan.FileRecord {
	return scan.FileRecord{Path: path, Content: []byte(content)}
}

func TestFastAPIExtraction(t *testing.T) {
	content := `from fastapi import FastAPI

app = FastAPI()

@app.get("/users/{id}")
async def get_user(id: int):
    return {"id": id}

@router.post("/users")
def create_user(user: User):
    return user
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("main.py", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 2 {
		t.Fatalf("endpoints = %d, want 2: %+v", len(res.Endpoints), res.Endpoints)
	}

	// Sorted by path: /users before /users/{id}.
	post := res.Endpoints[0]
	if post.Method != "POST" || post.Path != "/users" || post.Handler != "create_user" {
		t.Errorf("POST endpoint = %+v", post)
	}
	get := res.Endpoints[1]
	if get.Method != "GET" || get.Path != "/users/{id}" || get.Handler != "get_user" {
		t.Errorf("GET endpoint = %+v", get)
	}
}

func TestFlaskExtractionWithMethods(t *testing.T) {
	content := `from flask import Flask

app = Flask(__name__)

@app.route("/items", methods=["GET", "POST"])
def items():
    pass

@app.route("/health")
def health():
    pass
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("app.py", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 3 {
		t.Fatalf("endpoints = %d, want 3: %+v", len(res.Endpoints), res.Endpoints)
	}

	// Sorted by path then method: /health GET, /items GET, /items POST.
	if res.Endpoints[0].Path != "/health" || res.Endpoints[0].Method != "GET" {
		t.Errorf("endpoint 0 = %+v", res.Endpoints[0])
	}
	if res.Endpoints[1].Method != "GET" || res.Endpoints[2].Method != "POST" {
		t.Errorf("items methods = %s, %s", res.Endpoints[1].Method, res.Endpoints[2].Method)
	}
	if res.Endpoints[2].Handler != "items" {
		t.Errorf("handler = %q", res.Endpoints[2].Handler)
	}
}

func TestImportGatePreventsCrossCounting(t *testing.T) {
	// Flask-style decorator in a file without a flask import.
	content := `@app.route("/fake")
def fake():
    pass
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("not_flask.py", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 0 {
		t.Errorf("no imports, no endpoints; got %+v", res.Endpoints)
	}
}

func TestDjangoURLs(t *testing.T) {
	content := `from django.urls import path, include

urlpatterns = [
    path("articles/<int:id>/", views.article_detail),
    path("api/", include("api.urls")),
]
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("project/urls.py", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 1 {
		t.Fatalf("endpoints = %d, want 1 (include skipped): %+v", len(res.Endpoints), res.Endpoints)
	}
	if res.Endpoints[0].Path != "/articles/<int:id>/" || res.Endpoints[0].Handler != "views.article_detail" {
		t.Errorf("endpoint = %+v", res.Endpoints[0])
	}
}

func TestExpressExtraction(t *testing.T) {
	content := `const express = require("express");
const app = express();

app.get("/ping", (req, res) => res.send("pong"));
app.post("/users", createUser);
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("server.js", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 2 {
		t.Fatalf("endpoints = %d, want 2: %+v", len(res.Endpoints), res.Endpoints)
	}
	if res.Endpoints[0].Path != "/ping" || res.Endpoints[0].Method != "GET" {
		t.Errorf("endpoint 0 = %+v", res.Endpoints[0])
	}
}

func TestNestControllerBasePath(t *testing.T) {
	content := `import { Controller, Get, Post } from "@nestjs/common";

@Controller("cats")
export class CatsController {
  @Get()
  findAll() {}

  @Get(":id")
  findOne() {}
}
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("cats.controller.ts", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 2 {
		t.Fatalf("endpoints = %d, want 2: %+v", len(res.Endpoints), res.Endpoints)
	}
	if res.Endpoints[0].Path != "/cats" || res.Endpoints[0].Handler != "findAll" {
		t.Errorf("endpoint 0 = %+v", res.Endpoints[0])
	}
	if res.Endpoints[1].Path != "/cats/:id" {
		t.Errorf("endpoint 1 = %+v", res.Endpoints[1])
	}
}

func TestGinExtraction(t *testing.T) {
	content := `package main

import "github.com/gin-gonic/gin"

func main() {
	r := gin.Default()
	r.GET("/status", statusHandler)
	api := r.Group("/api")
	api.POST("/orders", orders.Create)
}
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("main.go", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 2 {
		t.Fatalf("endpoints = %d, want 2: %+v", len(res.Endpoints), res.Endpoints)
	}
	if res.Endpoints[1].Path != "/status" || res.Endpoints[1].Handler != "statusHandler" {
		t.Errorf("status endpoint = %+v", res.Endpoints[1])
	}
}

func TestImportWithoutRoutes(t *testing.T) {
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("main.py", "from fastapi import FastAPI")}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 0 {
		t.Errorf("import without routes must yield nothing, got %+v", res.Endpoints)
	}
	if res.ByFramework != nil {
		t.Errorf("byFramework = %+v, want nil", res.ByFramework)
	}
}

func TestLoneRouteFileNeedsNoManifest(t *testing.T) {
	// A root holding nothing but one Flask file still yields endpoints;
	// extraction keys off the file's own imports, not project manifests.
	content := `from flask import Flask

app = Flask(__name__)

@app.route("/hello")
def hello():
    return "hi"
`
	snap := &scan.Snapshot{Files: []scan.FileRecord{pyFile("app.py", content)}}
	res := NewAnalyzer(nil).Analyze(snap)

	if len(res.Endpoints) != 1 {
		t.Fatalf("endpoints = %d, want 1: %+v", len(res.Endpoints), res.Endpoints)
	}
	ep := res.Endpoints[0]
	if ep.Method != "GET" || ep.Path != "/hello" || ep.Handler != "hello" {
		t.Errorf("endpoint = %+v", ep)
	}
	if res.ByFramework["Flask"] != 1 {
		t.Errorf("byFramework = %+v", res.ByFramework)
	}
}
