// Package lang classifies files by programming language and aggregates
// per-language totals for a snapshot.
package lang

import (
	"bytes"
	"path"
	"sort"
	"strings"

	"codescope/internal/scan"
)

// Info summarizes one detected language across the project.
type Info struct {
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	FileCount int      `json:"fileCount"`
	LineCount int      `json:"lineCount"`
}

// Result is the language phase output.
type Result struct {
	Languages    []Info `json:"languages"`
	Unclassified int    `json:"unclassified"`
	Primary      string `json:"primary,omitempty"`
}

// Detect classifies a single file. The extension table wins, then exact
// basenames, then the shebang line. Returns false if nothing matched.
func Detect(rec scan.FileRecord) (string, bool) {
	base := path.Base(rec.Path)

	if ext := strings.ToLower(path.Ext(base)); ext != "" {
		if name, ok := extensionTable[ext]; ok {
			return name, true
		}
	}

	if name, ok := specialFiles[base]; ok {
		return name, true
	}

	if name, ok := detectShebang(rec.Content); ok {
		return name, true
	}

	return "", false
}

// Aggregate classifies every file in the snapshot and returns totals
// sorted by file count descending, name ascending on ties.
func Aggregate(snap *scan.Snapshot) Result {
	type tally struct {
		files int
		lines int
	}
	counts := make(map[string]*tally)
	unclassified := 0

	for _, f := range snap.Files {
		name, ok := Detect(f)
		if !ok {
			unclassified++
			continue
		}
		t := counts[name]
		if t == nil {
			t = &tally{}
			counts[name] = t
		}
		t.files++
		t.lines += f.Lines
	}

	infos := make([]Info, 0, len(counts))
	for name, t := range counts {
		infos = append(infos, Info{
			Name:      name,
			Category:  CategoryOf(name),
			FileCount: t.files,
			LineCount: t.lines,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].FileCount != infos[j].FileCount {
			return infos[i].FileCount > infos[j].FileCount
		}
		return infos[i].Name < infos[j].Name
	})

	result := Result{Languages: infos, Unclassified: unclassified}
	if len(infos) > 0 {
		result.Primary = infos[0].Name
	}
	return result
}

func detectShebang(content []byte) (string, bool) {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return "", false
	}
	line := content[2:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return "", false
	}

	// "#!/usr/bin/env python3" names the interpreter in the second field.
	interp := path.Base(fields[0])
	if interp == "env" && len(fields) > 1 {
		interp = path.Base(fields[1])
	}
	// Strip version suffixes like python3.11.
	interp = strings.TrimRight(interp, "0123456789.")
	if interp == "python" || strings.HasPrefix(interp, "python") {
		interp = "python"
	}

	name, ok := shebangTable[interp]
	return name, ok
}
