package scan

// Warning records a non-fatal problem hit during analysis. Warnings
// accumulate on the report instead of aborting the run.
type Warning struct {
	Phase   string `json:"phase"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// FileRecord is one text file discovered under the analysis root.
// Path is slash-separated and relative to the root.
type FileRecord struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Lines   int    `json:"lines"`
	Content []byte `json:"-"`
}

// Snapshot is the result of walking the analysis root once. All later
// phases read from it; none of them touch the filesystem again.
type Snapshot struct {
	Root     string       `json:"root"`
	Files    []FileRecord `json:"files"`
	Dirs     int          `json:"dirs"`
	Skipped  []string     `json:"skipped,omitempty"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// File returns the record for a relative path, or nil.
func (s *Snapshot) File(path string) *FileRecord {
	for i := range s.Files {
		if s.Files[i].Path == path {
			return &s.Files[i]
		}
	}
	return nil
}

// ByExtension returns every file whose path ends with ext (including
// the dot, e.g. ".py").
func (s *Snapshot) ByExtension(ext string) []FileRecord {
	var out []FileRecord
	for _, f := range s.Files {
		if hasExt(f.Path, ext) {
			out = append(out, f)
		}
	}
	return out
}

func hasExt(path, ext string) bool {
	if len(path) < len(ext) {
		return false
	}
	return path[len(path)-len(ext):] == ext
}
