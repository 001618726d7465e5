// Package scan walks a project tree and captures a text-file snapshot
// for the analysis pipeline.
package scan

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"codescope/internal/cserr"
)

// Options controls file discovery.
type Options struct {
	// IgnoreDirs are directory basenames skipped entirely.
	IgnoreDirs []string
	// IgnoreGlobs are basename patterns (filepath.Match syntax) for
	// files to skip.
	IgnoreGlobs []string
	// MaxFileSizeBytes caps readable file size. Larger files are
	// recorded under Skipped. Zero means the 10MB default.
	MaxFileSizeBytes int64
	Logger           *slog.Logger
}

const defaultMaxFileSize = 10 * 1024 * 1024

// Scanner discovers text files under a root directory.
type Scanner struct {
	opts   Options
	ignore map[string]struct{}
	log    *slog.Logger
}

// NewScanner creates a Scanner, applying defaults for unset options.
func NewScanner(opts Options) *Scanner {
	if opts.MaxFileSizeBytes <= 0 {
		opts.MaxFileSizeBytes = defaultMaxFileSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ignore := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignore[d] = struct{}{}
	}

	return &Scanner{opts: opts, ignore: ignore, log: opts.Logger}
}

// Scan walks root in lexical order and returns a snapshot of its text
// files. A missing or non-directory root is the one fatal error; every
// other problem becomes a warning on the snapshot.
func (s *Scanner) Scan(ctx context.Context, root string) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, cserr.ErrPathNotFound
	}

	snap := &Snapshot{Root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			snap.Warnings = append(snap.Warnings, Warning{
				Phase:   "scan",
				Path:    relPath(root, path),
				Message: walkErr.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root {
				if _, skip := s.ignore[d.Name()]; skip {
					return filepath.SkipDir
				}
				snap.Dirs++
			}
			return nil
		}

		rel := relPath(root, path)

		for _, glob := range s.opts.IgnoreGlobs {
			if ok, _ := filepath.Match(glob, d.Name()); ok {
				return nil
			}
		}

		fi, err := d.Info()
		if err != nil {
			snap.Warnings = append(snap.Warnings, Warning{Phase: "scan", Path: rel, Message: err.Error()})
			return nil
		}
		if fi.Size() > s.opts.MaxFileSizeBytes {
			snap.Skipped = append(snap.Skipped, rel)
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			snap.Warnings = append(snap.Warnings, Warning{Phase: "scan", Path: rel, Message: err.Error()})
			return nil
		}
		if isBinary(content) {
			snap.Skipped = append(snap.Skipped, rel)
			return nil
		}

		snap.Files = append(snap.Files, FileRecord{
			Path:    rel,
			Size:    fi.Size(),
			Lines:   countLines(content),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return snap, cserr.Wrap(cserr.Canceled, "scan interrupted", err)
	}

	s.log.Debug("scan complete",
		"files", len(snap.Files),
		"dirs", snap.Dirs,
		"skipped", len(snap.Skipped))

	return snap, nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// isBinary treats files with a NUL in the first 8KB or invalid UTF-8
// as binary.
func isBinary(content []byte) bool {
	probe := content
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
