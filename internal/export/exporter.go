// Package export writes analysis reports to files as JSON, zstd
// compressed JSON, or Markdown, chosen by file extension.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"codescope/internal/analyzer"
	"codescope/internal/output"
)

// Format selects the on-disk representation.
type Format string

const (
	FormatJSON     Format = "json"
	FormatZstd     Format = "zstd"
	FormatMarkdown Format = "markdown"
)

// FormatForPath picks the format from a file extension. Unknown
// extensions fall back to JSON.
func FormatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return FormatZstd
	case strings.HasSuffix(path, ".md"):
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// Exporter writes reports to disk.
type Exporter struct {
	log *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{log: logger}
}

// WriteFile renders the report in the format implied by path and
// writes it, creating parent directories as needed.
func (e *Exporter) WriteFile(path string, report *analyzer.Report) error {
	format := FormatForPath(path)
	data, err := e.Render(report, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	e.log.Debug("report written", "path", path, "format", string(format), "bytes", len(data))
	return nil
}

// Render produces the report bytes for a format. JSON output is
// deterministic: two identical reports render to identical bytes.
func (e *Exporter) Render(report *analyzer.Report, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return RenderMarkdown(report), nil
	case FormatZstd:
		data, err := encodeJSON(report)
		if err != nil {
			return nil, err
		}
		return compress(data)
	default:
		return encodeJSON(report)
	}
}

func encodeJSON(report *analyzer.Report) ([]byte, error) {
	data, err := output.EncodeIndented(report.ToDocument(), "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress restores JSON bytes written as zstd. Used by history
// tooling and tests.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress report: %w", err)
	}
	return out, nil
}
