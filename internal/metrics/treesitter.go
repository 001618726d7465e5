//go:build cgo

package metrics

import (
	"context"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"codescope/internal/scan"
)

// Estimator computes cyclomatic complexity with tree-sitter.
type Estimator struct {
	parser *sitter.Parser
}

// NewEstimator creates a tree-sitter backed estimator.
func NewEstimator() *Estimator {
	return &Estimator{parser: sitter.NewParser()}
}

// Available reports whether real parsing backs the estimates.
func (e *Estimator) Available() bool { return true }

// FileComplexity returns the cyclomatic complexity of a file, or
// false when the language is unsupported.
func (e *Estimator) FileComplexity(rec scan.FileRecord) (int, bool) {
	lang, decisions := languageFor(rec.Path)
	if lang == nil {
		return 0, false
	}

	e.parser.SetLanguage(lang)
	tree, err := e.parser.ParseCtx(context.Background(), nil, rec.Content)
	if err != nil {
		return 0, false
	}

	decisionSet := make(map[string]struct{}, len(decisions))
	for _, d := range decisions {
		decisionSet[d] = struct{}{}
	}

	// Complexity starts at 1 per file, plus one per decision point.
	count := 1
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if _, ok := decisionSet[n.Type()]; ok {
			count++
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(tree.RootNode())

	return count, true
}

func languageFor(relPath string) (*sitter.Language, []string) {
	switch strings.ToLower(path.Ext(relPath)) {
	case ".py":
		return python.GetLanguage(), []string{
			"if_statement", "elif_clause", "for_statement", "while_statement",
			"except_clause", "boolean_operator", "conditional_expression",
		}
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), []string{
			"if_statement", "for_statement", "for_in_statement", "while_statement",
			"do_statement", "switch_case", "catch_clause", "ternary_expression",
		}
	case ".ts":
		return typescript.GetLanguage(), []string{
			"if_statement", "for_statement", "for_in_statement", "while_statement",
			"do_statement", "switch_case", "catch_clause", "ternary_expression",
		}
	case ".go":
		return golang.GetLanguage(), []string{
			"if_statement", "for_statement", "expression_case", "type_case",
			"communication_case",
		}
	default:
		return nil, nil
	}
}
