package domain

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// InterpolationLowerer rewrites interpolated-string literals into a
// template-plus-substitution form a legacy runtime can parse. It is a
// replaceable strategy so the regex heuristic below can later be swapped
// for a proper tokenizer without touching the rest of the pipeline.
type InterpolationLowerer interface {
	Lower(content string) string
}

// fstringPattern matches f"text{expr[:format]}text" literals. Matching is
// single-level: nested braces and multiple interpolations in one literal
// are not handled, a known simplification of the heuristic.
var fstringPattern = regexp.MustCompile(`f"([^"]*)\{([^:}]+)(:[^}]+)?\}([^"]*)"`)

type regexLowerer struct{}

// NewRegexLowerer returns the regex-based InterpolationLowerer. Input
// without interpolation placeholders is returned unchanged.
func NewRegexLowerer() InterpolationLowerer {
	return &regexLowerer{}
}

// Lower rewrites each matched literal into an explicit .format() call,
// keeping any format specifier inside the template placeholder.
func (l *regexLowerer) Lower(content string) string {
	return fstringPattern.ReplaceAllStringFunc(content, func(literal string) string {
		groups := fstringPattern.FindStringSubmatch(literal)
		before, expr, spec, after := groups[1], groups[2], groups[3], groups[4]

		placeholder := "{" + expr + spec + "}"

		return `"` + before + placeholder + after + `".format(` + expr + `)`
	})
}

// LegacySyntaxRewriter transforms one snapshot file in place so constructs
// unsupported by a legacy runtime are replaced by equivalent supported
// ones: interpolation lowering first, then the external fixer suite.
type LegacySyntaxRewriter interface {
	RewriteFile(ctx context.Context, path m.Path) error
}

type legacyRewriter struct {
	fs      adapter.SourceFSAdapter
	tool    adapter.RewriteTool
	lowerer InterpolationLowerer
}

// NewLegacySyntaxRewriter constructs a LegacySyntaxRewriter backed by the
// provided filesystem adapter, external rewrite tool, and lowering
// strategy.
func NewLegacySyntaxRewriter(fs adapter.SourceFSAdapter, tool adapter.RewriteTool, lowerer InterpolationLowerer) LegacySyntaxRewriter {
	return &legacyRewriter{fs: fs, tool: tool, lowerer: lowerer}
}

// RewriteFile lowers interpolated literals and then delegates structural
// downgrades to the external engine. A failed rewrite aborts the file's
// preparation and is fatal for the current version's pipeline.
func (r *legacyRewriter) RewriteFile(ctx context.Context, path m.Path) error {
	content, err := r.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s for rewrite: %w", path, err)
	}

	lowered := r.lowerer.Lower(string(content))
	if lowered != string(content) {
		slog.Debug("lowered interpolated literals", "path", path)
	}

	if err := r.fs.WriteFile(path, []byte(lowered), 0o644); err != nil {
		return fmt.Errorf("write lowered %s: %w", path, err)
	}

	if err := r.tool.RewriteInPlace(ctx, path); err != nil {
		slog.Error("structural downgrade failed", "path", path, "error", err)
		return fmt.Errorf("downgrade %s: %w", path, err)
	}

	return nil
}
