package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

func TestRegexLowerer_NoInterpolation(t *testing.T) {
	lowerer := NewRegexLowerer()

	inputs := []string{
		"x = 1\n",
		`print("plain text")` + "\n",
		`s = "braces {but} not an f-string"` + "\n",
		"",
	}

	for _, input := range inputs {
		if got := lowerer.Lower(input); got != input {
			t.Fatalf("Lower(%q) = %q, want input unchanged", input, got)
		}
	}
}

func TestRegexLowerer_FormatSpecifierPreserved(t *testing.T) {
	lowerer := NewRegexLowerer()

	got := lowerer.Lower(`msg = f"x={val:.2f}"` + "\n")

	assert.Equal(t, `msg = "x={val:.2f}".format(val)`+"\n", got)
}

func TestRegexLowerer_PlainPlaceholder(t *testing.T) {
	lowerer := NewRegexLowerer()

	got := lowerer.Lower(`greeting = f"hello {name}!"`)

	assert.Equal(t, `greeting = "hello {name}!".format(name)`, got)
}

func TestRegexLowerer_MultipleLiterals(t *testing.T) {
	lowerer := NewRegexLowerer()

	input := `a = f"x={x}"` + "\n" + `b = f"y={y:3d} units"` + "\n"
	want := `a = "x={x}".format(x)` + "\n" + `b = "y={y:3d} units".format(y)` + "\n"

	assert.Equal(t, want, lowerer.Lower(input))
}

func TestRegexLowerer_ExampleProject(t *testing.T) {
	source, err := os.ReadFile(filepath.Join("..", "..", "examples", "basic", "report.py"))
	require.NoError(t, err)

	lowered := NewRegexLowerer().Lower(string(source))

	assert.Contains(t, lowered, `"value={val:.2f}".format(val)`)
	assert.Contains(t, lowered, `"hello, {name}!".format(name)`)
	assert.NotContains(t, lowered, `f"`)
}

func TestRegexLowerer_Idempotent(t *testing.T) {
	lowerer := NewRegexLowerer()

	once := lowerer.Lower(`msg = f"x={val:.2f}"`)
	twice := lowerer.Lower(once)

	assert.Equal(t, once, twice)
}

func TestLegacyRewriter_LowersThenDelegates(t *testing.T) {
	fs := adapter.NewLocalSourceFSAdapter()
	tool := &fakeRewriteTool{}
	rewriter := NewLegacySyntaxRewriter(fs, tool, NewRegexLowerer())

	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte(`print(f"v={v}")`+"\n"), 0o644))

	err := rewriter.RewriteFile(context.Background(), m.Path(path))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `print("v={v}".format(v))`+"\n", string(content))

	require.Len(t, tool.rewritten, 1)
	assert.Equal(t, m.Path(path), tool.rewritten[0])
}

func TestLegacyRewriter_ToolFailurePropagates(t *testing.T) {
	fs := adapter.NewLocalSourceFSAdapter()
	toolErr := errors.New("fixer crashed")
	tool := &fakeRewriteTool{rewriteErr: toolErr}
	rewriter := NewLegacySyntaxRewriter(fs, tool, NewRegexLowerer())

	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	err := rewriter.RewriteFile(context.Background(), m.Path(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, toolErr)
}

func TestLegacyRewriter_MissingFile(t *testing.T) {
	fs := adapter.NewLocalSourceFSAdapter()
	rewriter := NewLegacySyntaxRewriter(fs, &fakeRewriteTool{}, NewRegexLowerer())

	err := rewriter.RewriteFile(context.Background(), m.Path(filepath.Join(t.TempDir(), "missing.py")))
	require.Error(t, err)
}
