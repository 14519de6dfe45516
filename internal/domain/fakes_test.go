package domain

import (
	"context"
	"fmt"
	"sync"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// fakeEngine records engine calls in order and fails the operations listed
// in failOn. It lets pipeline tests assert call ordering without a real
// container engine.
type fakeEngine struct {
	mu     sync.Mutex
	calls  []string
	exists bool
	failOn map[string]error

	onBuild func(recipe m.Path)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failOn: map[string]error{}}
}

func (e *fakeEngine) record(call string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
}

func (e *fakeEngine) ImageExists(_ context.Context, name string) (bool, error) {
	e.record("exists " + name)

	if err := e.failOn["exists"]; err != nil {
		return false, err
	}

	return e.exists, nil
}

func (e *fakeEngine) BuildImage(_ context.Context, recipe m.Path, name string, _ m.Path) error {
	e.record("build " + name)

	if e.onBuild != nil {
		e.onBuild(recipe)
	}

	return e.failOn["build"]
}

func (e *fakeEngine) RunContainer(_ context.Context, spec adapter.RunSpec) error {
	e.record("run " + spec.Name)
	return e.failOn["run "+spec.Name]
}

func (e *fakeEngine) CopyFromContainer(_ context.Context, container, _ string, _ m.Path) error {
	e.record("cp " + container)
	return e.failOn["cp "+container]
}

func (e *fakeEngine) RemoveContainer(_ context.Context, name string) error {
	e.record("rm " + name)
	return e.failOn["rm"]
}

// fakeRewriteTool records rewritten paths and optionally fails.
type fakeRewriteTool struct {
	installed    bool
	installErr   error
	rewriteErr   error
	rewritten    []m.Path
	installCalls int
}

func (t *fakeRewriteTool) EnsureInstalled(_ context.Context) error {
	t.installCalls++

	if t.installErr != nil {
		return t.installErr
	}

	t.installed = true

	return nil
}

func (t *fakeRewriteTool) RewriteInPlace(_ context.Context, path m.Path) error {
	if t.rewriteErr != nil {
		return t.rewriteErr
	}

	t.rewritten = append(t.rewritten, path)

	return nil
}

// fakeRewriter stands in for the full LegacySyntaxRewriter in snapshot
// tests.
type fakeRewriter struct {
	paths []m.Path
	err   error
}

func (r *fakeRewriter) RewriteFile(_ context.Context, path m.Path) error {
	if r.err != nil {
		return fmt.Errorf("rewrite %s: %w", path, r.err)
	}

	r.paths = append(r.paths, path)

	return nil
}

// nopUI satisfies controller.UI for orchestrator tests that don't assert
// on output.
type nopUI struct{}

func (nopUI) StartVersion(m.VersionDescriptor)  {}
func (nopUI) VersionCompleted(m.VersionOutcome) {}
func (nopUI) DisplaySummary(m.RunSummary) error { return nil }
