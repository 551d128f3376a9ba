package workflow_test

import (
	"errors"
	"testing"

	"github.com/ByLCY/richtext/workflow"
)

// 测试用的小型流水线：init -> place -> {a, b} -> join -> render
const (
	render workflow.Stage = iota
	join
	a
	b
	place
	initialize
)

func newGraph(t *testing.T) *workflow.Graph {
	t.Helper()
	g, err := workflow.NewGraph(
		workflow.Def{Stage: initialize, Name: "init"},
		workflow.Def{Stage: place, Name: "place", Upstream: []workflow.Stage{initialize}},
		workflow.Def{Stage: b, Name: "b", Upstream: []workflow.Stage{place}},
		workflow.Def{Stage: a, Name: "a", Upstream: []workflow.Stage{place}},
		workflow.Def{Stage: join, Name: "join", Upstream: []workflow.Stage{a, b}, Internal: true},
		workflow.Def{Stage: render, Name: "render", Upstream: []workflow.Stage{join}},
	)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestRequirePropagatesDownstream(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	if m.Mask() != 1<<initialize {
		t.Fatalf("initial mask = %#b, want only init", m.Mask())
	}
	if _, err := m.Drive(0, func(workflow.Stage) error { return nil }); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if err := m.Require(a); err != nil {
		t.Fatalf("require: %v", err)
	}
	want := uint32(1<<a | 1<<join | 1<<render)
	if m.Mask() != want {
		t.Fatalf("mask = %#b, want %#b", m.Mask(), want)
	}
}

func TestRequireOnlyDoesNotPropagate(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	m.Complete(initialize)
	if err := m.RequireOnly(place); err != nil {
		t.Fatalf("require only: %v", err)
	}
	if m.Mask() != 1<<place {
		t.Fatalf("mask = %#b, want only place", m.Mask())
	}
}

func TestJoinWaitsForAllPredecessors(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	m.Complete(initialize)
	if err := m.Require(place); err != nil {
		t.Fatalf("require: %v", err)
	}
	m.Complete(place)
	m.Complete(a)
	if m.Executable(join) {
		t.Fatalf("join must wait while b is pending")
	}
	m.Complete(b)
	if !m.Executable(join) {
		t.Fatalf("join should be executable once a and b are clean")
	}
}

func TestDriveRunsUpstreamFirstOnce(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	var order []workflow.Stage
	_, err := m.Drive(0, func(s workflow.Stage) error {
		order = append(order, s)
		if s == initialize {
			return m.Require(place)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	want := []workflow.Stage{initialize, place, b, a, join, render}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if !m.Idle() {
		t.Fatalf("mask not drained: %#b", m.Mask())
	}

	// 仅重新要求 render，只应执行一次。
	if err := m.Require(render); err != nil {
		t.Fatalf("require render: %v", err)
	}
	runs := 0
	if _, err := m.Drive(0, func(workflow.Stage) error { runs++; return nil }); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if runs != 1 {
		t.Fatalf("render re-require ran %d stages, want 1", runs)
	}
}

func TestDriveBudgetSpansCalls(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	m.Complete(initialize)
	_ = m.Require(place)
	steps, err := m.Drive(2, func(workflow.Stage) error { return nil })
	if err != nil || steps != 2 {
		t.Fatalf("first drive = %d, %v; want 2 steps", steps, err)
	}
	if m.Idle() {
		t.Fatalf("budget should leave work pending")
	}
	steps, err = m.Drive(0, func(workflow.Stage) error { return nil })
	if err != nil || steps != 3 {
		t.Fatalf("second drive = %d, %v; want 3 steps", steps, err)
	}
}

func TestDriveKeepsFailedStage(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	boom := errors.New("boom")
	_, err := m.Drive(0, func(workflow.Stage) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if ok, _ := m.IsRequired(initialize); !ok {
		t.Fatalf("failed stage must stay required")
	}
}

func TestInternalStageRejected(t *testing.T) {
	m := workflow.NewModel(newGraph(t), initialize, nil)
	if err := m.Require(join); !errors.Is(err, workflow.ErrInternalStage) {
		t.Fatalf("require join err = %v", err)
	}
	if _, err := m.IsRequired(join); !errors.Is(err, workflow.ErrInternalStage) {
		t.Fatalf("inspect join err = %v", err)
	}
	if err := m.Require(30); !errors.Is(err, workflow.ErrUnknownStage) {
		t.Fatalf("unknown stage err = %v", err)
	}
}

func TestGraphRejectsUpstreamOnLowerBit(t *testing.T) {
	_, err := workflow.NewGraph(
		workflow.Def{Stage: 0, Name: "x"},
		workflow.Def{Stage: 1, Name: "y", Upstream: []workflow.Stage{0}},
	)
	if err == nil {
		t.Fatalf("expected error for inverted dependency")
	}
}
