package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/pipeline"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m, running any command synchronously and feeding its
// message back.
func press(t *testing.T, m tea.Model, keys ...string) ExploreModel {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(key(k))
		if cmd != nil {
			m, _ = m.Update(cmd())
		}
	}
	return m.(ExploreModel)
}

func newExplore(g *graph.Graph) ExploreModel {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	return NewExploreModel(context.Background(), runner, g)
}

func TestExploreModel_Identifies(t *testing.T) {
	g := graph.MustFromEdges(
		[]graph.Edge{graph.E("X", "M"), graph.E("M", "Y")},
		[]graph.Edge{graph.E("X", "Y")},
	)
	m := newExplore(g)
	if !strings.Contains(m.View(), "Mark at least one outcome") {
		t.Errorf("initial view should prompt for an outcome:\n%s", m.View())
	}

	// Variables are listed M, X, Y.
	m = press(t, m, "down", "t", "down", "o")
	if m.Roles["X"] != RoleTreatment || m.Roles["Y"] != RoleOutcome {
		t.Fatalf("roles = %v", m.Roles)
	}
	if m.Err != nil || m.Result == nil {
		t.Fatalf("result %v, err %v", m.Result, m.Err)
	}
	if !m.Result.Identifiable {
		t.Errorf("front-door effect should be identifiable, got %v", m.Result.Expression)
	}
	view := m.View()
	if !strings.Contains(view, "P(Y | do(X)) =") {
		t.Errorf("view missing result line:\n%s", view)
	}
	if !strings.Contains(view, "treatment") || !strings.Contains(view, "outcome") {
		t.Errorf("view missing roles:\n%s", view)
	}
}

func TestExploreModel_ToggleAndClear(t *testing.T) {
	g := graph.MustFromEdges([]graph.Edge{graph.E("X", "Y")}, []graph.Edge{graph.E("X", "Y")})
	m := press(t, newExplore(g), "t", "down", "o")
	if m.Result == nil || m.Result.Identifiable {
		t.Fatalf("bow arc should not be identifiable, got %v", m.Result)
	}
	if !strings.Contains(m.View(), "is not identifiable") {
		t.Errorf("view:\n%s", m.View())
	}

	m = press(t, m, "o")
	if _, ok := m.Roles["Y"]; ok {
		t.Error("pressing o twice should unmark the outcome")
	}
	if m.Result != nil {
		t.Error("result should be cleared without an outcome")
	}

	m = press(t, m, "o", "c")
	if len(m.Roles) != 0 {
		t.Errorf("c should clear every role, got %v", m.Roles)
	}
}

func TestExploreModel_StaleResultDropped(t *testing.T) {
	g := graph.MustFromEdges([]graph.Edge{graph.E("X", "Y")}, nil)
	m := newExplore(g)

	next, first := m.Update(key("o"))
	next, second := next.Update(key("o"))
	if first == nil || second != nil {
		t.Fatal("marking should start a query and unmarking should not")
	}
	next, _ = next.Update(first())
	if got := next.(ExploreModel); got.Result != nil {
		t.Errorf("stale result applied: %v", got.Result)
	}
}

func TestExploreModel_Quit(t *testing.T) {
	m := newExplore(graph.New())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if _, cmd := m.Update(key("o")); cmd != nil {
		t.Error("o on an empty graph should do nothing")
	}
}
