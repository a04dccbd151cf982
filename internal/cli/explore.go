package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Aryan-Seth/y0/pkg/graph"
	"github.com/Aryan-Seth/y0/pkg/pipeline"
)

func (c *CLI) exploreCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore <graph>",
		Short: "Interactively pick outcomes and treatments",
		Long: `Open a terminal UI listing the variables of a graph. Mark variables as
outcomes or treatments and the ID algorithm reruns after every change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			p := tea.NewProgram(NewExploreModel(ctx, runner, g),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

// Role is the part a variable plays in the query being explored.
type Role int

// Roles a variable can take. Unmarked variables are RoleNone.
const (
	RoleNone Role = iota
	RoleOutcome
	RoleTreatment
)

func (r Role) String() string {
	switch r {
	case RoleOutcome:
		return "outcome"
	case RoleTreatment:
		return "treatment"
	default:
		return ""
	}
}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// identifiedMsg carries a finished identification back to the model. seq
// matches the query that produced it so stale results are dropped.
type identifiedMsg struct {
	seq int
	res *pipeline.Result
	err error
}

// ExploreModel is the bubbletea model behind "y0 explore".
type ExploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	graph  *graph.Graph
	vars   []graph.Variable

	Roles  map[graph.Variable]Role
	Cursor int
	Offset int
	Height int

	seq     int
	running bool
	Result  *pipeline.Result
	Err     error
}

// NewExploreModel creates a model over the variables of g.
func NewExploreModel(ctx context.Context, runner *pipeline.Runner, g *graph.Graph) ExploreModel {
	return ExploreModel{
		ctx:    ctx,
		runner: runner,
		graph:  g,
		vars:   g.Nodes().Sorted(),
		Roles:  make(map[graph.Variable]Role),
		Height: 15,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.vars)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "o":
			return m.toggle(RoleOutcome)
		case "t":
			return m.toggle(RoleTreatment)
		case "c":
			m.Roles = make(map[graph.Variable]Role)
			return m.requery()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	case identifiedMsg:
		if msg.seq == m.seq {
			m.running = false
			m.Result, m.Err = msg.res, msg.err
		}
	}
	return m, nil
}

func (m ExploreModel) toggle(r Role) (tea.Model, tea.Cmd) {
	if len(m.vars) == 0 {
		return m, nil
	}
	roles := make(map[graph.Variable]Role, len(m.Roles)+1)
	for v, role := range m.Roles {
		roles[v] = role
	}
	v := m.vars[m.Cursor]
	if roles[v] == r {
		delete(roles, v)
	} else {
		roles[v] = r
	}
	m.Roles = roles
	return m.requery()
}

// requery starts identification of the current selection. Without an
// outcome there is nothing to identify.
func (m ExploreModel) requery() (tea.Model, tea.Cmd) {
	m.seq++
	m.Result, m.Err = nil, nil
	outcomes, treatments := m.selection()
	if outcomes.IsEmpty() {
		m.running = false
		return m, nil
	}
	m.running = true

	seq, ctx, runner := m.seq, m.ctx, m.runner
	req := pipeline.Request{
		Graph:      m.graph,
		Algorithm:  pipeline.AlgorithmID,
		Outcomes:   outcomes,
		Treatments: treatments,
	}
	return m, func() tea.Msg {
		res, err := runner.Identify(ctx, req)
		return identifiedMsg{seq: seq, res: res, err: err}
	}
}

func (m ExploreModel) selection() (outcomes, treatments graph.Set) {
	outcomes, treatments = make(graph.Set), make(graph.Set)
	for v, r := range m.Roles {
		switch r {
		case RoleOutcome:
			outcomes.Add(v)
		case RoleTreatment:
			treatments.Add(v)
		}
	}
	return outcomes, treatments
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  o outcome  t treatment  c clear  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.vars))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		v := m.vars[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			string(v),
			m.Roles[v].String(),
			joinVars(m.graph.Parents(v).Sorted()),
			joinVars(m.graph.Spouses(v).Sorted()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Variable", "Role", "Parents", "Confounded with").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.vars) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			switch m.Roles[m.vars[idx]] {
			case RoleOutcome:
				base = base.Foreground(colorGreen)
			case RoleTreatment:
				base = base.Foreground(colorYellow)
			default:
				if col >= 3 {
					base = base.Foreground(colorDim)
				}
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.resultLine())
	b.WriteString("\n")
	return b.String()
}

func (m ExploreModel) resultLine() string {
	outcomes, treatments := m.selection()
	switch {
	case outcomes.IsEmpty():
		return listDimStyle.Render("Mark at least one outcome with o.")
	case m.running:
		return listDimStyle.Render("Identifying...")
	case m.Err != nil:
		return StyleFailure.Render(iconError + " " + m.Err.Error())
	case m.Result == nil:
		return ""
	}

	query := queryString(pipeline.Request{Outcomes: outcomes, Treatments: treatments})
	if !m.Result.Identifiable {
		return StyleFailure.Render(fmt.Sprintf("%s %s is not identifiable", iconError, query))
	}
	return StyleSuccess.Render(iconSuccess+" "+query+" = ") + listSelectedStyle.Render(m.Result.Expression.String())
}
