package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render/sink"
	"github.com/matzehuels/treemap/pkg/tree"
)

// browseCommand creates the browse command for exploring a treemap
// interactively in the terminal.
func (c *CLI) browseCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "browse [input]",
		Short: "Explore a treemap interactively in the terminal",
		Long: `Explore a treemap interactively in the terminal.

The current level is drawn as a text treemap next to a table of its children.
Press enter to descend into the selected child and backspace to go back up.
Each level is laid out afresh in the layout region.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg(), args[0])
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd)

	return cmd
}

// runBrowse loads the document and runs the browser until the user quits.
func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	root, _, err := c.loadSource(ctx, runner, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}

	m, err := newBrowseModel(root, opts.Region(), opts.EffectiveMinArea())
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

// =============================================================================
// Key bindings
// =============================================================================

type browseKeys struct {
	Up   key.Binding
	Down key.Binding
	In   key.Binding
	Out  key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.In, k.Out, k.Help, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.In, k.Out},
		{k.Help, k.Quit},
	}
}

var defaultBrowseKeys = browseKeys{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	In:   key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
	Out:  key.NewBinding(key.WithKeys("backspace", "left", "h", "esc"), key.WithHelp("backspace", "back")),
	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// Model
// =============================================================================

// browseLevel is one step of the drill-down path.
type browseLevel struct {
	res    *layout.Result
	cursor int
}

// browseModel is the bubbletea model behind the browse command.
type browseModel struct {
	region  tree.Rect
	minArea float64

	path   []browseLevel
	table  table.Model
	keys   browseKeys
	help   help.Model
	status string

	width, height int
}

const (
	browseTableWidth = 52
	browseChrome     = 5
)

var (
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorYellow)
	browseMapStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// newBrowseModel lays out root and returns a model positioned at its top
// level.
func newBrowseModel(root *tree.Node, region tree.Rect, minArea float64) (browseModel, error) {
	res, err := layout.Layout(root, region, layout.WithMinArea(minArea))
	if err != nil {
		return browseModel{}, err
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(colorWhite).Background(colorCyan)

	t := table.New(
		table.WithColumns(browseColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles)

	m := browseModel{
		region:  region,
		minArea: minArea,
		path:    []browseLevel{{res: res}},
		table:   t,
		keys:    defaultBrowseKeys,
		help:    help.New(),
		width:   80,
		height:  24,
	}
	m.syncTable()
	return m, nil
}

func browseColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Size", Width: 9},
		{Title: "Value", Width: 9},
		{Title: "Share", Width: 6},
	}
}

// current returns the level being displayed.
func (m browseModel) current() *browseLevel {
	return &m.path[len(m.path)-1]
}

// breadcrumb returns the names along the drill-down path.
func (m browseModel) breadcrumb() string {
	names := make([]string, 0, len(m.path))
	for _, lvl := range m.path {
		name := lvl.res.Root.Name
		if name == "" {
			name = "(root)"
		}
		names = append(names, name)
	}
	return strings.Join(names, " / ")
}

// syncTable fills the table from the current level and restores its cursor.
func (m *browseModel) syncTable() {
	lvl := m.current()
	total := lvl.res.Root.ChildrenSize()

	rows := make([]table.Row, 0, len(lvl.res.Root.Children))
	for _, child := range lvl.res.Root.Children {
		name := child.Name
		if !child.IsLeaf() {
			name += "/"
		}
		share := 0.0
		if total > 0 {
			share = child.Size / total * 100
		}
		rows = append(rows, table.Row{
			name,
			sink.FormatCount(child.Size),
			sink.FormatCount(child.Value),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(lvl.cursor)
}

// descend lays out the selected child and pushes it onto the path.
func (m *browseModel) descend() {
	lvl := m.current()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(lvl.res.Root.Children) {
		return
	}
	child := lvl.res.Root.Children[idx]
	if child.IsLeaf() {
		m.status = fmt.Sprintf("%s has no children", child.Name)
		return
	}

	res, err := layout.Layout(child, m.region, layout.WithMinArea(m.minArea))
	if err != nil {
		m.status = fmt.Sprintf("cannot open %s: %v", child.Name, err)
		return
	}
	lvl.cursor = idx
	m.path = append(m.path, browseLevel{res: res})
	m.status = ""
	m.syncTable()
}

// ascend pops the current level. It reports false at the top level.
func (m *browseModel) ascend() bool {
	if len(m.path) == 1 {
		return false
	}
	m.path = m.path[:len(m.path)-1]
	m.status = ""
	m.syncTable()
	return true
}

func (m *browseModel) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.table.SetHeight(max(height-browseChrome-2, 3))
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.In):
			m.descend()
			return m, nil
		case key.Matches(msg, m.keys.Out):
			if !m.ascend() && msg.String() == "esc" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.current().cursor = m.table.Cursor()
	return m, cmd
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	mapWidth := max(m.width-browseTableWidth-4, 10)
	mapHeight := max(m.height-browseChrome-2, 3)
	preview := sink.RenderText(m.current().res, mapWidth, mapHeight, sink.WithMaxDepth(1))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		browseMapStyle.Render(strings.TrimRight(preview, "\n")),
		"  ",
		m.table.View(),
	))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(browseStatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
