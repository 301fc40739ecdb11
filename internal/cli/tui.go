package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/render"
)

// Viewer styles
var (
	viewerNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	viewerPinnedStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	viewerSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Reverse(true)
	viewerEdgeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	viewerLabelStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	glyphNode   = '●'
	glyphPinned = '■'
	glyphEdge   = '·'

	// cellAspect is the height/width ratio of a terminal cell.
	cellAspect = 2.0

	minZoom = 0.25
	maxZoom = 16
)

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [layout.json]",
		Short: "Show a layout in the terminal",
		Long: `Show a layout file in an interactive terminal viewer.

Keys: arrows/hjkl pan, +/- zoom, 0 reset, tab select next node,
L toggle labels, n toggle the node table, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadLayoutFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			p := tea.NewProgram(NewViewerModel(l, args[0]), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// ViewerModel - Interactive layout viewer
// =============================================================================

// ViewerModel is the bubbletea model of the layout viewer.
type ViewerModel struct {
	Layout     *layout.Layout
	Title      string
	Width      int
	Height     int
	Zoom       float64
	PanX, PanY float64 // viewport center offset in layout units
	Selected   int     // -1 when no node is selected
	Labels     bool
	ShowTable  bool
}

// NewViewerModel creates a viewer for l.
func NewViewerModel(l *layout.Layout, title string) ViewerModel {
	return ViewerModel{
		Layout:   l,
		Title:    title,
		Width:    80,
		Height:   24,
		Zoom:     1,
		Selected: -1,
		Labels:   true,
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return nil
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		step := m.panStep()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.PanX -= step
		case "right", "l":
			m.PanX += step
		case "up", "k":
			m.PanY += step
		case "down", "j":
			m.PanY -= step
		case "+", "=":
			m.Zoom = math.Min(m.Zoom*1.5, maxZoom)
		case "-", "_":
			m.Zoom = math.Max(m.Zoom/1.5, minZoom)
		case "0":
			m.Zoom, m.PanX, m.PanY = 1, 0, 0
		case "tab":
			if n := len(m.Layout.Nodes); n > 0 {
				m.Selected = (m.Selected + 1) % n
			}
		case "shift+tab":
			if n := len(m.Layout.Nodes); n > 0 {
				m.Selected = (m.Selected - 1 + n) % n
			}
		case "L":
			m.Labels = !m.Labels
		case "n":
			m.ShowTable = !m.ShowTable
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m ViewerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges · zoom %.2gx", len(m.Layout.Nodes), len(m.Layout.Edges), m.Zoom)))
	b.WriteString("\n")

	cols, rows := m.canvasSize()
	canvas := strings.Join(drawLayout(m.Layout, m.viewport(), cols, rows, m.Labels, m.Selected), "\n")
	if m.ShowTable {
		canvas = lipgloss.JoinHorizontal(lipgloss.Top, canvas, "  ", m.nodeTable())
	}
	b.WriteString(canvas)
	b.WriteString("\n")
	b.WriteString(m.statusLine())

	return b.String()
}

// canvasSize returns the drawing area in cells, leaving room for the title,
// the status line and, when shown, the node table.
func (m ViewerModel) canvasSize() (int, int) {
	cols, rows := m.Width, m.Height-2
	if m.ShowTable {
		cols -= 36
	}
	return max(cols, 10), max(rows, 4)
}

// viewport returns the visible region in layout units.
func (m ViewerModel) viewport() layout.Bounds {
	b := m.Layout.Bounds
	cx := (b.MinX+b.MaxX)/2 + m.PanX
	cy := (b.MinY+b.MaxY)/2 + m.PanY
	hw := math.Max(b.Width(), 1e-9) / 2 / m.Zoom
	hh := math.Max(b.Height(), 1e-9) / 2 / m.Zoom
	return layout.Bounds{MinX: cx - hw, MinY: cy - hh, MaxX: cx + hw, MaxY: cy + hh}
}

func (m ViewerModel) panStep() float64 {
	b := m.Layout.Bounds
	return math.Max(math.Max(b.Width(), b.Height()), 1e-9) / 10 / m.Zoom
}

func (m ViewerModel) statusLine() string {
	help := "←↓↑→ pan  +/- zoom  tab select  L labels  n table  q quit"
	if m.Selected < 0 || m.Selected >= len(m.Layout.Nodes) {
		return StyleDim.Render(help)
	}
	n := m.Layout.Nodes[m.Selected]
	pinned := ""
	if n.Pinned {
		pinned = StyleWarning.Render(" pinned")
	}
	return StyleValue.Render(fmt.Sprintf("node %d  (%.4f, %.4f)  degree %d", n.ID, n.X, n.Y, n.Degree)) + pinned + "  " + StyleDim.Render(help)
}

func (m ViewerModel) nodeTable() string {
	rows := make([][]string, 0, len(m.Layout.Nodes))
	for _, n := range m.Layout.Nodes {
		pin := ""
		if n.Pinned {
			pin = "✓"
		}
		rows = append(rows, []string{strconv.Itoa(n.ID), fmt.Sprintf("%.3f", n.X), fmt.Sprintf("%.3f", n.Y), strconv.Itoa(n.Degree), pin})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("id", "x", "y", "deg", "pin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Selected:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case row >= 0 && row < len(m.Layout.Nodes) && m.Layout.Nodes[row].Pinned:
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// =============================================================================
// Canvas
// =============================================================================

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellLabel
	cellNode
	cellPinned
	cellSelected
)

type cell struct {
	r    rune
	kind cellKind
}

// drawLayout rasterizes the part of l inside vp onto a cols×rows grid of
// terminal cells and returns one styled string per row. Edges are drawn
// first so nodes and labels stay visible where they overlap.
func drawLayout(l *layout.Layout, vp layout.Bounds, cols, rows int, labels bool, selected int) []string {
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	// Cells are about twice as tall as wide: fit into a frame with square
	// units, then halve the row coordinate. The margin leaves room for the
	// label of a node on the right edge.
	t := render.Fit(vp, render.Frame{Width: float64(cols - 1), Height: float64(rows-1) * cellAspect, Margin: 1})
	toCell := func(x, y float64) (int, int) {
		px, py := t.Apply(x, y)
		return int(math.Round(px)), int(math.Round(py / cellAspect))
	}
	put := func(c, r int, ch rune, kind cellKind) {
		if r < 0 || r >= rows || c < 0 || c >= cols || grid[r][c].kind > kind {
			return
		}
		grid[r][c] = cell{r: ch, kind: kind}
	}

	for _, e := range l.Edges {
		if e.From >= len(l.Nodes) || e.To >= len(l.Nodes) {
			continue
		}
		c0, r0 := toCell(l.Nodes[e.From].X, l.Nodes[e.From].Y)
		c1, r1 := toCell(l.Nodes[e.To].X, l.Nodes[e.To].Y)
		bresenham(c0, r0, c1, r1, func(c, r int) { put(c, r, glyphEdge, cellEdge) })
	}

	for i, n := range l.Nodes {
		c, r := toCell(n.X, n.Y)
		switch {
		case i == selected:
			put(c, r, glyphNode, cellSelected)
		case n.Pinned:
			put(c, r, glyphPinned, cellPinned)
		default:
			put(c, r, glyphNode, cellNode)
		}
		if labels {
			for k, ch := range strconv.Itoa(n.ID) {
				put(c+1+k, r, ch, cellLabel)
			}
		}
	}

	lines := make([]string, rows)
	for i, row := range grid {
		var b strings.Builder
		for _, cl := range row {
			b.WriteString(styleCell(cl))
		}
		lines[i] = b.String()
	}
	return lines
}

func styleCell(c cell) string {
	s := string(c.r)
	switch c.kind {
	case cellEdge:
		return viewerEdgeStyle.Render(s)
	case cellLabel:
		return viewerLabelStyle.Render(s)
	case cellNode:
		return viewerNodeStyle.Render(s)
	case cellPinned:
		return viewerPinnedStyle.Render(s)
	case cellSelected:
		return viewerSelectedStyle.Render(s)
	}
	return s
}

// bresenham calls plot for every cell on the line from (x0,y0) to (x1,y1).
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, sx := abs(x1-x0), 1
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
