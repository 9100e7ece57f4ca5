package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/pipeline"
	"github.com/matzehuels/justgrid/pkg/render"
)

var (
	previewRowStyle      = lipgloss.NewStyle().Foreground(colorFaint)
	previewSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	previewTrailingStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

// previewCommand opens an interactive row browser for a gallery.
func (c *CLI) previewCommand() *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "preview <input>",
		Short: "Browse a layout in the terminal",
		Long: `Browse a layout row by row in the terminal.

Each row is drawn as blocks proportional to its frames. The selected row
shows its frames with their final sizes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &lf, nil)
			opts.Input = args[0]
			doc, err := c.loadDocument(cmd.Context(), opts, lf.noCache)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewPreviewModel(doc), tea.WithAltScreen()).Run()
			return err
		},
	}
	lf.register(cmd)
	return cmd
}

// loadDocument reads a layout document or computes one from the input.
func (c *CLI) loadDocument(ctx context.Context, opts pipeline.Options, noCache bool) (*render.Document, error) {
	if strings.HasSuffix(opts.Input, layoutSuffix) && !isRemote(opts.Input) {
		return readDocumentFile(opts.Input)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	frames, err := runner.Probe(ctx, opts)
	if err != nil {
		return nil, err
	}
	return runner.Layout(ctx, frames, opts)
}

// =============================================================================
// PreviewModel - Interactive row browser
// =============================================================================

// PreviewModel is the bubbletea model for browsing layout rows.
type PreviewModel struct {
	Doc    *render.Document
	Cursor int
	Width  int
	Height int
	Offset int
}

// NewPreviewModel creates a preview model for doc.
func NewPreviewModel(doc *render.Document) PreviewModel {
	return PreviewModel{
		Doc:    doc,
		Width:  80,
		Height: 10,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Doc.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Doc.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width-4, 20)
		// Header, footer and the detail pane take the rest.
		m.Height = max(msg.Height-12, 3)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	title := m.Doc.Title
	if title == "" {
		title = "Layout"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d×%d px · %d rows", m.Doc.Width, m.Doc.Height, len(m.Doc.Rows))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Doc.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Doc.Rows[i]
		cursor := "  "
		style := previewRowStyle
		if !row.Justified {
			style = previewTrailingStyle
		}
		if i == m.Cursor {
			cursor = "▸ "
			style = previewSelectedStyle
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(rowBar(row, m.Doc.ContainerWidth, m.Width)))
		b.WriteString("\n")
	}

	if len(m.Doc.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(rowDetail(m.Doc.Rows[m.Cursor]))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc.Rows))))
	}

	return b.String()
}

// rowBar draws a row as one block per frame, scaled from container to cols.
func rowBar(row render.DocRow, container, cols int) string {
	if container <= 0 || cols <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for i, f := range row.Frames {
		end := (f.X + f.Width) * cols / container
		n := max(end-used, 1)
		if i > 0 && n > 1 {
			b.WriteString(" ")
			n--
		}
		b.WriteString(strings.Repeat("█", n))
		used = end
	}
	return b.String()
}

// rowDetail lists the frames of row with their placed sizes.
func rowDetail(row render.DocRow) string {
	var b strings.Builder
	kind := "justified"
	if !row.Justified {
		kind = "trailing"
	}
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("Row %d", row.Index)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  y=%d  height=%d  %s", row.Y, row.Height, kind)))
	b.WriteString("\n")
	for _, f := range row.Frames {
		b.WriteString("  ")
		b.WriteString(StyleValue.Render(f.ID))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d×%d at (%d,%d)", f.Width, f.Height, f.X, f.Y)))
		b.WriteString("\n")
	}
	return b.String()
}
