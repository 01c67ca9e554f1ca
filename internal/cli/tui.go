package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/relhist/relhist/pkg/timeline"
)

// viewerModel is the bubbletea model for the scrollable timeline viewer.
type viewerModel struct {
	viewport viewport.Model
	content  string
	header   string
	ready    bool
}

// viewTimeline opens the interactive viewer over a built timeline.
func viewTimeline(window timeline.Window, result *timeline.Result) error {
	m := viewerModel{
		header:  viewerHeader(window, result),
		content: viewerContent(result),
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.headerView() + "\n" + m.viewport.View()
}

func (m viewerModel) headerView() string {
	return m.header + "\n" + StyleDim.Render("↑/↓ scroll  q quit")
}

// viewerHeader renders the title and summary line.
func viewerHeader(window timeline.Window, result *timeline.Result) string {
	title := StyleTitle.Render("Release Timeline")
	summary := StyleDim.Render(fmt.Sprintf("%s — %s · %d releases from %d repositories",
		window.Start.Format(dateLayout), window.End.Format(dateLayout),
		len(result.Items), contributingRepos(result.Items)))
	return title + "\n" + summary
}

// viewerContent renders every item into one scrollable block.
func viewerContent(result *timeline.Result) string {
	if len(result.Items) == 0 {
		return StyleDim.Render("No releases found in the selected date range")
	}

	var b strings.Builder
	for _, item := range result.Items {
		for _, line := range renderItem(item) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
