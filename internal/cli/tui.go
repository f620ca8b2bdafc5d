package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickRequestFile runs the interactive picker over the JSON files in the
// current directory and returns the chosen path.
func pickRequestFile() (string, error) {
	files, err := requestCandidates(".")
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no .json request files in the current directory")
	}

	model := newRequestListModel(files)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}

	m, ok := final.(requestListModel)
	if !ok || m.selected == "" {
		return "", fmt.Errorf("no request file selected")
	}
	return m.selected, nil
}

// requestCandidates lists JSON files in dir, sorted by name.
func requestCandidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// requestListModel is the bubbletea model for interactive request-file
// selection.
type requestListModel struct {
	files    []string
	cursor   int
	selected string
}

func newRequestListModel(files []string) requestListModel {
	return requestListModel{files: files}
}

func (m requestListModel) Init() tea.Cmd {
	return nil
}

func (m requestListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.files[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m requestListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Request File"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, f := range m.files {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := cursor + f
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.files))))

	return b.String()
}
