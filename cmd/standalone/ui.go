package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"standalone/internal/core/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type pickerModel struct {
	list   list.Model
	choice string
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While the filter input is active the list owns the keys.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = it.title
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("%d functions | enter extracts | q quits", len(m.list.Items())))
	header := fmt.Sprintf("%s\n%s\n", titleStyle("Snippet Extractor"), status)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialPicker(items []list.Item) pickerModel {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a target function"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return pickerModel{list: l}
}

// runPicker shows every discovered function and returns the chosen
// target name, or "" when the user quits without selecting.
func runPicker(application *app.App) (string, error) {
	defs := application.ListTargets()
	items := make([]list.Item, 0, len(defs))
	for _, def := range defs {
		items = append(items, item{
			title: def.Name,
			desc:  fmt.Sprintf("%s:%d", def.Unit, def.Line),
		})
	}

	p := tea.NewProgram(initialPicker(items), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(pickerModel); ok {
		return m.choice, nil
	}
	return "", nil
}
