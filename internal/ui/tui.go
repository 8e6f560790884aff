// Package ui provides the optional read-only terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/todo"
)

// Run starts the dashboard over the task file at path. The dashboard never
// mutates the file; the menu loop stays the single writer.
func Run(ctx context.Context, path string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("dashboard requires a TTY")
	}

	model := newDashModel(path)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type dashModel struct {
	path         string
	loadErr      error
	data         *dashData
	filteredData *dashData
	tickInterval time.Duration
	filter       todo.Filter
	showHelp     bool
}

type dashData struct {
	total     int
	pending   []todo.Task
	completed []todo.Task
	recent    []todo.Task
}

type tickMsg time.Time

func newDashModel(path string) *dashModel {
	return &dashModel{
		path:         path,
		tickInterval: time.Second,
		filter:       todo.FilterAll,
	}
}

func (m *dashModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.filter = todo.FilterPending
			m.applyFilter()
			return m, nil
		case "2":
			m.filter = todo.FilterCompleted
			m.applyFilter()
			return m, nil
		case "0":
			m.filter = todo.FilterAll
			m.filteredData = nil
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *dashModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != todo.FilterAll {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.data == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	displayData := m.data
	if m.filteredData != nil {
		displayData = m.filteredData
	}

	writeOverview(&b, displayData)
	writePending(&b, displayData)
	writeRecent(&b, displayData)
	b.WriteString(fmt.Sprintf("Task File: %s\n\n", m.path))
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *dashModel) refresh() {
	f, err := todo.Load(m.path)
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	m.loadErr = nil
	m.data = buildDashData(f)
	m.applyFilter()
}

// applyFilter narrows the dashboard data to the active filter.
func (m *dashModel) applyFilter() {
	if m.data == nil || m.filter == todo.FilterAll {
		m.filteredData = nil
		return
	}

	filtered := &dashData{total: m.data.total}
	switch m.filter {
	case todo.FilterPending:
		filtered.pending = m.data.pending
	case todo.FilterCompleted:
		filtered.completed = m.data.completed
		filtered.recent = m.data.recent
	}
	m.filteredData = filtered
}

func buildDashData(f *todo.File) *dashData {
	data := &dashData{total: len(f.Tasks)}

	for _, task := range f.Tasks {
		if task.Completed {
			data.completed = append(data.completed, task)
		} else {
			data.pending = append(data.pending, task)
		}
	}

	// Most recently completed first
	recent := make([]todo.Task, len(data.completed))
	copy(recent, data.completed)
	sort.Slice(recent, func(i, j int) bool {
		left := recent[i].CompletedAt
		right := recent[j].CompletedAt
		if left == nil && right == nil {
			return false
		}
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return left.After(*right)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	data.recent = recent

	return data
}

func writeTitle(b *strings.Builder) {
	title := "Taskman Dashboard"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, data *dashData) {
	b.WriteString("Task Overview\n\n")
	b.WriteString(fmt.Sprintf("  Total: %d  Pending: %d  Completed: %d\n\n",
		data.total, len(data.pending), len(data.completed)))
}

func writePending(b *strings.Builder, data *dashData) {
	b.WriteString("Pending Tasks\n\n")
	if len(data.pending) == 0 {
		b.WriteString("  No pending tasks remaining.\n\n")
		return
	}
	for _, task := range data.pending {
		b.WriteString(formatTask(&task))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeRecent(b *strings.Builder, data *dashData) {
	b.WriteString("Recently Completed\n\n")
	if len(data.recent) == 0 {
		b.WriteString("  No completed tasks yet.\n\n")
		return
	}
	for _, task := range data.recent {
		b.WriteString(formatTask(&task))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by pending\n")
	b.WriteString("  2            Filter by completed\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func formatTask(t *todo.Task) string {
	statusIcon := " "
	if t.Completed {
		statusIcon = "x"
	}
	return fmt.Sprintf("  [%s] (%d) %s", statusIcon, t.ID, t.Description)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
