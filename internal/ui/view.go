package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/dhrone-predicts/backend/internal/dashboard"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/theme"
)

const defaultWidth = 100

type column struct {
	title string
	width int
}

var columns = []column{
	{"Match", 26},
	{"Prediction", 18},
	{"Odds", 6},
	{"Prob", 6},
	{"Category", 16},
	{"Date", 11},
	{"Status", 8},
	{"", 2},
}

func (m Model) View() string {
	t := theme.Default
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	pad := lipgloss.NewStyle().Padding(0, 2)

	var body string
	switch m.mode {
	case modeForm:
		body = m.viewForm()
	default:
		body = m.viewList()
	}

	sections := []string{
		m.viewHeader(width),
		"",
		body,
	}
	if m.mode == modeConfirm {
		sections = append(sections, "", m.viewConfirm())
	}
	if m.toast != "" {
		sections = append(sections, "", m.viewToast())
	}
	sections = append(sections, "", m.viewHelp())

	out := pad.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if m.height > 0 {
		return lipgloss.NewStyle().MaxHeight(m.height).Foreground(t.Text).Render(out)
	}
	return out
}

func (m Model) viewHeader(width int) string {
	t := theme.Default

	title := theme.GradientText("DHRONE PREDICTS · ADMIN", t.Primary, t.Accent)
	sep := theme.GradientText(strings.Repeat("─", max(width-4, 10)), t.Primary, t.Accent)

	if !m.loaded {
		status := "Loading predictions..."
		if !m.loading && m.toastErr {
			status = fmt.Sprintf("Cannot reach API at %s", m.apiURL)
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, sep,
			lipgloss.NewStyle().Foreground(t.Muted).Render(status))
	}

	s := dashboard.Summarize(m.collection)
	stat := func(label string, n int, color lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(t.Muted).Render(label+" ") +
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprint(n))
	}
	stats := strings.Join([]string{
		stat("Total", s.Total, t.Info),
		stat("Pending", s.Pending, t.Warning),
		stat("Won", s.Won, t.Success),
		stat("Lost", s.Lost, t.Error),
	}, "   ")

	return lipgloss.JoinVertical(lipgloss.Left, title, sep, stats)
}

func (m Model) viewCategories() string {
	t := theme.Default
	active := lipgloss.NewStyle().Foreground(t.Base).Background(t.Primary).Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1)

	names := []string{"All"}
	for _, c := range models.Categories {
		names = append(names, c.Name)
	}

	tabs := make([]string, len(names))
	for i, name := range names {
		if i == m.categoryIdx {
			tabs[i] = active.Render(name)
		} else {
			tabs[i] = idle.Render(name)
		}
	}
	return lipgloss.NewStyle().Width(max(m.width-4, defaultWidth-4)).Render(strings.Join(tabs, " "))
}

func (m Model) viewList() string {
	t := theme.Default
	lines := []string{m.viewCategories(), ""}

	if m.mode == modeSearch || m.search.Value() != "" {
		lines = append(lines, m.search.View(), "")
	}

	head := make([]string, len(columns))
	for i, col := range columns {
		head[i] = cell(col.title, col.width)
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Muted).Bold(true).Render(strings.Join(head, " ")))

	rows := m.visibleRows()
	if len(rows) == 0 {
		msg := "No predictions found"
		if !m.loaded {
			msg = "Loading..."
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Muted).Render(msg))
		return strings.Join(lines, "\n")
	}

	start, end := m.window(len(rows))
	for i := start; i < end; i++ {
		lines = append(lines, m.viewRow(rows[i], i == m.cursor))
	}
	if end-start < len(rows) {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Muted).
			Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(rows))))
	}
	return strings.Join(lines, "\n")
}

// window is the slice of rows that fits the terminal, kept around the cursor
func (m Model) window(n int) (int, int) {
	size := n
	if m.height > 0 {
		// header, tabs, search, table head, toast and help
		size = max(m.height-14, 3)
	}
	if size >= n {
		return 0, n
	}
	start := m.cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func (m Model) viewRow(p models.Prediction, selected bool) string {
	t := theme.Default

	star := ""
	if p.Featured {
		star = "★"
	}
	values := []string{
		p.Match,
		p.Prediction,
		p.Odds,
		p.Probability,
		models.CategoryName(p.Category),
		p.Date,
		string(p.Status),
		star,
	}

	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = cell(values[i], col.width)
	}
	cells[6] = lipgloss.NewStyle().Foreground(t.StatusColor(p.Status)).Render(cells[6])
	cells[7] = lipgloss.NewStyle().Foreground(t.Warning).Render(cells[7])

	line := strings.Join(cells, " ")
	if selected {
		return lipgloss.NewStyle().Background(t.Surface).Bold(true).Render("› " + line)
	}
	return "  " + line
}

func (m Model) viewForm() string {
	t := theme.Default
	label := lipgloss.NewStyle().Foreground(t.Muted).Width(13)
	focused := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(13)

	title := "New Prediction"
	if m.editing != nil {
		title = "Edit Prediction"
	}
	lines := []string{lipgloss.NewStyle().Foreground(t.Info).Bold(true).Render(title), ""}

	for f := field(0); f < fieldCount; f++ {
		l := label
		if f == m.focus {
			l = focused
		}
		lines = append(lines, l.Render(fieldLabels[f])+m.fieldValue(f))
	}
	if m.saving {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.Muted).Render("Saving..."))
	}
	return strings.Join(lines, "\n")
}

func (m Model) fieldValue(f field) string {
	t := theme.Default
	option := func(s string) string {
		if f == m.focus {
			return lipgloss.NewStyle().Foreground(t.Accent).Render("‹ " + s + " ›")
		}
		return s
	}

	switch f {
	case fieldCategory:
		name := models.CategoryName(m.form.Category)
		if m.editing != nil {
			return lipgloss.NewStyle().Foreground(t.Muted).Render(name + " (locked)")
		}
		return option(name)
	case fieldStatus:
		return lipgloss.NewStyle().Foreground(t.StatusColor(m.form.Status)).Render(option(string(m.form.Status)))
	case fieldFeatured:
		box := "[ ]"
		if m.form.Featured {
			box = "[★]"
		}
		return option(box)
	}
	if in, ok := m.inputs[f]; ok {
		return in.View()
	}
	return ""
}

func (m Model) viewConfirm() string {
	t := theme.Default
	msg := "Are you sure you want to delete this prediction? (y/n)"
	if m.deleting != nil {
		msg = fmt.Sprintf("%s\n%s", m.deleting.Match, msg)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Error).
		Padding(0, 1).
		Render(msg)
}

func (m Model) viewToast() string {
	t := theme.Default
	color := t.Success
	if m.toastErr {
		color = t.Error
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(m.toast)
}

func (m Model) viewHelp() string {
	var bindings []key.Binding
	switch m.mode {
	case modeSearch:
		bindings = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	case modeForm:
		bindings = []key.Binding{keys.NextField, keys.PrevField, keys.NextOption, keys.Toggle, keys.Submit, keys.Back}
	case modeConfirm:
		bindings = []key.Binding{keys.Confirm, keys.Deny}
	default:
		bindings = []key.Binding{keys.Up, keys.Down, keys.NextCat, keys.Search, keys.New, keys.Edit, keys.Delete, keys.Refresh, keys.Quit}
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return lipgloss.NewStyle().Foreground(theme.Default.Muted).Render(strings.Join(parts, " • "))
}

// cell truncates or pads s to exactly width runes
func cell(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width > 1 {
			return string(r[:width-1]) + "…"
		}
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
