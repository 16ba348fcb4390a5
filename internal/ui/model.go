package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhrone-predicts/backend/internal/dashboard"
	"github.com/dhrone-predicts/backend/internal/models"
)

// API is the part of dashboard.Client the UI needs
type API interface {
	ListAll(ctx context.Context) (dashboard.Collection, error)
	Create(ctx context.Context, in models.PredictionInput) (*models.Prediction, error)
	Update(ctx context.Context, id string, patch models.PredictionPatch) (*models.Prediction, error)
	Delete(ctx context.Context, category, id string) (*models.Prediction, error)
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirm
)

// form fields in display order
type field int

const (
	fieldMatch field = iota
	fieldPrediction
	fieldOdds
	fieldProbability
	fieldCategory
	fieldDate
	fieldStatus
	fieldFeatured
	fieldNote
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Match", "Prediction", "Odds", "Probability", "Category", "Date", "Status", "Featured", "Note",
}

const (
	toastTTL   = 3 * time.Second
	apiTimeout = 15 * time.Second
)

type Model struct {
	client API
	apiURL string
	now    func() time.Time

	// Data
	collection dashboard.Collection
	loaded     bool
	loading    bool

	// Filters
	categoryIdx int // 0 = all, then models.Categories
	search      textinput.Model

	// Table
	cursor int

	// Form
	mode      mode
	form      dashboard.Form
	editing   *models.Prediction
	focus     field
	inputs    map[field]*textinput.Model
	saving    bool // form submitted, waiting for the API
	deleting  *models.Prediction
	toast     string
	toastErr  bool
	toastSeq  int
	toastTTL  time.Duration
	width     int
	height    int
	maxWidth  int
	maxHeight int
}

// Messages

type collectionMsg struct {
	collection dashboard.Collection
	err        error
}

type mutationMsg struct {
	action string // "created", "updated" or "deleted"
	err    error
}

type clearToastMsg struct{ seq int }

func NewModel(client API, apiURL string, maxWidth, maxHeight int) Model {
	search := textinput.New()
	search.Placeholder = "Search predictions..."
	search.Prompt = "/ "
	search.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		client:    client,
		apiURL:    apiURL,
		now:       time.Now,
		search:    search,
		toastTTL:  toastTTL,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

func (m Model) Init() tea.Cmd {
	return fetchCollection(m.client)
}

// selectedCategory is dashboard.AllCategories or a category id
func (m Model) selectedCategory() string {
	if m.categoryIdx == 0 {
		return dashboard.AllCategories
	}
	return models.Categories[m.categoryIdx-1].ID
}

// visibleRows applies the category and search filters
func (m Model) visibleRows() []models.Prediction {
	return dashboard.Search(dashboard.Rows(m.collection, m.selectedCategory()), m.search.Value())
}

func (m Model) selectedRow() (models.Prediction, bool) {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return models.Prediction{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Commands

func fetchCollection(c API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		all, err := c.ListAll(ctx)
		return collectionMsg{all, err}
	}
}

func createPrediction(c API, in models.PredictionInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		_, err := c.Create(ctx, in)
		return mutationMsg{"created", err}
	}
}

func updatePrediction(c API, id string, patch models.PredictionPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		_, err := c.Update(ctx, id, patch)
		return mutationMsg{"updated", err}
	}
}

func deletePrediction(c API, category, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		_, err := c.Delete(ctx, category, id)
		return mutationMsg{"deleted", err}
	}
}

func clearToastAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearToastMsg{seq}
	})
}

// Form helpers

func newInput(value, placeholder string) *textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return &ti
}

// openForm switches to the form, pre-filled from rec when editing
func (m *Model) openForm(rec *models.Prediction) {
	if rec != nil {
		r := *rec
		m.editing = &r
		m.form = dashboard.FormFromRecord(r)
	} else {
		m.editing = nil
		m.form = dashboard.NewForm(m.now())
		if cat := m.selectedCategory(); cat != dashboard.AllCategories {
			m.form.Category = cat
		}
	}

	prediction := newInput(m.form.Prediction, "Home Win")
	prediction.ShowSuggestions = true
	prediction.SetSuggestions(dashboard.PredictionTypes)

	m.inputs = map[field]*textinput.Model{
		fieldMatch:       newInput(m.form.Match, "Team A vs Team B"),
		fieldPrediction:  prediction,
		fieldOdds:        newInput(m.form.Odds, "1.85"),
		fieldProbability: newInput(m.form.Probability, "75%"),
		fieldDate:        newInput(m.form.Date, "YYYY-MM-DD"),
		fieldNote:        newInput(m.form.Note, ""),
	}
	m.mode = modeForm
	m.setFocus(fieldMatch)
}

func (m *Model) setFocus(f field) {
	for k, in := range m.inputs {
		if k == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	m.focus = f
}

// syncForm copies the text inputs back into the form
func (m *Model) syncForm() {
	m.form.Match = m.inputs[fieldMatch].Value()
	m.form.Prediction = m.inputs[fieldPrediction].Value()
	m.form.Odds = m.inputs[fieldOdds].Value()
	m.form.Probability = m.inputs[fieldProbability].Value()
	m.form.Date = m.inputs[fieldDate].Value()
	m.form.Note = m.inputs[fieldNote].Value()
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.editing = nil
	m.inputs = nil
	m.saving = false
}

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastErr = isErr
	return clearToastAfter(m.toastTTL, m.toastSeq)
}
