package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/models"
)

var failureText = map[string]string{
	"created": "Failed to create prediction",
	"updated": "Failed to update prediction",
	"deleted": "Failed to delete prediction",
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.maxWidth > 0 && m.width > m.maxWidth {
			m.width = m.maxWidth
		}
		if m.maxHeight > 0 && m.height > m.maxHeight {
			m.height = m.maxHeight
		}
		return m, nil

	case collectionMsg:
		m.loading = false
		if msg.err != nil {
			// keep whatever was shown before
			logger.Error("dashboard: fetch predictions: %v", msg.err)
			return m, m.notify("Failed to fetch predictions", true)
		}
		m.collection = msg.collection
		m.loaded = true
		m.clampCursor()
		return m, nil

	case mutationMsg:
		if msg.err != nil {
			// the form stays open with what was typed so the save can be retried
			m.saving = false
			logger.Error("dashboard: prediction %s: %v", msg.action, msg.err)
			return m, m.notify(failureText[msg.action], true)
		}
		if m.mode == modeForm && m.saving {
			m.closeForm()
		}
		m.loading = true
		toast := m.notify(fmt.Sprintf("Prediction %s successfully", msg.action), false)
		return m, tea.Batch(toast, fetchCollection(m.client))

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.NextCat):
		m.categoryIdx = (m.categoryIdx + 1) % (len(models.Categories) + 1)
		m.cursor = 0
	case key.Matches(msg, keys.PrevCat):
		m.categoryIdx = (m.categoryIdx + len(models.Categories)) % (len(models.Categories) + 1)
		m.cursor = 0
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.search.Focus()
	case key.Matches(msg, keys.Back):
		m.search.SetValue("")
		m.clampCursor()
	case key.Matches(msg, keys.New):
		m.openForm(nil)
	case key.Matches(msg, keys.Edit):
		if row, ok := m.selectedRow(); ok {
			m.openForm(&row)
		}
	case key.Matches(msg, keys.Delete):
		if row, ok := m.selectedRow(); ok {
			m.deleting = &row
			m.mode = modeConfirm
		}
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, fetchCollection(m.client)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if msg.Type == tea.KeyEsc {
			m.search.SetValue("")
		}
		m.search.Blur()
		m.mode = modeList
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		target := m.deleting
		m.deleting = nil
		m.mode = modeList
		if target == nil {
			return m, nil
		}
		return m, deletePrediction(m.client, target.Category, target.ID)
	case key.Matches(msg, keys.Deny):
		m.deleting = nil
		m.mode = modeList
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.closeForm()
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m.submitForm()
	case key.Matches(msg, keys.NextField):
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case key.Matches(msg, keys.PrevField):
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	}

	switch m.focus {
	case fieldCategory:
		// a record never changes partition, so the category is fixed while editing
		if m.editing == nil {
			m.form.Category = cycleCategory(m.form.Category, optionStep(msg))
		}
		return m, nil
	case fieldStatus:
		m.form.Status = cycleStatus(m.form.Status, optionStep(msg))
		return m, nil
	case fieldFeatured:
		if key.Matches(msg, keys.Toggle, keys.NextOption, keys.PrevOption) {
			m.form.Featured = !m.form.Featured
		}
		return m, nil
	}

	in, ok := m.inputs[m.focus]
	if !ok {
		return m, nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.syncForm()
	if err := m.form.Validate(); err != nil {
		return m, m.notify(err.Error(), true)
	}

	m.saving = true
	if m.editing != nil {
		return m, updatePrediction(m.client, m.editing.ID, m.form.Patch(m.editing.Category))
	}
	return m, createPrediction(m.client, m.form.Input())
}

func optionStep(msg tea.KeyMsg) int {
	switch {
	case key.Matches(msg, keys.NextOption), key.Matches(msg, keys.Toggle):
		return 1
	case key.Matches(msg, keys.PrevOption):
		return -1
	}
	return 0
}

func cycleCategory(current string, step int) string {
	ids := models.CategoryIDs()
	idx := 0
	for i, id := range ids {
		if id == current {
			idx = i
		}
	}
	idx = (idx + step + len(ids)) % len(ids)
	return ids[idx]
}

func cycleStatus(current models.Status, step int) models.Status {
	idx := 0
	for i, s := range models.Statuses {
		if s == current {
			idx = i
		}
	}
	idx = (idx + step + len(models.Statuses)) % len(models.Statuses)
	return models.Statuses[idx]
}
