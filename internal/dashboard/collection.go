package dashboard

import (
	"strings"

	"github.com/dhrone-predicts/backend/internal/models"
)

// AllCategories selects every category in Rows
const AllCategories = "all"

// Stats are the dashboard header counts
type Stats struct {
	Total   int
	Pending int
	Won     int
	Lost    int
}

// Rows flattens the collection for display. AllCategories yields every category in
// models.Categories order; any other value yields that one category. Each row's
// Category is set to the partition it came from.
func Rows(c Collection, category string) []models.Prediction {
	var ids []string
	if category == AllCategories {
		ids = models.CategoryIDs()
	} else {
		ids = []string{category}
	}

	rows := []models.Prediction{}
	for _, id := range ids {
		for _, p := range c[id] {
			p.Category = id
			rows = append(rows, p)
		}
	}
	return rows
}

// Search keeps rows whose match or prediction contains term, ignoring case.
// An empty term keeps everything.
func Search(rows []models.Prediction, term string) []models.Prediction {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)

	out := []models.Prediction{}
	for _, p := range rows {
		if strings.Contains(strings.ToLower(p.Match), needle) ||
			strings.Contains(strings.ToLower(p.Prediction), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Summarize counts predictions across every category, regardless of filters
func Summarize(c Collection) Stats {
	var s Stats
	for _, preds := range c {
		for _, p := range preds {
			s.Total++
			switch p.Status {
			case models.StatusPending:
				s.Pending++
			case models.StatusWon:
				s.Won++
			case models.StatusLost:
				s.Lost++
			}
		}
	}
	return s
}
