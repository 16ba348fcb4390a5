package dashboard

import (
	"testing"
	"time"

	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCollection() Collection {
	return Collection{
		"freeTips": {
			{ID: "1", Match: "Arsenal vs Chelsea", Prediction: "Home Win", Status: models.StatusPending},
			{ID: "2", Match: "Inter vs Milan", Prediction: "Draw", Status: models.StatusWon},
		},
		"vvip": {
			{ID: "3", Match: "PSG vs Lyon", Prediction: "Over 2.5 Goals", Status: models.StatusLost},
		},
		"bankerTips": {
			// legacy record without a category field
			{ID: "4", Match: "Ajax vs PSV", Prediction: "BTTS", Status: models.StatusPending},
		},
		"draws": {},
	}
}

func TestRowsAllFlattensInCategoryOrderAndTags(t *testing.T) {
	rows := Rows(sampleCollection(), AllCategories)
	require.Len(t, rows, 4)

	ids := []string{rows[0].ID, rows[1].ID, rows[2].ID, rows[3].ID}
	assert.Equal(t, []string{"1", "2", "4", "3"}, ids)
	assert.Equal(t, "bankerTips", rows[2].Category)
	assert.Equal(t, "vvip", rows[3].Category)
}

func TestRowsSingleCategory(t *testing.T) {
	rows := Rows(sampleCollection(), "vvip")
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].ID)

	assert.Empty(t, Rows(sampleCollection(), "draws"))
	assert.NotNil(t, Rows(sampleCollection(), "correctScores"))
}

func TestSearchMatchesMatchOrPredictionCaseInsensitively(t *testing.T) {
	rows := Rows(sampleCollection(), AllCategories)

	got := Search(rows, "ARSENAL")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = Search(rows, "over 2.5")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	assert.Len(t, Search(rows, "vs"), 4)
	assert.Len(t, Search(rows, ""), 4)
	assert.Empty(t, Search(rows, "barcelona"))
}

func TestSummarizeCountsEveryCategory(t *testing.T) {
	assert.Equal(t, Stats{Total: 4, Pending: 2, Won: 1, Lost: 1}, Summarize(sampleCollection()))
	assert.Equal(t, Stats{}, Summarize(Collection{}))
}

func TestNewFormDefaults(t *testing.T) {
	f := NewForm(time.Date(2024, 6, 9, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-06-09", f.Date)
	assert.Equal(t, models.StatusPending, f.Status)
	assert.Equal(t, "freeTips", f.Category)
	assert.False(t, f.Featured)
	assert.Empty(t, f.Match)
}

func TestFormValidateReportsFirstBlankField(t *testing.T) {
	f := NewForm(time.Now())
	assert.EqualError(t, f.Validate(), "Please enter the match details")

	f.Match = "A vs B"
	f.Prediction = "   "
	assert.EqualError(t, f.Validate(), "Please enter the prediction")

	f.Prediction = "Home Win"
	assert.EqualError(t, f.Validate(), "Please enter the odds")

	f.Odds = "1.5"
	f.Date = ""
	assert.EqualError(t, f.Validate(), "Please select the match date")

	f.Date = "2024-01-01"
	assert.NoError(t, f.Validate())
}

func TestFormFromRecordRoundTrip(t *testing.T) {
	p := models.Prediction{
		ID: "9", Match: "A vs B", Prediction: "Draw", Odds: "3.0", Probability: "30%",
		Category: "draws", Date: "2024-02-02", Status: models.StatusLost, Featured: true, Note: "n",
	}
	f := FormFromRecord(p)
	assert.Equal(t, "draws", f.Category)

	in := f.Input()
	assert.Equal(t, p.Match, in.Match)
	assert.Equal(t, p.Status, in.Status)
	assert.True(t, in.Featured)

	patch := f.Patch("draws")
	assert.Equal(t, "draws", patch.Category)
	require.NotNil(t, patch.Status)
	assert.Equal(t, models.StatusLost, *patch.Status)
	require.NotNil(t, patch.Note)
	assert.Equal(t, "n", *patch.Note)

	legacy := FormFromRecord(models.Prediction{Match: "x"})
	assert.Equal(t, models.StatusPending, legacy.Status)
	assert.Equal(t, "freeTips", legacy.Category)
}
