package dashboard

import (
	"errors"
	"strings"
	"time"

	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/go-playground/validator/v10"
)

// PredictionTypes are the suggested values for the prediction field
var PredictionTypes = []string{
	"Home Win",
	"Away Win",
	"Draw",
	"Over 0.5 Goals",
	"Over 1.5 Goals",
	"Over 2.5 Goals",
	"Over 3.5 Goals",
	"Under 2.5 Goals",
	"Both Teams To Score (Yes)",
	"Both Teams To Score (No)",
	"Double Chance",
	"Correct Score",
	"HT/FT",
	"Corner Over/Under",
	"First Goal Scorer",
	"Total Goals",
	"Asian Handicap",
	"Other",
}

// requiredMessages are shown in field order when a required field is blank
var requiredMessages = map[string]string{
	"Match":      "Please enter the match details",
	"Prediction": "Please enter the prediction",
	"Odds":       "Please enter the odds",
	"Date":       "Please select the match date",
}

var formValidator = validator.New()

// Form is the create/edit state of a prediction
type Form struct {
	Match       string `validate:"required"`
	Prediction  string `validate:"required"`
	Odds        string `validate:"required"`
	Probability string
	Category    string
	Date        string `validate:"required"`
	Status      models.Status
	Featured    bool
	Note        string
}

// NewForm returns the defaults for a new prediction
func NewForm(now time.Time) Form {
	return Form{
		Category: models.Categories[0].ID,
		Date:     now.Format("2006-01-02"),
		Status:   models.StatusPending,
	}
}

// FormFromRecord pre-fills the form for editing p
func FormFromRecord(p models.Prediction) Form {
	f := Form{
		Match:       p.Match,
		Prediction:  p.Prediction,
		Odds:        p.Odds,
		Probability: p.Probability,
		Category:    p.Category,
		Date:        p.Date,
		Status:      p.Status,
		Featured:    p.Featured,
		Note:        p.Note,
	}
	if f.Category == "" {
		f.Category = models.Categories[0].ID
	}
	if f.Status == "" {
		f.Status = models.StatusPending
	}
	return f
}

// Validate reports the first blank required field. Whitespace-only counts as blank.
func (f Form) Validate() error {
	trimmed := f
	trimmed.Match = strings.TrimSpace(f.Match)
	trimmed.Prediction = strings.TrimSpace(f.Prediction)
	trimmed.Odds = strings.TrimSpace(f.Odds)
	trimmed.Date = strings.TrimSpace(f.Date)

	err := formValidator.Struct(trimmed)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := requiredMessages[verrs[0].Field()]; ok {
			return errors.New(msg)
		}
	}
	return err
}

// Input converts the form into a create payload
func (f Form) Input() models.PredictionInput {
	return models.PredictionInput{
		Match:       f.Match,
		Prediction:  f.Prediction,
		Odds:        f.Odds,
		Probability: f.Probability,
		Category:    f.Category,
		Date:        f.Date,
		Status:      f.Status,
		Featured:    f.Featured,
		Note:        f.Note,
	}
}

// Patch converts the form into an update payload for a record stored in category.
// Every field is sent; category only locates the record.
func (f Form) Patch(category string) models.PredictionPatch {
	status := f.Status
	featured := f.Featured
	return models.PredictionPatch{
		Category:    category,
		Match:       &f.Match,
		Prediction:  &f.Prediction,
		Odds:        &f.Odds,
		Probability: &f.Probability,
		Date:        &f.Date,
		Status:      &status,
		Featured:    &featured,
		Note:        &f.Note,
	}
}
