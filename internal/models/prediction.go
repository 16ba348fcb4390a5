/**
 * @description
 * Prediction record models.
 * A Prediction lives in exactly one category partition; the category list is fixed
 * configuration and never changes at runtime.
 *
 * @dependencies
 * - standard "time"
 */

package models

import "time"

// Status is the settlement state of a prediction
type Status string

const (
	StatusPending Status = "Pending"
	StatusWon     Status = "Won"
	StatusLost    Status = "Lost"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusPending, StatusWon, StatusLost}

// Prediction is a single tip stored in a category partition
type Prediction struct {
	ID          string    `json:"id"`
	Match       string    `json:"match"`
	Prediction  string    `json:"prediction"`
	Odds        string    `json:"odds"`
	Probability string    `json:"probability"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Status      Status    `json:"status"`
	Featured    bool      `json:"featured"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Extra       Extra     `json:"-"`
}

// PredictionInput is the payload used to create a prediction.
// Only presence is checked; odds and probability are kept as text.
type PredictionInput struct {
	Match       string `json:"match" validate:"required"`
	Prediction  string `json:"prediction" validate:"required"`
	Odds        string `json:"odds" validate:"required"`
	Probability string `json:"probability"`
	Category    string `json:"category"`
	Date        string `json:"date" validate:"required"`
	Status      Status `json:"status"`
	Featured    bool   `json:"featured"`
	Note        string `json:"note"`
	Extra       Extra  `json:"-" validate:"-"`
}

// NewPrediction builds the stored record for an input. Status falls back to Pending.
func (in PredictionInput) NewPrediction(id, category string, now time.Time) Prediction {
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	return Prediction{
		ID:          id,
		Match:       in.Match,
		Prediction:  in.Prediction,
		Odds:        in.Odds,
		Probability: in.Probability,
		Category:    category,
		Date:        in.Date,
		Status:      status,
		Featured:    in.Featured,
		Note:        in.Note,
		CreatedAt:   now,
		UpdatedAt:   now,
		Extra:       in.Extra.Clone(),
	}
}

// PredictionPatch carries the fields of an update. Nil fields are left untouched;
// extra members are merged over the record's own.
// Category only locates the record and is never merged.
type PredictionPatch struct {
	Category    string  `json:"category"`
	Match       *string `json:"match,omitempty"`
	Prediction  *string `json:"prediction,omitempty"`
	Odds        *string `json:"odds,omitempty"`
	Probability *string `json:"probability,omitempty"`
	Date        *string `json:"date,omitempty"`
	Status      *Status `json:"status,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
	Note        *string `json:"note,omitempty"`
	Extra       Extra   `json:"-"`
}

// Apply merges the supplied fields over p and stamps UpdatedAt.
func (patch PredictionPatch) Apply(p *Prediction, now time.Time) {
	if patch.Match != nil {
		p.Match = *patch.Match
	}
	if patch.Prediction != nil {
		p.Prediction = *patch.Prediction
	}
	if patch.Odds != nil {
		p.Odds = *patch.Odds
	}
	if patch.Probability != nil {
		p.Probability = *patch.Probability
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Note != nil {
		p.Note = *patch.Note
	}
	if len(patch.Extra) > 0 {
		merged := p.Extra.Clone()
		if merged == nil {
			merged = Extra{}
		}
		for k, v := range patch.Extra {
			merged[k] = v
		}
		p.Extra = merged
	}
	p.UpdatedAt = now
}
