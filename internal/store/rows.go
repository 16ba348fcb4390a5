package store

import (
	"fmt"
	"time"

	"github.com/dhrone-predicts/backend/internal/models"
)

// predictionRow is the relational layout shared by the SQL backends.
// Rows are partitioned by category and ordered by position within it.
type predictionRow struct {
	Category    string    `gorm:"column:category;primaryKey;size:64"`
	ID          string    `gorm:"column:id;primaryKey;size:64"`
	Position    int64     `gorm:"column:position;not null;index:idx_prediction_rows_position"`
	Match       string    `gorm:"column:match_name;not null"`
	Prediction  string    `gorm:"column:prediction_text;not null"`
	Odds        string    `gorm:"column:odds;not null"`
	Probability string    `gorm:"column:probability;not null;default:''"`
	Date        string    `gorm:"column:match_date;not null"`
	Status      string    `gorm:"column:status;not null"`
	Featured    bool      `gorm:"column:featured;not null;default:false"`
	Note        string    `gorm:"column:note;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
	// JSON object of members outside the known columns, "" when none
	Extra string `gorm:"column:extra;not null;default:''"`
}

// TableName overrides the table name used by predictionRow
func (predictionRow) TableName() string {
	return "prediction_rows"
}

func rowFromModel(p models.Prediction, category string, position int64) (predictionRow, error) {
	extra, err := p.Extra.Encode()
	if err != nil {
		return predictionRow{}, fmt.Errorf("encode extra fields of %s: %w", p.ID, err)
	}
	return predictionRow{
		Category:    category,
		ID:          p.ID,
		Position:    position,
		Match:       p.Match,
		Prediction:  p.Prediction,
		Odds:        p.Odds,
		Probability: p.Probability,
		Date:        p.Date,
		Status:      string(p.Status),
		Featured:    p.Featured,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Extra:       extra,
	}, nil
}

func (r predictionRow) toModel() (models.Prediction, error) {
	extra, err := models.DecodeExtra(r.Extra)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("decode extra fields of %s: %w", r.ID, err)
	}
	return models.Prediction{
		ID:          r.ID,
		Match:       r.Match,
		Prediction:  r.Prediction,
		Odds:        r.Odds,
		Probability: r.Probability,
		Category:    r.Category,
		Date:        r.Date,
		Status:      models.Status(r.Status),
		Featured:    r.Featured,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		Extra:       extra,
	}, nil
}

func rowsToModels(rows []predictionRow) ([]models.Prediction, error) {
	preds := make([]models.Prediction, 0, len(rows))
	for _, r := range rows {
		p, err := r.toModel()
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}
