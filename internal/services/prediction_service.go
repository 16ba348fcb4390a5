/**
 * @description
 * Prediction Service.
 * Sits between the HTTP handlers and the record store: validates categories and
 * required fields, classifies store errors and logs every mutation.
 *
 * @dependencies
 * - github.com/go-playground/validator/v10: presence checks on create
 * - backend/internal/store
 * - backend/internal/models
 *
 * @notes
 * - Category is checked before any field so a bad category always wins with "Invalid category".
 * - Status values are not restricted; the dashboard only ever sends Pending, Won or Lost.
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/store"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidCategory is returned when the category is missing or not one of models.Categories
	ErrInvalidCategory = errors.New("Invalid category")
	// ErrNotFound is returned when the id is not present in the given category
	ErrNotFound = errors.New("Prediction not found")
	// ErrInvalidInput is returned when a required field is empty
	ErrInvalidInput = errors.New("invalid input")
)

// PredictionService handles prediction CRUD on top of a store.Store
type PredictionService struct {
	store    store.Store
	validate *validator.Validate
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(s store.Store) *PredictionService {
	return &PredictionService{
		store:    s,
		validate: NewValidator(),
	}
}

// NewValidator returns a validator that reports fields by their JSON name
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// List returns the ordered predictions of one category
func (s *PredictionService) List(ctx context.Context, category string) ([]models.Prediction, error) {
	preds, err := s.store.ListCategory(ctx, category)
	if err != nil {
		return nil, classify(err)
	}
	return preds, nil
}

// ListAll returns every category keyed by id, empty categories included
func (s *PredictionService) ListAll(ctx context.Context) (map[string][]models.Prediction, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return all, nil
}

// Create appends a new prediction to in.Category
func (s *PredictionService) Create(ctx context.Context, in models.PredictionInput) (*models.Prediction, error) {
	if !models.IsValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	// whitespace-only counts as missing, matching the dashboard form
	checked := in
	checked.Match = strings.TrimSpace(in.Match)
	checked.Prediction = strings.TrimSpace(in.Prediction)
	checked.Odds = strings.TrimSpace(in.Odds)
	checked.Date = strings.TrimSpace(in.Date)
	if err := s.validate.Struct(checked); err != nil {
		return nil, describeValidation(err)
	}

	rec, err := s.store.Append(ctx, in.Category, in)
	if err != nil {
		logger.Error("PredictionService: Failed to create prediction in %s: %v", in.Category, err)
		return nil, classify(err)
	}

	logger.Info("PredictionService: Created prediction %s in %s", rec.ID, rec.Category)
	return rec, nil
}

// Update merges patch into the prediction id found in patch.Category
func (s *PredictionService) Update(ctx context.Context, id string, patch models.PredictionPatch) (*models.Prediction, error) {
	if !models.IsValidCategory(patch.Category) {
		return nil, ErrInvalidCategory
	}

	rec, err := s.store.Update(ctx, patch.Category, id, patch)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("PredictionService: Failed to update prediction %s in %s: %v", id, patch.Category, err)
		}
		return nil, classify(err)
	}

	logger.Info("PredictionService: Updated prediction %s in %s", rec.ID, rec.Category)
	return rec, nil
}

// Delete removes the prediction id from category and returns it
func (s *PredictionService) Delete(ctx context.Context, category, id string) (*models.Prediction, error) {
	if !models.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	rec, err := s.store.Remove(ctx, category, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("PredictionService: Failed to delete prediction %s in %s: %v", id, category, err)
		}
		return nil, classify(err)
	}

	logger.Info("PredictionService: Deleted prediction %s from %s", rec.ID, category)
	return rec, nil
}

// classify maps store sentinels onto the service sentinels and passes anything else through
func classify(err error) error {
	switch {
	case errors.Is(err, store.ErrUnknownCategory):
		return ErrInvalidCategory
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(fields, ", "))
}
