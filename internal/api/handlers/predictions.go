/**
 * @description
 * Prediction API Handlers.
 * CRUD over the category-partitioned prediction store.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 *
 * @notes
 * - PUT and DELETE locate the record by the category in the body, never by id alone.
 * - A category in a PUT body is not merged, so a record cannot change partition.
 */

package handlers

import (
	"errors"

	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// PredictionHandler handles prediction requests
type PredictionHandler struct {
	service *services.PredictionService
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(service *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: service}
}

// CategoryRequest is the body of a delete request
type CategoryRequest struct {
	Category string `json:"category"`
}

// GetPredictions returns one category as an array, or every category keyed by id
// GET /api/predictions?category=<id>
func (h *PredictionHandler) GetPredictions(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "" {
		all, err := h.service.ListAll(c.Context())
		if err != nil {
			return respondError(c, err, "list predictions")
		}
		return c.JSON(all)
	}

	preds, err := h.service.List(c.Context(), category)
	if errors.Is(err, services.ErrInvalidCategory) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return respondError(c, err, "list predictions")
	}
	return c.JSON(preds)
}

// GetCategories returns the fixed category list with display names
// GET /api/categories
func (h *PredictionHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(models.Categories)
}

// CreatePrediction appends a prediction to the category named in the body
// POST /api/predictions
func (h *PredictionHandler) CreatePrediction(c *fiber.Ctx) error {
	var req models.PredictionInput
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rec, err := h.service.Create(c.Context(), req)
	if err != nil {
		return respondError(c, err, "create prediction")
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// UpdatePrediction merges the body into an existing prediction
// PUT /api/predictions/:id
func (h *PredictionHandler) UpdatePrediction(c *fiber.Ctx) error {
	var req models.PredictionPatch
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rec, err := h.service.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "update prediction")
	}
	return c.JSON(rec)
}

// DeletePrediction removes a prediction from the category named in the body.
// ?category= is accepted for clients that cannot send a DELETE body.
// DELETE /api/predictions/:id
func (h *PredictionHandler) DeletePrediction(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Category == "" {
		req.Category = c.Query("category")
	}

	rec, err := h.service.Delete(c.Context(), req.Category, c.Params("id"))
	if err != nil {
		return respondError(c, err, "delete prediction")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"deleted": rec,
	})
}

// parseBody decodes a non-empty body; an empty body leaves out untouched
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// respondError maps service errors onto HTTP statuses with an {"error"} body
func respondError(c *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, services.ErrInvalidCategory):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("PredictionHandler: Failed to %s: %v", op, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
