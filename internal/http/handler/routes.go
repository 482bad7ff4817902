package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/checklist"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, call the service, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.InspectionService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/inspections", CreateInspection(svc))
	app.Get("/inspections/:propertyID/:type", GetInspection(svc))
	app.Patch("/inspections/:id", UpdateInspection(svc))
	app.Post("/inspections/:id/complete", CompleteInspection(svc))
	app.Put("/inspections/:id/checklist", SaveChecklist(svc))

	app.Post("/inspections/:id/zones", CreateZone(svc))
	app.Patch("/inspections/:id/zones/:zoneID", RenameZone(svc))
	app.Delete("/inspections/:id/zones/:zoneID", DeleteZone(svc))

	app.Put("/inspections/:id/elements", UpsertElement(svc))
	app.Patch("/inspections/:id/elements/:elementID", UpdateElement(svc))
	app.Delete("/inspections/:id/elements/:elementID", DeleteElement(svc))
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe without dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type createInspectionRequest struct {
	PropertyID string              `json:"property_id"`
	Type       string              `json:"inspection_type"`
	CreatedBy  string              `json:"created_by"`
	Facts      model.PropertyFacts `json:"facts"`
}

// CreateInspection opens a new inspection, or returns the existing one for
// the same (property, type) pair.
func CreateInspection(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createInspectionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		view, err := svc.Create(c.UserContext(), service.CreateInput{
			PropertyID: req.PropertyID,
			Type:       model.InspectionType(req.Type),
			CreatedBy:  req.CreatedBy,
			Facts:      req.Facts,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GetInspection returns an inspection with its checklist rebuilt from stored
// rows. Room counts come from the query string because the property record
// lives in another system.
func GetInspection(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID := c.Params("propertyID")
		typ := model.InspectionType(c.Params("type"))
		if typ != model.InspectionTypeInitial && typ != model.InspectionTypeFinal {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE", "inspection type must be initial or final")
		}
		view, err := svc.Fetch(c.UserContext(), propertyID, typ, factsFromQuery(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

type updateInspectionRequest struct {
	Status      *string             `json:"inspection_status"`
	HasElevator *bool               `json:"has_elevator"`
	Facts       model.PropertyFacts `json:"facts"`
}

// UpdateInspection applies a partial update to the inspection row.
func UpdateInspection(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateInspectionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		patch := repository.InspectionPatch{HasElevator: req.HasElevator}
		if req.Status != nil {
			status := model.InspectionStatus(*req.Status)
			if status != model.InspectionStatusInProgress && status != model.InspectionStatusCompleted {
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown inspection status")
			}
			patch.Status = &status
		}
		view, err := svc.Update(c.UserContext(), id, patch, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

type factsRequest struct {
	Facts model.PropertyFacts `json:"facts"`
}

// CompleteInspection marks an inspection completed once every section is
// reported. A blocked completion returns 409 with the unreported sections.
func CompleteInspection(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req factsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		view, err := svc.Complete(c.UserContext(), id, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

type saveChecklistRequest struct {
	Facts     model.PropertyFacts `json:"facts"`
	Checklist checklist.Document  `json:"checklist"`
}

// SaveChecklist persists a full checklist document in one request.
func SaveChecklist(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req saveChecklistRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		view, err := svc.SaveDocument(c.UserContext(), id, req.Checklist, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

type createZoneRequest struct {
	ZoneType string              `json:"zone_type"`
	ZoneName string              `json:"zone_name"`
	Facts    model.PropertyFacts `json:"facts"`
}

// CreateZone adds one zone row directly.
func CreateZone(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req createZoneRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		view, err := svc.CreateZone(c.UserContext(), id, model.ZoneType(req.ZoneType), req.ZoneName, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

type renameZoneRequest struct {
	ZoneName string              `json:"zone_name"`
	Facts    model.PropertyFacts `json:"facts"`
}

// RenameZone changes a zone's display name.
func RenameZone(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req renameZoneRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		view, err := svc.RenameZone(c.UserContext(), id, c.Params("zoneID"), req.ZoneName, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

// DeleteZone removes a zone and its elements.
func DeleteZone(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.DeleteZone(c.UserContext(), id, c.Params("zoneID"), factsFromQuery(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

type elementRequest struct {
	Element model.Element       `json:"element"`
	Facts   model.PropertyFacts `json:"facts"`
}

// UpsertElement writes one element by its (zone, name) key.
func UpsertElement(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req elementRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		view, err := svc.UpsertElement(c.UserContext(), id, req.Element, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

// UpdateElement rewrites one element's value fields by id.
func UpdateElement(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req elementRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		req.Element.ID = c.Params("elementID")
		view, err := svc.UpdateElement(c.UserContext(), id, req.Element, req.Facts)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

// DeleteElement removes one element by id.
func DeleteElement(svc service.InspectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.DeleteElement(c.UserContext(), id, c.Params("elementID"), factsFromQuery(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(view)
	}
}

// factsFromQuery reads the property facts off the query string for read and
// delete requests that carry no body.
func factsFromQuery(c *fiber.Ctx) model.PropertyFacts {
	return model.PropertyFacts{
		Bedrooms:    c.QueryInt("bedrooms"),
		Bathrooms:   c.QueryInt("bathrooms"),
		HasElevator: c.QueryBool("has_elevator"),
	}
}

// serviceError translates service failures into the standard error envelope.
func serviceError(c *fiber.Ctx, err error) error {
	var incomplete *service.ChecklistIncompleteError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "inspection not found")
	case errors.Is(err, service.ErrZoneNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "zone not found")
	case errors.Is(err, service.ErrInvalidZone):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ZONE", err.Error())
	case errors.As(err, &incomplete):
		return writeIncomplete(c, incomplete.Sections)
	case errors.Is(err, service.ErrAlreadyCompleted):
		return writeError(c, fiber.StatusConflict, "ALREADY_COMPLETED", "inspection is already completed")
	case errors.Is(err, service.ErrInvalidDocument):
		return writeError(c, fiber.StatusBadRequest, "INVALID_CHECKLIST", "checklist document is invalid")
	case errors.Is(err, service.ErrPropertyIDRequired),
		errors.Is(err, service.ErrCreatedByRequired),
		errors.Is(err, service.ErrInvalidType),
		errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
