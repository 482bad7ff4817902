package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"
	"errors"
	"time"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
)

// ErrDuplicate is returned by Create when a row already exists for the unique
// key. The store enforces one inspection per (property, type), so a create
// race surfaces here instead of producing duplicates.
var ErrDuplicate = errors.New("row already exists")

// InspectionPatch holds the mutable inspection fields. Nil fields are left
// untouched.
type InspectionPatch struct {
	Status      *model.InspectionStatus
	CompletedAt *time.Time
	HasElevator *bool
}

// InspectionRepository defines persistence for the Inspection aggregate using
// SQL queries only. No business logic here. Lookups return (nil, nil) when no
// row matches: absence is an expected outcome, not an error.
type InspectionRepository interface {
	// Create inserts a new inspection row. Returns ErrDuplicate when one
	// already exists for the same (property, type) pair. Implementations
	// tolerate schema drift on the drift-prone columns with a single
	// reduced-payload retry; the returned inspection reflects what was
	// actually written.
	Create(ctx context.Context, ins *model.Inspection) (*model.Inspection, error)

	// FindByID returns an inspection by primary key, or (nil, nil).
	FindByID(ctx context.Context, id string) (*model.Inspection, error)

	// FindByProperty returns the inspection for a (property, type) pair, or
	// (nil, nil). When the type column is missing at runtime the lookup is
	// retried without that filter.
	FindByProperty(ctx context.Context, propertyID string, typ model.InspectionType) (*model.Inspection, error)

	// Update applies the non-nil patch fields and returns the stored row.
	Update(ctx context.Context, id string, patch InspectionPatch) (*model.Inspection, error)
}

// ZoneRepository defines persistence for zones.
type ZoneRepository interface {
	// Create inserts a zone row and returns it with its assigned id.
	Create(ctx context.Context, z *model.Zone) (*model.Zone, error)

	// ListByInspection returns all zones of one inspection, ordered by name.
	ListByInspection(ctx context.Context, inspectionID string) ([]model.Zone, error)

	// UpdateName renames a zone.
	UpdateName(ctx context.Context, id, name string) error

	// Delete removes a zone and, through the store's cascade, its elements.
	// Deleting an absent zone is not an error.
	Delete(ctx context.Context, id string) error
}

// ElementRepository defines persistence for elements. (zone_id, element_name)
// is the upsert key.
type ElementRepository interface {
	// Upsert inserts or overwrites the element identified by
	// (ZoneID, Name) and returns the stored row. Last write wins.
	Upsert(ctx context.Context, e *model.Element) (*model.Element, error)

	// ListByZones returns all elements belonging to the given zones.
	ListByZones(ctx context.Context, zoneIDs []string) ([]model.Element, error)

	// Update rewrites the value fields of an element by id.
	Update(ctx context.Context, e *model.Element) error

	// Delete removes an element by id. Absent rows are not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByZoneExcept removes every element of a zone whose name is not in
	// keep. Used to drop rows the converter no longer emits.
	DeleteByZoneExcept(ctx context.Context, zoneID string, keep []string) error
}
