package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/checklist"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrPropertyIDRequired = errors.New("property id is required")
	ErrCreatedByRequired  = errors.New("created by is required")
	ErrInvalidType        = errors.New("inspection type must be initial or final")
	ErrNotFound           = errors.New("inspection not found")
	ErrZoneNotFound       = errors.New("zone not found")
	ErrAlreadyCompleted   = errors.New("inspection is already completed")
	ErrInvalidDocument    = errors.New("invalid checklist document")
	ErrInvalidZone        = errors.New("invalid zone")
)

// ChecklistIncompleteError is returned by Complete when at least one section
// still has unreported constructs. Sections lists them in canonical order.
type ChecklistIncompleteError struct {
	Sections []checklist.SectionID
}

func (e *ChecklistIncompleteError) Error() string {
	parts := make([]string, len(e.Sections))
	for i, s := range e.Sections {
		parts[i] = string(s)
	}
	return "checklist incomplete: " + strings.Join(parts, ", ")
}

// CreateInput carries everything needed to open a new inspection.
type CreateInput struct {
	PropertyID string               `json:"property_id"`
	Type       model.InspectionType `json:"inspection_type"`
	CreatedBy  string               `json:"created_by"`
	Facts      model.PropertyFacts  `json:"facts"`
}

// InspectionView is the service-level DTO every operation resolves to: the
// inspection row, the checklist rebuilt from the store, and the derived
// completeness state. Returning the whole view keeps clients from having to
// re-derive any of it after a write.
type InspectionView struct {
	Inspection  *model.Inspection                          `json:"inspection"`
	Document    checklist.Document                         `json:"checklist"`
	Sections    map[checklist.SectionID]checklist.Progress `json:"sections"`
	Overall     checklist.Progress                         `json:"overall"`
	CanComplete bool                                       `json:"can_complete"`
	Unreported  []checklist.SectionID                      `json:"unreported_sections"`
}

// InspectionService defines the use cases for managing inspections and their
// checklists.
type InspectionService interface {
	// Create opens a new in-progress inspection for a (property, type) pair.
	// If one already exists the existing inspection is returned instead of
	// an error; creation is effectively get-or-create.
	Create(ctx context.Context, in CreateInput) (*InspectionView, error)

	// Fetch returns the inspection for a (property, type) pair with its
	// checklist rebuilt from stored rows.
	Fetch(ctx context.Context, propertyID string, typ model.InspectionType, facts model.PropertyFacts) (*InspectionView, error)

	// Update applies a partial update to the inspection row.
	Update(ctx context.Context, id string, patch repository.InspectionPatch, facts model.PropertyFacts) (*InspectionView, error)

	// Complete marks an inspection completed. Fails with
	// *ChecklistIncompleteError while any section is unreported.
	Complete(ctx context.Context, id string, facts model.PropertyFacts) (*InspectionView, error)

	// SaveDocument persists a full checklist document: zones are created on
	// first sight, elements upserted by name, rows the document no longer
	// produces deleted, and dynamic zones beyond the property's current room
	// counts pruned.
	SaveDocument(ctx context.Context, id string, doc checklist.Document, facts model.PropertyFacts) (*InspectionView, error)

	// CreateZone adds a single zone row directly.
	CreateZone(ctx context.Context, inspectionID string, zoneType model.ZoneType, name string, facts model.PropertyFacts) (*InspectionView, error)

	// RenameZone changes a zone's display name.
	RenameZone(ctx context.Context, inspectionID, zoneID, name string, facts model.PropertyFacts) (*InspectionView, error)

	// DeleteZone removes a zone and its elements.
	DeleteZone(ctx context.Context, inspectionID, zoneID string, facts model.PropertyFacts) (*InspectionView, error)

	// UpsertElement writes one element by its (zone, name) key.
	UpsertElement(ctx context.Context, inspectionID string, e model.Element, facts model.PropertyFacts) (*InspectionView, error)

	// UpdateElement rewrites one element's value fields by id.
	UpdateElement(ctx context.Context, inspectionID string, e model.Element, facts model.PropertyFacts) (*InspectionView, error)

	// DeleteElement removes one element by id.
	DeleteElement(ctx context.Context, inspectionID, elementID string, facts model.PropertyFacts) (*InspectionView, error)
}

// inspectionService is a concrete implementation of InspectionService.
type inspectionService struct {
	inspections repository.InspectionRepository
	zones       repository.ZoneRepository
	elements    repository.ElementRepository
	log         *zap.Logger
}

// NewInspectionService constructs a new InspectionService. A nil logger is
// replaced with a no-op one.
func NewInspectionService(inspections repository.InspectionRepository, zones repository.ZoneRepository, elements repository.ElementRepository, log *zap.Logger) InspectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &inspectionService{inspections: inspections, zones: zones, elements: elements, log: log}
}

func (s *inspectionService) Create(ctx context.Context, in CreateInput) (*InspectionView, error) {
	if in.PropertyID == "" {
		return nil, ErrPropertyIDRequired
	}
	if in.CreatedBy == "" {
		return nil, ErrCreatedByRequired
	}
	if in.Type != model.InspectionTypeInitial && in.Type != model.InspectionTypeFinal {
		return nil, ErrInvalidType
	}

	elevator := in.Facts.HasElevator
	ins := &model.Inspection{
		ID:           uuid.New().String(),
		PropertyID:   in.PropertyID,
		Type:         in.Type,
		Status:       model.InspectionStatusInProgress,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    time.Now().UTC(),
		HasElevator:  &elevator,
		PublicLinkID: uuid.New().String(),
	}

	stored, err := s.inspections.Create(ctx, ins)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a create race or the pair already exists; hand back the
		// winner's row.
		existing, ferr := s.inspections.FindByProperty(ctx, in.PropertyID, in.Type)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		s.log.Info("create resolved to existing inspection",
			zap.String("property_id", in.PropertyID),
			zap.String("inspection_type", string(in.Type)))
		return s.viewFor(ctx, existing, in.Facts)
	}
	if err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}
	return s.viewFor(ctx, stored, in.Facts)
}

func (s *inspectionService) Fetch(ctx context.Context, propertyID string, typ model.InspectionType, facts model.PropertyFacts) (*InspectionView, error) {
	if propertyID == "" {
		return nil, ErrPropertyIDRequired
	}
	ins, err := s.inspections.FindByProperty(ctx, propertyID, typ)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, ErrNotFound
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) Update(ctx context.Context, id string, patch repository.InspectionPatch, facts model.PropertyFacts) (*InspectionView, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ins, err := s.inspections.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, ErrNotFound
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) Complete(ctx context.Context, id string, facts model.PropertyFacts) (*InspectionView, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, ErrNotFound
	}
	if ins.Status == model.InspectionStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	view, err := s.viewFor(ctx, ins, facts)
	if err != nil {
		return nil, err
	}
	if !view.CanComplete {
		return nil, &ChecklistIncompleteError{Sections: view.Unreported}
	}

	status := model.InspectionStatusCompleted
	now := time.Now().UTC()
	updated, err := s.inspections.Update(ctx, id, repository.InspectionPatch{
		Status:      &status,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("complete inspection: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.log.Info("inspection completed", zap.String("inspection_id", id))
	view.Inspection = updated
	return view, nil
}

func (s *inspectionService) SaveDocument(ctx context.Context, id string, doc checklist.Document, facts model.PropertyFacts) (*InspectionView, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, ErrNotFound
	}

	rows, err := checklist.ToRows(doc, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	existing, err := s.zones.ListByInspection(ctx, id)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]model.Zone, len(existing))
	for _, z := range existing {
		byName[z.Name] = z
	}

	if err := s.pruneShrunkZones(ctx, existing, byName, facts); err != nil {
		return nil, err
	}

	for _, zr := range rows {
		z, ok := byName[zr.Zone.Name]
		if !ok {
			nz := zr.Zone
			nz.ID = uuid.New().String()
			created, err := s.zones.Create(ctx, &nz)
			if err != nil {
				return nil, fmt.Errorf("create zone %q: %w", nz.Name, err)
			}
			z = *created
			byName[z.Name] = z
		}

		keep := make([]string, 0, len(zr.Elements))
		for i := range zr.Elements {
			e := zr.Elements[i]
			e.ZoneID = z.ID
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			if _, err := s.elements.Upsert(ctx, &e); err != nil {
				return nil, fmt.Errorf("upsert element %q: %w", e.Name, err)
			}
			keep = append(keep, e.Name)
		}
		if err := s.elements.DeleteByZoneExcept(ctx, z.ID, keep); err != nil {
			return nil, fmt.Errorf("trim zone %q: %w", z.Name, err)
		}
	}

	s.log.Debug("checklist saved",
		zap.String("inspection_id", id),
		zap.Int("zones", len(rows)))
	return s.viewFor(ctx, ins, facts)
}

// pruneShrunkZones drops dynamic zone rows whose instance index exceeds the
// property's current room count. Fixed zones and in-range instances are never
// touched here.
func (s *inspectionService) pruneShrunkZones(ctx context.Context, existing []model.Zone, byName map[string]model.Zone, facts model.PropertyFacts) error {
	for _, z := range existing {
		sec := checklist.SectionFor(z.Type)
		if !checklist.IsDynamic(sec) {
			continue
		}
		capacity := facts.Bedrooms
		if sec == checklist.SectionBathroom {
			capacity = facts.Bathrooms
		}
		idx, err := checklist.InstanceIndex(z.Name)
		if err != nil {
			return err
		}
		if idx <= capacity {
			continue
		}
		if err := s.zones.Delete(ctx, z.ID); err != nil {
			return fmt.Errorf("prune zone %q: %w", z.Name, err)
		}
		delete(byName, z.Name)
		s.log.Info("pruned out-of-range zone",
			zap.String("zone_name", z.Name),
			zap.Int("capacity", capacity))
	}
	return nil
}

func (s *inspectionService) CreateZone(ctx context.Context, inspectionID string, zoneType model.ZoneType, name string, facts model.PropertyFacts) (*InspectionView, error) {
	ins, err := s.requireInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("zone name is required")
	}
	if !checklist.KnownZoneType(zoneType) {
		return nil, fmt.Errorf("unknown zone type %q", zoneType)
	}
	existing, err := s.zones.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if err := validateNewZone(existing, zoneType, name); err != nil {
		return nil, err
	}
	z := &model.Zone{
		ID:           uuid.New().String(),
		InspectionID: inspectionID,
		Type:         zoneType,
		Name:         name,
	}
	if _, err := s.zones.Create(ctx, z); err != nil {
		return nil, fmt.Errorf("create zone: %w", err)
	}
	return s.viewFor(ctx, ins, facts)
}

// validateNewZone rejects zone rows that would make the stored set
// unloadable: a second zone of a fixed type, or a dynamic zone whose name
// does not carry the next contiguous 1-based instance index.
func validateNewZone(existing []model.Zone, zoneType model.ZoneType, name string) error {
	sec := checklist.SectionFor(zoneType)
	if !checklist.IsDynamic(sec) {
		for _, z := range existing {
			if z.Type == zoneType {
				return fmt.Errorf("%w: a zone of type %q already exists", ErrInvalidZone, zoneType)
			}
		}
		return nil
	}
	idx, err := checklist.InstanceIndex(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidZone, err)
	}
	count := 0
	for _, z := range existing {
		if z.Type == zoneType {
			count++
		}
	}
	if idx != count+1 {
		return fmt.Errorf("%w: zone %q must be instance %d", ErrInvalidZone, name, count+1)
	}
	return nil
}

func (s *inspectionService) RenameZone(ctx context.Context, inspectionID, zoneID, name string, facts model.PropertyFacts) (*InspectionView, error) {
	ins, err := s.requireInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if zoneID == "" || name == "" {
		return nil, ErrIDRequired
	}
	existing, err := s.zones.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	var target *model.Zone
	for i := range existing {
		if existing[i].ID == zoneID {
			target = &existing[i]
			break
		}
	}
	if target == nil {
		return nil, ErrZoneNotFound
	}
	if checklist.IsDynamic(checklist.SectionFor(target.Type)) {
		idx, err := checklist.InstanceIndex(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidZone, err)
		}
		cur, err := checklist.InstanceIndex(target.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidZone, err)
		}
		if idx != cur {
			return nil, fmt.Errorf("%w: renaming cannot move instance %d to %d", ErrInvalidZone, cur, idx)
		}
	}
	if err := s.zones.UpdateName(ctx, zoneID, name); err != nil {
		return nil, err
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) DeleteZone(ctx context.Context, inspectionID, zoneID string, facts model.PropertyFacts) (*InspectionView, error) {
	ins, err := s.requireInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if zoneID == "" {
		return nil, ErrIDRequired
	}
	if err := s.zones.Delete(ctx, zoneID); err != nil {
		return nil, err
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) UpsertElement(ctx context.Context, inspectionID string, e model.Element, facts model.PropertyFacts) (*InspectionView, error) {
	ins, err := s.requireInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if e.ZoneID == "" || e.Name == "" {
		return nil, errors.New("zone id and element name are required")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if _, err := s.elements.Upsert(ctx, &e); err != nil {
		return nil, fmt.Errorf("upsert element: %w", err)
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) UpdateElement(ctx context.Context, inspectionID string, e model.Element, facts model.PropertyFacts) (*InspectionView, error) {
	ins, err := s.requireInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, ErrIDRequired
	}
	if err := s.elements.Update(ctx, &e); err != nil {
		return nil, err
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) DeleteElement(ctx context.Context, inspectionID, elementID string, facts model.PropertyFacts) (*InspectionView, error) {
	ins, err := s.requireInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if elementID == "" {
		return nil, ErrIDRequired
	}
	if err := s.elements.Delete(ctx, elementID); err != nil {
		return nil, err
	}
	return s.viewFor(ctx, ins, facts)
}

func (s *inspectionService) requireInspection(ctx context.Context, id string) (*model.Inspection, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ins == nil {
		return nil, ErrNotFound
	}
	return ins, nil
}

// viewFor loads the inspection's stored rows, rebuilds the checklist and
// derives its completeness state. Every mutating operation ends here so the
// view always reflects what the store holds, not what the caller sent.
func (s *inspectionService) viewFor(ctx context.Context, ins *model.Inspection, facts model.PropertyFacts) (*InspectionView, error) {
	zones, err := s.zones.ListByInspection(ctx, ins.ID)
	if err != nil {
		return nil, err
	}
	zoneIDs := make([]string, len(zones))
	for i, z := range zones {
		zoneIDs[i] = z.ID
	}
	els, err := s.elements.ListByZones(ctx, zoneIDs)
	if err != nil {
		return nil, err
	}
	byZone := make(map[string][]model.Element, len(zones))
	for _, e := range els {
		byZone[e.ZoneID] = append(byZone[e.ZoneID], e)
	}

	doc, err := checklist.FromRows(zones, byZone, facts)
	if err != nil {
		return nil, fmt.Errorf("rebuild checklist: %w", err)
	}

	unreported := checklist.UnreportedSections(doc)
	return &InspectionView{
		Inspection:  ins,
		Document:    doc,
		Sections:    checklist.SectionProgress(doc),
		Overall:     checklist.OverallProgress(doc),
		CanComplete: len(unreported) == 0,
		Unreported:  unreported,
	}, nil
}
