package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/checklist"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
	repoMocks "github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository/mocks"
)

func strPtr(s string) *string { return &s }

func newMocks() (*repoMocks.MockInspectionRepository, *repoMocks.MockZoneRepository, *repoMocks.MockElementRepository, InspectionService) {
	mi := new(repoMocks.MockInspectionRepository)
	mz := new(repoMocks.MockZoneRepository)
	me := new(repoMocks.MockElementRepository)
	return mi, mz, me, NewInspectionService(mi, mz, me, nil)
}

// emptyStore wires the zone and element mocks to behave like a store with no
// rows yet, which every view rebuild hits.
func emptyStore(ctx context.Context, mz *repoMocks.MockZoneRepository, me *repoMocks.MockElementRepository) {
	mz.On("ListByInspection", ctx, mock.Anything).Return([]model.Zone{}, nil)
	me.On("ListByZones", ctx, mock.Anything).Return([]model.Element{}, nil)
}

// completeStore returns zone and element rows for an inspection whose eight
// sections each carry one reported question, i.e. a checklist that passes the
// completeness gate with one bedroom and one bathroom.
func completeStore(inspectionID string) ([]model.Zone, []model.Element) {
	specs := []struct {
		id   string
		typ  model.ZoneType
		name string
	}{
		{"z1", model.ZoneSurroundings, "Surroundings"},
		{"z2", model.ZoneGeneralState, "General state"},
		{"z3", model.ZoneEntryHallway, "Entry hallway"},
		{"z4", model.ZoneBedroom, "Bedroom 1"},
		{"z5", model.ZoneLivingRoom, "Living room"},
		{"z6", model.ZoneBathroom, "Bathroom 1"},
		{"z7", model.ZoneKitchen, "Kitchen"},
		{"z8", model.ZoneExterior, "Exterior"},
	}
	zones := make([]model.Zone, 0, len(specs))
	elements := make([]model.Element, 0, len(specs))
	for _, sp := range specs {
		zones = append(zones, model.Zone{
			ID: sp.id, InspectionID: inspectionID, Type: sp.typ, Name: sp.name,
		})
		elements = append(elements, model.Element{
			ID:        "e-" + sp.id,
			ZoneID:    sp.id,
			Name:      "estado",
			Condition: strPtr("bueno"),
		})
	}
	return zones, elements
}

func TestInspectionService_Create(t *testing.T) {
	ctx := context.Background()
	facts := model.PropertyFacts{Bedrooms: 2, Bathrooms: 1, HasElevator: true}

	t.Run("validation", func(t *testing.T) {
		_, _, _, svc := newMocks()

		_, err := svc.Create(ctx, CreateInput{Type: model.InspectionTypeInitial, CreatedBy: "u1"})
		assert.ErrorIs(t, err, ErrPropertyIDRequired)

		_, err = svc.Create(ctx, CreateInput{PropertyID: "p1", Type: model.InspectionTypeInitial})
		assert.ErrorIs(t, err, ErrCreatedByRequired)

		_, err = svc.Create(ctx, CreateInput{PropertyID: "p1", CreatedBy: "u1", Type: "midway"})
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("happy path", func(t *testing.T) {
		mi, mz, me, svc := newMocks()

		mi.On("Create", ctx, mock.MatchedBy(func(ins *model.Inspection) bool {
			return ins.PropertyID == "p1" &&
				ins.Type == model.InspectionTypeInitial &&
				ins.Status == model.InspectionStatusInProgress &&
				ins.ID != "" && ins.PublicLinkID != "" &&
				ins.HasElevator != nil && *ins.HasElevator
		})).Return(&model.Inspection{
			ID:         "ins-1",
			PropertyID: "p1",
			Type:       model.InspectionTypeInitial,
			Status:     model.InspectionStatusInProgress,
		}, nil)
		emptyStore(ctx, mz, me)

		view, err := svc.Create(ctx, CreateInput{
			PropertyID: "p1", Type: model.InspectionTypeInitial, CreatedBy: "u1", Facts: facts,
		})
		require.NoError(t, err)
		assert.Equal(t, "ins-1", view.Inspection.ID)
		assert.False(t, view.CanComplete)
		assert.Len(t, view.Unreported, 8)
		// The fresh checklist is sized by the property facts.
		assert.Len(t, view.Document[checklist.SectionBedroom].Instances, 2)
		assert.Len(t, view.Document[checklist.SectionBathroom].Instances, 1)
		mi.AssertExpectations(t)
	})

	t.Run("duplicate resolves to existing", func(t *testing.T) {
		mi, mz, me, svc := newMocks()

		mi.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
		mi.On("FindByProperty", ctx, "p1", model.InspectionTypeInitial).
			Return(&model.Inspection{ID: "ins-existing", PropertyID: "p1"}, nil)
		emptyStore(ctx, mz, me)

		view, err := svc.Create(ctx, CreateInput{
			PropertyID: "p1", Type: model.InspectionTypeInitial, CreatedBy: "u1", Facts: facts,
		})
		require.NoError(t, err)
		assert.Equal(t, "ins-existing", view.Inspection.ID)
		mi.AssertExpectations(t)
	})

	t.Run("duplicate with vanished winner", func(t *testing.T) {
		mi, _, _, svc := newMocks()

		mi.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
		mi.On("FindByProperty", ctx, "p1", model.InspectionTypeInitial).Return(nil, nil)

		_, err := svc.Create(ctx, CreateInput{
			PropertyID: "p1", Type: model.InspectionTypeInitial, CreatedBy: "u1", Facts: facts,
		})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestInspectionService_Fetch(t *testing.T) {
	ctx := context.Background()
	facts := model.PropertyFacts{Bedrooms: 1, Bathrooms: 1}

	t.Run("not found", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		mi.On("FindByProperty", ctx, "p1", model.InspectionTypeFinal).Return(nil, nil)

		_, err := svc.Fetch(ctx, "p1", model.InspectionTypeFinal, facts)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("found", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		ins := &model.Inspection{ID: "ins-1", PropertyID: "p1", Type: model.InspectionTypeFinal}
		mi.On("FindByProperty", ctx, "p1", model.InspectionTypeFinal).Return(ins, nil)

		zones, elements := completeStore("ins-1")
		mz.On("ListByInspection", ctx, "ins-1").Return(zones, nil)
		me.On("ListByZones", ctx, mock.Anything).Return(elements, nil)

		view, err := svc.Fetch(ctx, "p1", model.InspectionTypeFinal, facts)
		require.NoError(t, err)
		assert.True(t, view.CanComplete)
		assert.Empty(t, view.Unreported)
		assert.Equal(t, 8, view.Overall.Total)
		assert.Equal(t, 8, view.Overall.Reported)
	})
}

func TestInspectionService_Complete(t *testing.T) {
	ctx := context.Background()
	facts := model.PropertyFacts{Bedrooms: 1, Bathrooms: 1}

	t.Run("not found", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		mi.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := svc.Complete(ctx, "missing", facts)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already completed", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(&model.Inspection{
			ID: "ins-1", Status: model.InspectionStatusCompleted,
		}, nil)

		_, err := svc.Complete(ctx, "ins-1", facts)
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
	})

	t.Run("incomplete checklist blocks", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(&model.Inspection{
			ID: "ins-1", Status: model.InspectionStatusInProgress,
		}, nil)
		emptyStore(ctx, mz, me)

		_, err := svc.Complete(ctx, "ins-1", facts)
		var incomplete *ChecklistIncompleteError
		require.ErrorAs(t, err, &incomplete)
		assert.Len(t, incomplete.Sections, 8)
		assert.Contains(t, err.Error(), "surroundings")
		mi.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("happy path", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(&model.Inspection{
			ID: "ins-1", Status: model.InspectionStatusInProgress,
		}, nil)

		zones, elements := completeStore("ins-1")
		mz.On("ListByInspection", ctx, "ins-1").Return(zones, nil)
		me.On("ListByZones", ctx, mock.Anything).Return(elements, nil)

		mi.On("Update", ctx, "ins-1", mock.MatchedBy(func(p repository.InspectionPatch) bool {
			return p.Status != nil && *p.Status == model.InspectionStatusCompleted &&
				p.CompletedAt != nil
		})).Return(&model.Inspection{
			ID: "ins-1", Status: model.InspectionStatusCompleted,
		}, nil)

		view, err := svc.Complete(ctx, "ins-1", facts)
		require.NoError(t, err)
		assert.Equal(t, model.InspectionStatusCompleted, view.Inspection.Status)
		assert.True(t, view.CanComplete)
		mi.AssertExpectations(t)
	})
}

func TestInspectionService_SaveDocument(t *testing.T) {
	ctx := context.Background()
	ins := &model.Inspection{ID: "ins-1", Status: model.InspectionStatusInProgress}

	t.Run("creates zones and upserts elements", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		facts := model.PropertyFacts{}

		doc := checklist.NewDocument(facts)
		good := checklist.ConditionGood
		doc[checklist.SectionKitchen].Questions = []checklist.Question{
			{ID: "estado-general", Condition: &good},
		}

		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{}, nil)
		mz.On("Create", ctx, mock.AnythingOfType("*model.Zone")).
			Return(&model.Zone{ID: "z-new", InspectionID: "ins-1"}, nil)
		me.On("Upsert", ctx, mock.MatchedBy(func(e *model.Element) bool {
			return e.ZoneID == "z-new" && e.Name == "estado-general" &&
				e.ID != "" && e.Condition != nil && *e.Condition == "bueno"
		})).Return(&model.Element{ID: "e1"}, nil)
		me.On("DeleteByZoneExcept", ctx, "z-new", mock.Anything).Return(nil)
		me.On("ListByZones", ctx, mock.Anything).Return([]model.Element{}, nil)

		_, err := svc.SaveDocument(ctx, "ins-1", doc, facts)
		require.NoError(t, err)
		// One zone per fixed section; no bedrooms or bathrooms on this property.
		mz.AssertNumberOfCalls(t, "Create", 6)
		me.AssertNumberOfCalls(t, "Upsert", 1)
		me.AssertNumberOfCalls(t, "DeleteByZoneExcept", 6)
	})

	t.Run("prunes zones beyond room count", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		facts := model.PropertyFacts{Bedrooms: 1}

		doc := checklist.NewDocument(facts)

		existing := []model.Zone{
			{ID: "zb1", InspectionID: "ins-1", Type: model.ZoneBedroom, Name: "Bedroom 1"},
			{ID: "zb2", InspectionID: "ins-1", Type: model.ZoneBedroom, Name: "Bedroom 2"},
		}
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return(existing, nil).Once()
		mz.On("Delete", ctx, "zb2").Return(nil)
		mz.On("Create", ctx, mock.AnythingOfType("*model.Zone")).
			Return(&model.Zone{ID: "z-new", InspectionID: "ins-1"}, nil)
		me.On("DeleteByZoneExcept", ctx, mock.Anything, mock.Anything).Return(nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{}, nil)
		me.On("ListByZones", ctx, mock.Anything).Return([]model.Element{}, nil)

		_, err := svc.SaveDocument(ctx, "ins-1", doc, facts)
		require.NoError(t, err)
		mz.AssertCalled(t, "Delete", ctx, "zb2")
	})

	t.Run("rejects invalid document", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		facts := model.PropertyFacts{}
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)

		doc := checklist.NewDocument(facts)
		doc[checklist.SectionKitchen].Questions = []checklist.Question{{ID: "mobiliario"}}

		_, err := svc.SaveDocument(ctx, "ins-1", doc, facts)
		assert.Error(t, err)
	})
}

func TestInspectionService_GranularWrites(t *testing.T) {
	ctx := context.Background()
	facts := model.PropertyFacts{}
	ins := &model.Inspection{ID: "ins-1"}

	t.Run("upsert element assigns id", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		me.On("Upsert", ctx, mock.MatchedBy(func(e *model.Element) bool {
			return e.ID != "" && e.ZoneID == "z1" && e.Name == "question-estado"
		})).Return(&model.Element{ID: "e1"}, nil)
		emptyStore(ctx, mz, me)

		_, err := svc.UpsertElement(ctx, "ins-1", model.Element{
			ZoneID: "z1", Name: "question-estado", Condition: strPtr("bueno"),
		}, facts)
		require.NoError(t, err)
		me.AssertExpectations(t)
	})

	t.Run("upsert element requires key", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)

		_, err := svc.UpsertElement(ctx, "ins-1", model.Element{Name: "x"}, facts)
		assert.Error(t, err)
	})

	t.Run("create zone rejects unknown type", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)

		_, err := svc.CreateZone(ctx, "ins-1", "garage", "Garage", facts)
		assert.Error(t, err)
	})

	t.Run("create zone appends next dynamic instance", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{
			{ID: "z1", InspectionID: "ins-1", Type: model.ZoneBedroom, Name: "Bedroom 1"},
		}, nil)
		mz.On("Create", ctx, mock.MatchedBy(func(z *model.Zone) bool {
			return z.Name == "Bedroom 2" && z.Type == model.ZoneBedroom
		})).Return(&model.Zone{ID: "z2"}, nil)
		me.On("ListByZones", ctx, mock.Anything).Return([]model.Element{}, nil)

		_, err := svc.CreateZone(ctx, "ins-1", model.ZoneBedroom, "Bedroom 2", facts)
		require.NoError(t, err)
		mz.AssertExpectations(t)
	})

	t.Run("create zone rejects unindexed dynamic name", func(t *testing.T) {
		mi, mz, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{}, nil)

		_, err := svc.CreateZone(ctx, "ins-1", model.ZoneBedroom, "Master", facts)
		assert.ErrorIs(t, err, ErrInvalidZone)
		mz.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("create zone rejects instance gap", func(t *testing.T) {
		mi, mz, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{
			{ID: "z1", Type: model.ZoneBedroom, Name: "Bedroom 1"},
		}, nil)

		_, err := svc.CreateZone(ctx, "ins-1", model.ZoneBedroom, "Bedroom 3", facts)
		assert.ErrorIs(t, err, ErrInvalidZone)
		mz.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("create zone rejects duplicate fixed type", func(t *testing.T) {
		mi, mz, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{
			{ID: "z1", Type: model.ZoneKitchen, Name: "Kitchen"},
		}, nil)

		_, err := svc.CreateZone(ctx, "ins-1", model.ZoneKitchen, "Cocina", facts)
		assert.ErrorIs(t, err, ErrInvalidZone)
		mz.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("delete zone", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("Delete", ctx, "z1").Return(nil)
		emptyStore(ctx, mz, me)

		_, err := svc.DeleteZone(ctx, "ins-1", "z1", facts)
		require.NoError(t, err)
		mz.AssertCalled(t, "Delete", ctx, "z1")
	})

	t.Run("rename zone keeps the instance index", func(t *testing.T) {
		mi, mz, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{
			{ID: "z1", InspectionID: "ins-1", Type: model.ZoneBedroom, Name: "Habitación 1"},
		}, nil)
		mz.On("UpdateName", ctx, "z1", "Bedroom 1").Return(nil)
		me.On("ListByZones", ctx, mock.Anything).Return([]model.Element{}, nil)

		_, err := svc.RenameZone(ctx, "ins-1", "z1", "Bedroom 1", facts)
		require.NoError(t, err)
		mz.AssertExpectations(t)
	})

	t.Run("rename zone cannot move an instance", func(t *testing.T) {
		mi, mz, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{
			{ID: "z1", Type: model.ZoneBedroom, Name: "Bedroom 1"},
		}, nil)

		_, err := svc.RenameZone(ctx, "ins-1", "z1", "Bedroom 2", facts)
		assert.ErrorIs(t, err, ErrInvalidZone)

		_, err = svc.RenameZone(ctx, "ins-1", "z1", "Master", facts)
		assert.ErrorIs(t, err, ErrInvalidZone)
		mz.AssertNotCalled(t, "UpdateName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rename missing zone", func(t *testing.T) {
		mi, mz, _, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		mz.On("ListByInspection", ctx, "ins-1").Return([]model.Zone{}, nil)

		_, err := svc.RenameZone(ctx, "ins-1", "z-ghost", "Kitchen", facts)
		assert.ErrorIs(t, err, ErrZoneNotFound)
	})

	t.Run("operations require an existing inspection", func(t *testing.T) {
		mi, _, _, svc := newMocks()
		mi.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := svc.DeleteElement(ctx, "missing", "e1", facts)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.DeleteZone(ctx, "missing", "z1", facts)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("errors propagate from store", func(t *testing.T) {
		mi, _, me, svc := newMocks()
		mi.On("FindByID", ctx, "ins-1").Return(ins, nil)
		me.On("Delete", ctx, "e1").Return(errors.New("boom"))

		_, err := svc.DeleteElement(ctx, "ins-1", "e1", facts)
		assert.EqualError(t, err, "boom")
	})
}
