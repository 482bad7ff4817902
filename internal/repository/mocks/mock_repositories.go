package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
)

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) Create(ctx context.Context, ins *model.Inspection) (*model.Inspection, error) {
	args := m.Called(ctx, ins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) FindByID(ctx context.Context, id string) (*model.Inspection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) FindByProperty(ctx context.Context, propertyID string, typ model.InspectionType) (*model.Inspection, error) {
	args := m.Called(ctx, propertyID, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) Update(ctx context.Context, id string, patch repository.InspectionPatch) (*model.Inspection, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inspection), args.Error(1)
}

type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) Create(ctx context.Context, z *model.Zone) (*model.Zone, error) {
	args := m.Called(ctx, z)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Zone), args.Error(1)
}

func (m *MockZoneRepository) ListByInspection(ctx context.Context, inspectionID string) ([]model.Zone, error) {
	args := m.Called(ctx, inspectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Zone), args.Error(1)
}

func (m *MockZoneRepository) UpdateName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockZoneRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockElementRepository struct {
	mock.Mock
}

func (m *MockElementRepository) Upsert(ctx context.Context, e *model.Element) (*model.Element, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Element), args.Error(1)
}

func (m *MockElementRepository) ListByZones(ctx context.Context, zoneIDs []string) ([]model.Element, error) {
	args := m.Called(ctx, zoneIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Element), args.Error(1)
}

func (m *MockElementRepository) Update(ctx context.Context, e *model.Element) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockElementRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockElementRepository) DeleteByZoneExcept(ctx context.Context, zoneID string, keep []string) error {
	args := m.Called(ctx, zoneID, keep)
	return args.Error(0)
}
