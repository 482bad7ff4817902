package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/checklist"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/service"
)

type MockInspectionService struct {
	mock.Mock
}

func (m *MockInspectionService) Create(ctx context.Context, in service.CreateInput) (*service.InspectionView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) Fetch(ctx context.Context, propertyID string, typ model.InspectionType, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, propertyID, typ, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) Update(ctx context.Context, id string, patch repository.InspectionPatch, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, id, patch, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) Complete(ctx context.Context, id string, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, id, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) SaveDocument(ctx context.Context, id string, doc checklist.Document, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, id, doc, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) CreateZone(ctx context.Context, inspectionID string, zoneType model.ZoneType, name string, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, inspectionID, zoneType, name, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) RenameZone(ctx context.Context, inspectionID, zoneID, name string, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, inspectionID, zoneID, name, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) DeleteZone(ctx context.Context, inspectionID, zoneID string, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, inspectionID, zoneID, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) UpsertElement(ctx context.Context, inspectionID string, e model.Element, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, inspectionID, e, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) UpdateElement(ctx context.Context, inspectionID string, e model.Element, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, inspectionID, e, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}

func (m *MockInspectionService) DeleteElement(ctx context.Context, inspectionID, elementID string, facts model.PropertyFacts) (*service.InspectionView, error) {
	args := m.Called(ctx, inspectionID, elementID, facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InspectionView), args.Error(1)
}
