package service

import (
	"context"
	"time"

	"stakeholder_map_backend/internal/geo"
	"stakeholder_map_backend/internal/stakeholders/domain"
	"stakeholder_map_backend/internal/stakeholders/ports"
	"stakeholder_map_backend/internal/stakeholders/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, params repository.ListParams) ([]domain.Record, error) {
	args := m.Called(ctx, params)
	records, _ := args.Get(0).([]domain.Record)
	return records, args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, params repository.CreateParams) (uuid.UUID, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRepository) ListUnresolvedLocations(ctx context.Context, checkedBefore time.Time, limit int) ([]domain.Record, error) {
	args := m.Called(ctx, checkedBefore, limit)
	records, _ := args.Get(0).([]domain.Record)
	return records, args.Error(1)
}

func (m *mockRepository) MarkChecked(ctx context.Context, id uuid.UUID, checkedAt time.Time) error {
	return m.Called(ctx, id, checkedAt).Error(0)
}

func (m *mockRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, point geo.Point) error {
	return m.Called(ctx, id, point).Error(0)
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) ([]ports.GeocodeResult, error) {
	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]ports.GeocodeResult)
	return results, args.Error(1)
}

type staticRegions map[string]geo.Point

func (r staticRegions) Centroid(code string) (geo.Point, bool) {
	p, ok := r[code]
	return p, ok
}

type dropCounter map[string]int

func (d dropCounter) RecordDropped(reason string) {
	d[reason]++
}
