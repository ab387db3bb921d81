package service

import (
	"context"
	"errors"
	"time"

	"stakeholder_map_backend/internal/geo"
	"stakeholder_map_backend/internal/stakeholders/domain"
	"stakeholder_map_backend/internal/stakeholders/ports"
	"stakeholder_map_backend/internal/stakeholders/repository"
	"stakeholder_map_backend/internal/stakeholders/transport"
	"stakeholder_map_backend/platform/apperr"
	"stakeholder_map_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgStoreUnavailable = "stakeholder store unavailable"
	msgNotFound         = "stakeholder not found"
)

type Service struct {
	repo         repository.StakeholderRepository
	geocoder     ports.Geocoder
	regions      ports.RegionCatalog
	drops        ports.DropRecorder
	regionSuffix string
	log          *logger.Logger
	now          func() time.Time
}

// New wires the service. geocoder, regions and drops may be nil; the create
// flow then skips the matching coordinate source.
func New(
	repo repository.StakeholderRepository,
	geocoder ports.Geocoder,
	regions ports.RegionCatalog,
	drops ports.DropRecorder,
	regionSuffix string,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:         repo,
		geocoder:     geocoder,
		regions:      regions,
		drops:        drops,
		regionSuffix: regionSuffix,
		log:          log,
		now:          time.Now,
	}
}

// List loads every stakeholder matching the pushed-down columns, drops the ones
// that cannot be placed on the map and applies the full predicate in memory.
func (s *Service) List(ctx context.Context, filters domain.Filters) (transport.StakeholderListResponse, error) {
	records, err := s.repo.List(ctx, repository.ListParams{
		RegionCodes: filters.RegionCodes,
		Types:       filters.Types,
		Statuses:    filters.Statuses,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transport.StakeholderListResponse{}, ctxErr
		}
		s.log.DatabaseError("list stakeholders", err)
		return transport.StakeholderListResponse{}, apperr.Unavailable(msgStoreUnavailable, err).WithOp("stakeholders.List")
	}

	dropped := 0
	items := domain.NormalizeAll(records, func(r domain.Record, err error) {
		dropped++
		s.recordDrop(r, err)
	})

	visible := domain.Apply(items, filters)
	return toListResponse(visible, dropped), nil
}

// GetByID returns one renderable stakeholder. A stored row that cannot be
// placed on the map is reported as not found.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.StakeholderResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.StakeholderResponse{}, apperr.NotFound(msgNotFound)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transport.StakeholderResponse{}, ctxErr
		}
		s.log.DatabaseError("get stakeholder", err)
		return transport.StakeholderResponse{}, apperr.Unavailable(msgStoreUnavailable, err).WithOp("stakeholders.GetByID")
	}

	stakeholder, err := domain.Normalize(record)
	if err != nil {
		s.recordDrop(record, err)
		return transport.StakeholderResponse{}, apperr.NotFound(msgNotFound).
			WithDetails(map[string]string{"reason": string(geo.ReasonOf(err))})
	}

	return toResponse(stakeholder), nil
}

func (s *Service) recordDrop(r domain.Record, err error) {
	reason := string(geo.ReasonOf(err))
	if reason == "" {
		reason = "unknown"
	}
	s.log.RecordDropped(r.ID.String(), r.Name, reason)
	if s.drops != nil {
		s.drops.RecordDropped(reason)
	}
}

func toListResponse(items []domain.Stakeholder, dropped int) transport.StakeholderListResponse {
	resp := transport.StakeholderListResponse{
		Items:   make([]transport.StakeholderResponse, 0, len(items)),
		Total:   len(items),
		Dropped: dropped,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toResponse(item))
	}
	return resp
}

func toResponse(s domain.Stakeholder) transport.StakeholderResponse {
	areas := s.Areas
	if areas == nil {
		areas = []string{}
	}
	return transport.StakeholderResponse{
		ID:          s.ID,
		Name:        s.Name,
		Type:        s.Type,
		Areas:       areas,
		Description: s.Description,
		Website:     s.Website,
		Email:       s.Email,
		Phone:       s.Phone,
		Street:      s.Street,
		Zip:         s.Zip,
		City:        s.City,
		RegionCode:  s.RegionCode,
		Status:      s.Status,
		Location: transport.LocationResponse{
			Latitude:  s.Location.Latitude,
			Longitude: s.Location.Longitude,
		},
		LastCheckedAt: s.LastCheckedAt,
		CheckSource:   s.CheckSource,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
