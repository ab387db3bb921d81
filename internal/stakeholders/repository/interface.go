package repository

import (
	"context"
	"time"

	"stakeholder_map_backend/internal/geo"
	"stakeholder_map_backend/internal/stakeholders/domain"

	"github.com/google/uuid"
)

// StakeholderReader provides read-only access to stored stakeholder rows.
type StakeholderReader interface {
	List(ctx context.Context, params ListParams) ([]domain.Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Record, error)
}

// StakeholderWriter inserts new stakeholders.
type StakeholderWriter interface {
	Create(ctx context.Context, params CreateParams) (uuid.UUID, error)
}

// LocationBackfiller is used by the geocode backfill job.
type LocationBackfiller interface {
	ListUnresolvedLocations(ctx context.Context, checkedBefore time.Time, limit int) ([]domain.Record, error)
	UpdateCoordinates(ctx context.Context, id uuid.UUID, point geo.Point) error
	MarkChecked(ctx context.Context, id uuid.UUID, checkedAt time.Time) error
}

// StakeholderRepository is the full store surface of the stakeholders module.
type StakeholderRepository interface {
	StakeholderReader
	StakeholderWriter
	LocationBackfiller
}

var _ StakeholderRepository = (*Repository)(nil)
