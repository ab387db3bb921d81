package service

import (
	"context"
	"strings"
	"time"

	"stakeholder_map_backend/internal/geo"
	"stakeholder_map_backend/internal/stakeholders/domain"

	"github.com/google/uuid"
)

const defaultBackfillBatch = 25

// BackfillOptions tune a location backfill run.
type BackfillOptions struct {
	BatchSize int
	// Pace is the pause after every geocoder call.
	Pace time.Duration
}

type BackfillResult struct {
	Updated int
	Failed  int
}

// BackfillLocations resolves stored rows that have an address but no usable
// coordinates and writes the coordinates back. Rows whose stored geometry
// already resolves get their columns filled without a lookup; the rest are
// geocoded. Failed rows are stamped as checked so the next batch, and the next
// run, move past them. The run ends when no unchecked row is left.
func (s *Service) BackfillLocations(ctx context.Context, opts BackfillOptions) (BackfillResult, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBackfillBatch
	}

	var result BackfillResult
	runStart := s.now()
	seen := make(map[uuid.UUID]struct{})

	for {
		records, err := s.repo.ListUnresolvedLocations(ctx, runStart, opts.BatchSize)
		if err != nil {
			s.log.DatabaseError("list stakeholders with unresolved locations", err)
			return result, err
		}
		if len(records) == 0 {
			s.log.Info("no stakeholders left to geocode", "updated", result.Updated, "failed", result.Failed)
			return result, nil
		}

		fresh := false
		for _, record := range records {
			if _, ok := seen[record.ID]; ok {
				continue
			}
			seen[record.ID] = struct{}{}
			fresh = true

			geocoded, ok := s.backfillOne(ctx, record)
			if ok {
				result.Updated++
			} else {
				result.Failed++
				s.markChecked(ctx, record)
			}

			if err := ctx.Err(); err != nil {
				return result, err
			}
			if geocoded {
				if err := sleep(ctx, opts.Pace); err != nil {
					return result, err
				}
			}
		}

		// Only rows already handled this run: the checked stamps did not stick.
		if !fresh {
			s.log.Warn("backfill batch held only rows already handled, stopping", "updated", result.Updated, "failed", result.Failed)
			return result, nil
		}
	}
}

// backfillOne reports whether the geocoder was called and whether the row
// now has coordinates.
func (s *Service) backfillOne(ctx context.Context, record domain.Record) (geocoded, ok bool) {
	if point, err := geo.Resolve(geo.Source{Location: record.Location}); err == nil {
		return false, s.writeCoordinates(ctx, record, point, "geometry")
	}

	address := backfillAddress(record)
	if address == "" {
		s.log.Info("skipping stakeholder without address", "stakeholder_id", record.ID.String())
		return false, false
	}

	point, err := s.geocodeAddress(ctx, address)
	if err != nil {
		s.log.Warn("geocode failed", "stakeholder_id", record.ID.String(), "address", address, "error", err)
		return true, false
	}
	return true, s.writeCoordinates(ctx, record, point, "geocoder")
}

func (s *Service) writeCoordinates(ctx context.Context, record domain.Record, point geo.Point, source string) bool {
	if err := s.repo.UpdateCoordinates(ctx, record.ID, point); err != nil {
		s.log.DatabaseError("update stakeholder coordinates", err)
		return false
	}
	s.log.Info("stakeholder located", "stakeholder_id", record.ID.String(), "source", source,
		"lat", point.Latitude, "lon", point.Longitude)
	return true
}

func (s *Service) markChecked(ctx context.Context, record domain.Record) {
	if ctx.Err() != nil {
		return
	}
	if err := s.repo.MarkChecked(ctx, record.ID, s.now()); err != nil {
		s.log.DatabaseError("mark stakeholder checked", err)
	}
}

// backfillAddress formats "street, zip city" from whatever parts are present.
func backfillAddress(record domain.Record) string {
	street := strings.TrimSpace(deref(record.Street))
	place := strings.TrimSpace(strings.TrimSpace(deref(record.Zip)) + " " + strings.TrimSpace(deref(record.City)))

	switch {
	case street != "" && place != "":
		return street + ", " + place
	case street != "":
		return street
	default:
		return place
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
