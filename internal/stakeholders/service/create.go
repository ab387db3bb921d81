package service

import (
	"context"
	"errors"
	"strings"

	"stakeholder_map_backend/internal/geo"
	"stakeholder_map_backend/internal/stakeholders/domain"
	"stakeholder_map_backend/internal/stakeholders/repository"
	"stakeholder_map_backend/internal/stakeholders/transport"
	"stakeholder_map_backend/platform/apperr"
	"stakeholder_map_backend/platform/phone"
	"stakeholder_map_backend/platform/sanitize"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
)

const (
	checkSourceManual = "manual"

	msgNameRequired        = "name is required"
	msgTypeRequired        = "type is required"
	msgUnknownType         = "unknown stakeholder type"
	msgAddressNotFound     = "address not found"
	msgCoordinatesRequired = "coordinates required: provide latitude/longitude, an address or a known region"
	msgGeocoderUnavailable = "geocoding service unavailable"
	msgSaveFailed          = "failed to save stakeholder"
)

// Create validates the request, resolves a location and inserts one row. The
// response never carries the stored record; the client reloads its list.
func (s *Service) Create(ctx context.Context, req transport.CreateStakeholderRequest) (transport.CreateStakeholderResponse, error) {
	if err := validateCreate(req); err != nil {
		return transport.CreateStakeholderResponse{}, err
	}

	location, err := s.resolveLocation(ctx, req)
	if err != nil {
		return transport.CreateStakeholderResponse{}, err
	}

	params := buildCreateParams(req, location)

	id, err := s.repo.Create(ctx, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transport.CreateStakeholderResponse{}, ctxErr
		}
		return transport.CreateStakeholderResponse{}, s.classifyWriteError(err)
	}

	return transport.CreateStakeholderResponse{ID: id, Refresh: true}, nil
}

func validateCreate(req transport.CreateStakeholderRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation(msgNameRequired).WithDetails(map[string]string{"field": "name"})
	}
	if strings.TrimSpace(req.Type) == "" {
		return apperr.Validation(msgTypeRequired).WithDetails(map[string]string{"field": "type"})
	}
	if !domain.IsKnownType(req.Type) {
		return apperr.Validation(msgUnknownType).WithDetails(map[string]string{"field": "type", "value": req.Type})
	}
	return nil
}

// resolveLocation picks the first available coordinate source: explicit
// coordinates, then the geocoded address, then the region centroid.
func (s *Service) resolveLocation(ctx context.Context, req transport.CreateStakeholderRequest) (geo.Point, error) {
	if req.Latitude != nil && req.Longitude != nil {
		point := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if !point.Valid() {
			return geo.Point{}, apperr.Validation("coordinates out of range")
		}
		return point, nil
	}

	if address := strings.TrimSpace(req.Address); address != "" {
		return s.geocodeAddress(ctx, address)
	}

	if code := regionCode(req.RegionCode); code != "" && s.regions != nil {
		if point, ok := s.regions.Centroid(code); ok {
			return point, nil
		}
		return geo.Point{}, apperr.Validation("unknown region").WithDetails(map[string]string{"regionCode": code})
	}

	return geo.Point{}, apperr.Validation(msgCoordinatesRequired)
}

func (s *Service) geocodeAddress(ctx context.Context, address string) (geo.Point, error) {
	if s.geocoder == nil {
		return geo.Point{}, apperr.Unavailable(msgGeocoderUnavailable, errors.New("no geocoder configured"))
	}

	query := withRegionSuffix(address, s.regionSuffix)
	candidates, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return geo.Point{}, ctxErr
		}
		return geo.Point{}, apperr.Unavailable(msgGeocoderUnavailable, err).WithOp("stakeholders.Create")
	}
	if len(candidates) == 0 {
		s.log.GeocodeMiss(query)
		return geo.Point{}, apperr.Validation(msgAddressNotFound).WithDetails(map[string]string{"address": address})
	}

	point, err := geo.ParsePoint(candidates[0].Lat, candidates[0].Lon)
	if err != nil {
		return geo.Point{}, apperr.Wrap(apperr.KindUnavailable, "geocoder returned an unusable location", err)
	}
	return point, nil
}

// withRegionSuffix appends the comma separated parts of suffix that the
// address does not already mention.
func withRegionSuffix(address, suffix string) string {
	folder := cases.Fold()
	folded := folder.String(address)

	query := address
	for _, part := range strings.Split(suffix, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(folded, folder.String(part)) {
			continue
		}
		query += ", " + part
	}
	return query
}

func buildCreateParams(req transport.CreateStakeholderRequest, location geo.Point) repository.CreateParams {
	city := sanitize.Optional(req.City, sanitize.Line)
	if city == nil && req.Address != "" && req.Latitude == nil {
		city = sanitize.Optional(req.Address, sanitize.Line)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusUnbekannt
	}

	var phoneNumber *string
	if p := phone.NormalizeE164(sanitize.Line(req.Phone)); p != "" {
		phoneNumber = &p
	}

	var email *string
	if e := strings.ToLower(strings.TrimSpace(req.Email)); e != "" {
		email = &e
	}

	return repository.CreateParams{
		Name:        sanitize.Line(req.Name),
		Type:        req.Type,
		Areas:       dedupe(req.Areas),
		Description: sanitize.Optional(req.Description, sanitize.Text),
		Website:     sanitize.Optional(req.Website, strings.TrimSpace),
		Email:       email,
		Phone:       phoneNumber,
		Street:      sanitize.Optional(req.Street, sanitize.Line),
		Zip:         sanitize.Optional(req.Zip, sanitize.Line),
		City:        city,
		RegionCode:  sanitize.Optional(req.RegionCode, regionCode),
		Status:      status,
		Location:    location,
		CheckSource: checkSourceManual,
	}
}

func regionCode(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// classifyWriteError surfaces constraint violations with the store's own
// message; anything else means the store could not take the write.
func (s *Service) classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return apperr.Validation(pgErr.Message).WithDetails(map[string]string{
			"code":       pgErr.Code,
			"constraint": pgErr.ConstraintName,
		})
	}

	s.log.DatabaseError("create stakeholder", err)
	return apperr.Unavailable(msgSaveFailed, err).WithDetails(err.Error())
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
