package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stakeholder_map_backend/internal/geo"
	"stakeholder_map_backend/internal/stakeholders/domain"
	"stakeholder_map_backend/platform/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("stakeholder not found")

const table = "stakeholders"

var selectColumns = []string{
	"id", "name", "type", "areas", "description", "website", "email", "phone",
	"street", "zip", "city", "region_code", "status", "latitude", "longitude",
	"location::text", "last_checked_at", "check_source", "created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Repository struct {
	db db.DBTX
}

func New(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// ListParams narrows the rows fetched from the store. Empty slices mean no
// constraint on that column.
type ListParams struct {
	RegionCodes []string
	Types       []string
	Statuses    []string
}

// CreateParams holds one validated, sanitized stakeholder ready for insert.
type CreateParams struct {
	Name        string
	Type        string
	Areas       []string
	Description *string
	Website     *string
	Email       *string
	Phone       *string
	Street      *string
	Zip         *string
	City        *string
	RegionCode  *string
	Status      string
	Location    geo.Point
	CheckSource string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Record, error) {
	builder := psql.Select(selectColumns...).From(table)
	if len(params.RegionCodes) > 0 {
		builder = builder.Where(squirrel.Eq{"lower(region_code)": lowered(params.RegionCodes)})
	}
	if len(params.Types) > 0 {
		builder = builder.Where(squirrel.Eq{"lower(type)": lowered(params.Types)})
	}
	if len(params.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"lower(status)": lowered(params.Statuses)})
	}
	builder = builder.OrderBy("name ASC", "id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	return r.queryRecords(ctx, query, args...)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Record, error) {
	query, args, err := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return domain.Record{}, fmt.Errorf("build get query: %w", err)
	}

	record, err := scanRecord(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Record{}, ErrNotFound
	}
	if err != nil {
		return domain.Record{}, err
	}
	return record, nil
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (uuid.UUID, error) {
	areas := params.Areas
	if areas == nil {
		areas = []string{}
	}

	query, args, err := psql.Insert(table).
		Columns(
			"name", "type", "areas", "description", "website", "email", "phone",
			"street", "zip", "city", "region_code", "status",
			"latitude", "longitude", "location", "check_source", "last_checked_at",
		).
		Values(
			params.Name, params.Type, areas, params.Description, params.Website, params.Email, params.Phone,
			params.Street, params.Zip, params.City, params.RegionCode, params.Status,
			params.Location.Latitude, params.Location.Longitude, string(params.Location.GeoJSON()),
			params.CheckSource, squirrel.Expr("now()"),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build insert: %w", err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ListUnresolvedLocations returns rows with an address whose coordinate
// columns are missing or out of range and that were not checked since
// checkedBefore. Never-checked rows come first, then the longest unchecked.
func (r *Repository) ListUnresolvedLocations(ctx context.Context, checkedBefore time.Time, limit int) ([]domain.Record, error) {
	query, args, err := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.Or{
			squirrel.Eq{"latitude": nil},
			squirrel.Eq{"longitude": nil},
			squirrel.Expr("latitude NOT BETWEEN -90 AND 90"),
			squirrel.Expr("longitude NOT BETWEEN -180 AND 180"),
		}).
		Where(squirrel.Or{squirrel.NotEq{"city": nil}, squirrel.NotEq{"street": nil}}).
		Where(squirrel.Or{squirrel.Eq{"last_checked_at": nil}, squirrel.Lt{"last_checked_at": checkedBefore}}).
		OrderBy("last_checked_at ASC NULLS FIRST", "created_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build backfill query: %w", err)
	}

	return r.queryRecords(ctx, query, args...)
}

// MarkChecked records an unsuccessful automatic lookup so later batches and
// runs move past the row.
func (r *Repository) MarkChecked(ctx context.Context, id uuid.UUID, checkedAt time.Time) error {
	query, args, err := psql.Update(table).
		Set("last_checked_at", checkedAt).
		Set("check_source", "auto").
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark checked: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateCoordinates(ctx context.Context, id uuid.UUID, point geo.Point) error {
	query, args, err := psql.Update(table).
		Set("latitude", point.Latitude).
		Set("longitude", point.Longitude).
		Set("location", string(point.GeoJSON())).
		Set("check_source", "auto").
		Set("last_checked_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanRecord(row pgx.Row) (domain.Record, error) {
	var (
		record   domain.Record
		location *string
	)
	err := row.Scan(
		&record.ID, &record.Name, &record.Type, &record.Areas, &record.Description,
		&record.Website, &record.Email, &record.Phone, &record.Street, &record.Zip,
		&record.City, &record.RegionCode, &record.Status, &record.Latitude, &record.Longitude,
		&location, &record.LastCheckedAt, &record.CheckSource, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return domain.Record{}, err
	}
	if location != nil {
		record.Location = json.RawMessage(*location)
	}
	return record, nil
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
