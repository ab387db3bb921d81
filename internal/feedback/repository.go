package feedback

import (
	"context"
	"fmt"
	"time"

	"stakeholder_map_backend/platform/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Store persists feedback entries.
type Store interface {
	Insert(ctx context.Context, params InsertParams) (uuid.UUID, time.Time, error)
}

type InsertParams struct {
	StakeholderID uuid.UUID
	Type          string
	Message       string
	Email         *string
}

type Repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) Insert(ctx context.Context, params InsertParams) (uuid.UUID, time.Time, error) {
	query, args, err := psql.Insert("feedback").
		Columns("stakeholder_id", "type", "message", "email").
		Values(params.StakeholderID.String(), params.Type, params.Message, params.Email).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("build feedback insert: %w", err)
	}

	var (
		id        uuid.UUID
		createdAt time.Time
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id, &createdAt); err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return id, createdAt, nil
}
