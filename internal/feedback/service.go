package feedback

import (
	"context"
	"errors"
	"strings"

	"stakeholder_map_backend/platform/apperr"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	msgStakeholderMissing = "stakeholder not found"
	msgMessageRequired    = "message is required"
	msgSaveFailed         = "feedback could not be saved"
)

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{store: store, log: log}
}

// Submit stores one feedback entry. The stakeholder must exist; the foreign
// key decides that, so there is no separate lookup.
func (s *Service) Submit(ctx context.Context, stakeholderID uuid.UUID, req SubmitRequest) (SubmitResponse, error) {
	if !IsKnownType(req.Type) {
		return SubmitResponse{}, apperr.Validation("unknown feedback type").WithDetails(map[string]string{"field": "type", "value": req.Type})
	}

	message := sanitize.Text(req.Message)
	if message == "" {
		return SubmitResponse{}, apperr.Validation(msgMessageRequired).WithDetails(map[string]string{"field": "message"})
	}

	params := InsertParams{
		StakeholderID: stakeholderID,
		Type:          req.Type,
		Message:       message,
		Email:         sanitize.Optional(req.Email, normalizeEmail),
	}

	id, createdAt, err := s.store.Insert(ctx, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return SubmitResponse{}, ctxErr
		}
		return SubmitResponse{}, s.classifyWriteError(err)
	}

	s.log.Info("feedback submitted", "feedback_id", id.String(), "stakeholder_id", stakeholderID.String(), "type", req.Type)
	return SubmitResponse{ID: id, StakeholderID: stakeholderID, CreatedAt: createdAt}, nil
}

func (s *Service) classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgForeignKeyViolation {
			return apperr.NotFound(msgStakeholderMissing)
		}
		if strings.HasPrefix(pgErr.Code, "23") {
			return apperr.Validation(pgErr.Message)
		}
	}

	s.log.DatabaseError("insert feedback", err)
	return apperr.Unavailable(msgSaveFailed, err)
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
