// Package feedback accepts correction and closure reports for stakeholders.
package feedback

import (
	"time"

	"github.com/google/uuid"
)

// Feedback types.
const (
	TypeCorrection = "correction"
	TypeClosure    = "closure"
	TypeOther      = "other"
)

func IsKnownType(value string) bool {
	switch value {
	case TypeCorrection, TypeClosure, TypeOther:
		return true
	}
	return false
}

// SubmitRequest is the body of POST /stakeholders/:id/feedback.
type SubmitRequest struct {
	Type    string `json:"type" validate:"required,feedbacktype"`
	Message string `json:"message" validate:"required,max=4000"`
	Email   string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

type SubmitResponse struct {
	ID            uuid.UUID `json:"id"`
	StakeholderID uuid.UUID `json:"stakeholderId"`
	CreatedAt     time.Time `json:"createdAt"`
}
