package request

import "github.com/google/uuid"

type SummaryRequest struct {
	BookID uuid.UUID `json:"bookId" binding:"required"`
}
