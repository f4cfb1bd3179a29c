package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error

	// GetByID retrieves a prescription by primary key.
	// Returns ErrPrescriptionNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)

	// List returns prescriptions matching the query, newest issuance first.
	List(ctx context.Context, q *ListPrescriptionsQuery) ([]*Prescription, error)
}
