package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/interop-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// PatientRepository is the keyed patient store the interop core
// consumes. The hospital application owns the rest of the patient
// lifecycle.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByPhilHealthID(ctx context.Context, philhealthID string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
}

// TransactionRepository owns the interop audit trail. Rows are only
// ever inserted and status-updated, never deleted.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TransactionStatus, errorDetail string) error
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error)
	List(ctx context.Context, page, pageSize int) ([]*model.Transaction, int, error)
}

// OutboxRepository stores events pending publication to the broker.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
