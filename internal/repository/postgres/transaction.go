package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/interop-api/internal/model"
	"github.com/jwalitptl/interop-api/internal/repository"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	query := `
		INSERT INTO interop_transactions (
			id, transaction_id, idempotency_key, type, status,
			target_id, requester_id, sender_id, payload, error_detail,
			created_at, updated_at
		) VALUES (
			:id, :transaction_id, :idempotency_key, :type, :status,
			:target_id, :requester_id, :sender_id, :payload, :error_detail,
			:created_at, :updated_at
		)
	`
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, txn); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TransactionStatus, errorDetail string) error {
	query := `
		UPDATE interop_transactions
		SET status = $1, error_detail = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := r.db.ExecContext(ctx, query, status, errorDetail, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	query := `SELECT * FROM interop_transactions WHERE transaction_id = $1`
	var txn model.Transaction
	err := r.db.GetContext(ctx, &txn, query, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context, page, pageSize int) ([]*model.Transaction, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM interop_transactions`); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT * FROM interop_transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	var txns []*model.Transaction
	offset := (page - 1) * pageSize
	if err := r.db.SelectContext(ctx, &txns, query, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txns, total, nil
}
