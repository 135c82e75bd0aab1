package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeFetch        TransactionType = "fetch"
	TransactionTypeSend         TransactionType = "send"
	TransactionTypeReceivePush  TransactionType = "receive_push"
	TransactionTypeProcessQuery TransactionType = "process_query"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReceived  TransactionStatus = "RECEIVED"
)

// Transaction is one in-flight or completed interaction with the hub.
// Rows are never deleted; the table is the audit trail.
type Transaction struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	TransactionID  string            `db:"transaction_id" json:"transaction_id,omitempty"`
	IdempotencyKey string            `db:"idempotency_key" json:"idempotency_key,omitempty"`
	Type           TransactionType   `db:"type" json:"type"`
	Status         TransactionStatus `db:"status" json:"status"`
	TargetID       string            `db:"target_id" json:"target_id,omitempty"`
	RequesterID    string            `db:"requester_id" json:"requester_id,omitempty"`
	SenderID       string            `db:"sender_id" json:"sender_id,omitempty"`
	Payload        json.RawMessage   `db:"payload" json:"payload,omitempty"`
	ErrorDetail    string            `db:"error_detail" json:"error_detail,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// TransactionList is the paginated, newest-first audit listing.
type TransactionList struct {
	Count      int            `json:"count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Results    []*Transaction `json:"results"`
}

// TransactionSummary is what initiate operations return to the caller
// immediately; the resource itself arrives later via poll or webhook.
type TransactionSummary struct {
	TransactionID  string `json:"transaction_id"`
	Status         string `json:"status"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// MergeOutcome reports what a webhook push did to the local store.
type MergeOutcome struct {
	Outcome   string    `json:"outcome"` // "created" or "updated"
	PatientID uuid.UUID `json:"patient_id"`
}

const (
	MergeOutcomeCreated = "created"
	MergeOutcomeUpdated = "updated"
)

// WebhookPushRequest is the inbound hub push body.
type WebhookPushRequest struct {
	TransactionID string       `json:"transactionId"`
	SenderID      string       `json:"senderId"`
	ResourceType  string       `json:"resourceType"`
	Data          *FHIRPatient `json:"data"`
}
