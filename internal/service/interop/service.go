// Package interop owns the transaction lifecycle for patient exchange
// with the WAH4PC hub: outbound fetch/send, inbound webhook pushes,
// the dedup/merge policy, and the paginated audit trail.
package interop

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/interop-api/internal/fhirmap"
	"github.com/jwalitptl/interop-api/internal/gateway"
	"github.com/jwalitptl/interop-api/internal/model"
	"github.com/jwalitptl/interop-api/internal/repository"
	apperrors "github.com/jwalitptl/interop-api/pkg/errors"
	"github.com/jwalitptl/interop-api/pkg/logger"
	"github.com/jwalitptl/interop-api/pkg/metrics"
)

const providerCacheKey = "providers"

// GatewayClient is the hub transport the orchestrator depends on.
type GatewayClient interface {
	RequestPatient(ctx context.Context, targetProviderID, philhealthID string) (*gateway.RequestResult, error)
	PushPatient(ctx context.Context, targetProviderID string, patient *model.FHIRPatient) (*gateway.RequestResult, error)
	GetProviders(ctx context.Context) ([]*model.Provider, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (*gateway.TransactionStatusResult, error)
}

type Config struct {
	ProviderID       string
	WebhookSecret    string
	ProviderCacheTTL time.Duration
}

type Service struct {
	patients  repository.PatientRepository
	txns      repository.TransactionRepository
	outbox    repository.OutboxRepository
	gw        GatewayClient
	cfg       Config
	providers *cache.Cache
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	patients repository.PatientRepository,
	txns repository.TransactionRepository,
	outbox repository.OutboxRepository,
	gw GatewayClient,
	cfg Config,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	ttl := cfg.ProviderCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		patients:  patients,
		txns:      txns,
		outbox:    outbox,
		gw:        gw,
		cfg:       cfg,
		providers: cache.New(ttl, 2*ttl),
		logger:    log,
		metrics:   m,
	}
}

// InitiateFetch asks the hub to retrieve a patient from another
// provider. The call returns as soon as the hub acknowledges; the
// resource itself arrives later via poll or webhook. No transaction
// row is written unless the hub accepted the request, so the audit
// trail only holds requests that actually reached the hub.
func (s *Service) InitiateFetch(ctx context.Context, targetProviderID, philhealthID string) (*model.TransactionSummary, error) {
	if targetProviderID == "" {
		return nil, apperrors.NewValidation("target provider id is required")
	}
	if philhealthID == "" {
		return nil, apperrors.NewValidation("philhealth id is required")
	}

	result, err := s.gw.RequestPatient(ctx, targetProviderID, philhealthID)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		TransactionID:  result.TransactionID,
		IdempotencyKey: result.IdempotencyKey,
		Type:           model.TransactionTypeFetch,
		Status:         model.TransactionStatusPending,
		TargetID:       targetProviderID,
		RequesterID:    s.cfg.ProviderID,
		Payload:        result.Raw,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to record fetch transaction: %w", err))
	}
	s.countTransaction(txn)

	return &model.TransactionSummary{
		TransactionID:  result.TransactionID,
		Status:         statusOrPending(result.Status),
		IdempotencyKey: result.IdempotencyKey,
	}, nil
}

// InitiateSend pushes a local patient to another provider through the
// hub. Same non-blocking contract as InitiateFetch.
func (s *Service) InitiateSend(ctx context.Context, targetProviderID string, patientID uuid.UUID) (*model.TransactionSummary, error) {
	if targetProviderID == "" {
		return nil, apperrors.NewValidation("target provider id is required")
	}
	if patientID == uuid.Nil {
		return nil, apperrors.NewValidation("patient id is required")
	}

	patient, err := s.patients.Get(ctx, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	result, err := s.gw.PushPatient(ctx, targetProviderID, fhirmap.ToFHIR(patient))
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		TransactionID:  result.TransactionID,
		IdempotencyKey: result.IdempotencyKey,
		Type:           model.TransactionTypeSend,
		Status:         model.TransactionStatusPending,
		TargetID:       targetProviderID,
		RequesterID:    s.cfg.ProviderID,
		Payload:        result.Raw,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to record send transaction: %w", err))
	}
	s.countTransaction(txn)

	return &model.TransactionSummary{
		TransactionID:  result.TransactionID,
		Status:         statusOrPending(result.Status),
		IdempotencyKey: result.IdempotencyKey,
	}, nil
}

// ReceiveWebhookPush handles an inbound patient push from the hub.
// Auth and validation failures reject before any database write. A
// mapping or merge failure still persists a FAILED transaction: the
// delivery already happened and must show in the audit trail.
func (s *Service) ReceiveWebhookPush(ctx context.Context, authHeader string, req *model.WebhookPushRequest) (*model.MergeOutcome, error) {
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(s.cfg.WebhookSecret)) != 1 {
		s.metrics.WebhookRejected.WithLabelValues("unauthorized").Inc()
		return nil, apperrors.NewUnauthorized("invalid gateway credentials")
	}

	if req == nil || req.TransactionID == "" {
		s.metrics.WebhookRejected.WithLabelValues("validation").Inc()
		return nil, apperrors.NewValidation("transactionId is required")
	}
	if req.SenderID == "" {
		s.metrics.WebhookRejected.WithLabelValues("validation").Inc()
		return nil, apperrors.NewValidation("senderId is required")
	}
	if req.ResourceType != "Patient" || req.Data == nil {
		s.metrics.WebhookRejected.WithLabelValues("validation").Inc()
		return nil, apperrors.NewValidation("resourceType must be Patient")
	}

	payload, _ := json.Marshal(req)
	txn := &model.Transaction{
		TransactionID: req.TransactionID,
		Type:          model.TransactionTypeReceivePush,
		Status:        model.TransactionStatusReceived,
		SenderID:      req.SenderID,
		Payload:       payload,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to record push transaction: %w", err))
	}

	outcome, err := s.mergePatient(ctx, fhirmap.FromFHIR(req.Data))
	if err != nil {
		s.metrics.WebhookReceived.WithLabelValues("failed").Inc()
		s.metrics.TransactionsRecorded.WithLabelValues(string(txn.Type), string(model.TransactionStatusFailed)).Inc()
		if updateErr := s.txns.UpdateStatus(ctx, txn.ID, model.TransactionStatusFailed, err.Error()); updateErr != nil {
			s.logger.Error(updateErr, "failed to mark push transaction failed", "transaction_id", req.TransactionID)
		}
		return nil, err
	}

	if err := s.txns.UpdateStatus(ctx, txn.ID, model.TransactionStatusCompleted, ""); err != nil {
		s.logger.Error(err, "failed to mark push transaction completed", "transaction_id", req.TransactionID)
	}
	s.metrics.WebhookReceived.WithLabelValues(outcome.Outcome).Inc()
	s.metrics.TransactionsRecorded.WithLabelValues(string(txn.Type), string(model.TransactionStatusCompleted)).Inc()

	return outcome, nil
}

// mergePatient applies the dedup policy. A payload carrying a
// PhilHealth id merges into the existing record with that id when one
// exists; everything else creates a new patient. Favoring creation
// over fuzzy matching is intentional: data capture beats false merges.
func (s *Service) mergePatient(ctx context.Context, fields *model.PatientFields) (*model.MergeOutcome, error) {
	if fields.PhilHealthID != nil && *fields.PhilHealthID != "" {
		existing, err := s.patients.GetByPhilHealthID(ctx, *fields.PhilHealthID)
		if err == nil {
			fields.Apply(existing)
			if err := s.patients.Update(ctx, existing); err != nil {
				return nil, apperrors.NewInternal(fmt.Errorf("failed to update patient: %w", err))
			}
			s.emitPatientEvent(ctx, model.EventPatientUpdated, existing)
			return &model.MergeOutcome{Outcome: model.MergeOutcomeUpdated, PatientID: existing.ID}, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternal(err)
		}
	}

	patient := &model.Patient{}
	fields.Apply(patient)
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to create patient: %w", err))
	}
	s.emitPatientEvent(ctx, model.EventPatientCreated, patient)
	return &model.MergeOutcome{Outcome: model.MergeOutcomeCreated, PatientID: patient.ID}, nil
}

// GetTransactionStatus polls the hub and resolves the local row when
// the hub reports a terminal state for a still-pending transaction.
func (s *Service) GetTransactionStatus(ctx context.Context, transactionID string) (*gateway.TransactionStatusResult, error) {
	if transactionID == "" {
		return nil, apperrors.NewValidation("transaction id is required")
	}

	status, err := s.gw.GetTransactionStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	local, err := s.txns.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error(err, "failed to load local transaction", "transaction_id", transactionID)
		}
		return status, nil
	}

	if local.Status == model.TransactionStatusPending {
		switch status.Status {
		case string(model.TransactionStatusCompleted):
			if err := s.txns.UpdateStatus(ctx, local.ID, model.TransactionStatusCompleted, ""); err != nil {
				s.logger.Error(err, "failed to resolve transaction", "transaction_id", transactionID)
			}
		case string(model.TransactionStatusFailed):
			if err := s.txns.UpdateStatus(ctx, local.ID, model.TransactionStatusFailed, status.ErrorDetail); err != nil {
				s.logger.Error(err, "failed to resolve transaction", "transaction_id", transactionID)
			}
		}
	}

	return status, nil
}

// ListTransactions returns the audit trail newest-first.
func (s *Service) ListTransactions(ctx context.Context, page, pageSize int) (*model.TransactionList, error) {
	p := model.Pagination{Page: page, PageSize: pageSize}
	p.Normalize()

	txns, total, err := s.txns.List(ctx, p.Page, p.PageSize)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	totalPages := (total + p.PageSize - 1) / p.PageSize
	return &model.TransactionList{
		Count:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
		Results:    txns,
	}, nil
}

// ListProviders returns the hub provider directory, cached briefly so
// the UI dropdown doesn't hammer the hub.
func (s *Service) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	if cached, ok := s.providers.Get(providerCacheKey); ok {
		return cached.([]*model.Provider), nil
	}

	providers, err := s.gw.GetProviders(ctx)
	if err != nil {
		return nil, err
	}

	s.providers.Set(providerCacheKey, providers, cache.DefaultExpiration)
	return providers, nil
}

func (s *Service) emitPatientEvent(ctx context.Context, eventType string, patient *model.Patient) {
	payload, err := json.Marshal(patient)
	if err != nil {
		s.logger.Error(err, "failed to marshal patient event", "event_type", eventType)
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to create outbox event", "event_type", eventType)
	}
}

func (s *Service) countTransaction(txn *model.Transaction) {
	s.metrics.TransactionsRecorded.WithLabelValues(string(txn.Type), string(txn.Status)).Inc()
}

func statusOrPending(status string) string {
	if status == "" {
		return string(model.TransactionStatusPending)
	}
	return status
}
