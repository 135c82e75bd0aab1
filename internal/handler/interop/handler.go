package interop

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/interop-api/internal/gateway"
	"github.com/jwalitptl/interop-api/internal/model"
	"github.com/jwalitptl/interop-api/pkg/errors"
	"github.com/jwalitptl/interop-api/pkg/httputil"
)

// HeaderGatewayAuth carries the hub's shared secret on webhook pushes.
const HeaderGatewayAuth = "X-Gateway-Auth"

// Service is the orchestrator surface the HTTP layer exposes.
type Service interface {
	InitiateFetch(ctx context.Context, targetProviderID, philhealthID string) (*model.TransactionSummary, error)
	InitiateSend(ctx context.Context, targetProviderID string, patientID uuid.UUID) (*model.TransactionSummary, error)
	ReceiveWebhookPush(ctx context.Context, authHeader string, req *model.WebhookPushRequest) (*model.MergeOutcome, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (*gateway.TransactionStatusResult, error)
	ListTransactions(ctx context.Context, page, pageSize int) (*model.TransactionList, error)
	ListProviders(ctx context.Context) ([]*model.Provider, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	interop := r.Group("/interop")
	{
		interop.POST("/fetch", h.InitiateFetch)
		interop.POST("/push", h.InitiateSend)
		interop.GET("/providers", h.ListProviders)
		interop.GET("/transactions", h.ListTransactions)
		interop.GET("/transactions/:id/status", h.GetTransactionStatus)
	}
}

// RegisterWebhookRoutes mounts the hub-facing push endpoint. It lives
// outside /api/v1 because the hub's delivery path is fixed.
func (h *Handler) RegisterWebhookRoutes(e *gin.Engine) {
	e.POST("/fhir/receive-push/", h.ReceiveWebhookPush)
}

type fetchRequest struct {
	TargetProviderID string `json:"target_provider_id" binding:"required"`
	PhilHealthID     string `json:"philhealth_id" binding:"required,philhealth"`
}

func (h *Handler) InitiateFetch(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	summary, err := h.service.InitiateFetch(c.Request.Context(), req.TargetProviderID, req.PhilHealthID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, httputil.Response{Success: true, Data: summary})
}

type pushRequest struct {
	TargetProviderID string `json:"target_provider_id" binding:"required"`
	PatientID        string `json:"patient_id" binding:"required,uuid"`
}

func (h *Handler) InitiateSend(c *gin.Context) {
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid patient id"))
		return
	}

	summary, err := h.service.InitiateSend(c.Request.Context(), req.TargetProviderID, patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, httputil.Response{Success: true, Data: summary})
}

func (h *Handler) ReceiveWebhookPush(c *gin.Context) {
	// The auth check runs inside the service before anything else, so
	// a bad body with bad credentials still answers 401, not 400.
	var body *model.WebhookPushRequest
	var req model.WebhookPushRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		body = &req
	}

	outcome, err := h.service.ReceiveWebhookPush(c.Request.Context(), c.GetHeader(HeaderGatewayAuth), body)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, outcome)
}

func (h *Handler) GetTransactionStatus(c *gin.Context) {
	status, err := h.service.GetTransactionStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, status)
}

type listQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

func (h *Handler) ListTransactions(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	list, err := h.service.ListTransactions(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, providers)
}
