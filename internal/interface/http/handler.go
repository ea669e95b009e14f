package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
	"github.com/yanqian/faq-agent/internal/domain/faq"
	apperrors "github.com/yanqian/faq-agent/pkg/errors"
)

// HealthChecker reports whether the knowledge store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	assistantSvc assistant.Service
	faqSvc       faq.Service
	invoices     assistant.InvoiceChecker
	health       HealthChecker
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(assistantSvc assistant.Service, faqSvc faq.Service, invoices assistant.InvoiceChecker, health HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
		faqSvc:       faqSvc,
		invoices:     invoices,
		health:       health,
		logger:       logger.With("component", "http.handler"),
	}
}

type questionRequest struct {
	Question string `json:"question"`
}

type invoiceRequest struct {
	InvoiceID string `json:"invoice_id"`
}

type resetRequest struct {
	ConversationID string `json:"conversation_id"`
}

// Chat runs one conversational turn.
func (h *Handler) Chat(c *gin.Context) {
	var req assistant.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.assistantSvc.Turn(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "chat_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetChat forgets a conversation, including any pending confirmation.
func (h *Handler) ResetChat(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.assistantSvc.Reset(c.Request.Context(), req.ConversationID); err != nil {
		abortWithError(c, fromDomainError(err, "chat_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// Ask answers straight from the knowledge base and registers misses.
func (h *Handler) Ask(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.faqSvc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		abortWithError(c, fromDomainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToolSearch exposes the knowledge base lookup to external agents.
func (h *Handler) ToolSearch(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	result, err := h.faqSvc.Lookup(c.Request.Context(), req.Question)
	if err != nil {
		abortWithError(c, fromDomainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": result.Found, "answer": result.Answer})
}

// ToolRegister records a question on behalf of an external agent's user.
func (h *Handler) ToolRegister(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if _, err := h.faqSvc.RegisterPending(c.Request.Context(), req.Question, faq.CreatedByJouleUser); err != nil {
		abortWithError(c, fromDomainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": faq.RegisteredMessage})
}

// ToolInvoice reports an invoice status.
func (h *Handler) ToolInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	id := strings.TrimSpace(req.InvoiceID)
	if id == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invoice_id is required", nil))
		return
	}
	status, err := h.invoices.Status(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadGateway, "invoice_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status_text": assistant.InvoiceStatusText(id, status)})
}

// SubmitQuestion registers a question from an authenticated caller, tagged with the caller's role.
func (h *Handler) SubmitQuestion(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	entry, err := h.faqSvc.RegisterPending(c.Request.Context(), req.Question, claims.Role)
	if err != nil {
		abortWithError(c, fromDomainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"aid": entry.ID, "message": faq.RegisteredMessage})
}

// TrendingFAQ returns the most asked questions.
func (h *Handler) TrendingFAQ(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// Healthz pings the knowledge store.
func (h *Handler) Healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, apperrors.CodeStore, "knowledge store unavailable", err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
