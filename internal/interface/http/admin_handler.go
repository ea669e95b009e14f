package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

type entryRequest struct {
	ID       *int64 `json:"aid"`
	Answer   string `json:"answer"`
	Question string `json:"question"`
}

func (r entryRequest) id() (int64, *HTTPError) {
	if r.ID == nil {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid_request", "aid is required", nil)
	}
	return *r.ID, nil
}

// ListEntries returns entries in the given status, for the moderation views.
func (h *Handler) ListEntries(status faq.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := h.faqSvc.List(c.Request.Context(), status)
		if err != nil {
			abortWithError(c, fromDomainError(err, "faq_failed"))
			return
		}
		if entries == nil {
			entries = []faq.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// AnswerEntry answers a pending entry or replaces an active answer.
func (h *Handler) AnswerEntry(c *gin.Context) {
	h.mutateEntry(c, func(c *gin.Context, id int64, req entryRequest) (faq.Entry, error) {
		return h.faqSvc.Answer(c.Request.Context(), id, req.Answer)
	})
}

// DeleteEntry soft-deletes an entry.
func (h *Handler) DeleteEntry(c *gin.Context) {
	h.mutateEntry(c, func(c *gin.Context, id int64, _ entryRequest) (faq.Entry, error) {
		return h.faqSvc.Delete(c.Request.Context(), id)
	})
}

// RestoreEntry moves a deleted entry back to the pending queue.
func (h *Handler) RestoreEntry(c *gin.Context) {
	h.mutateEntry(c, func(c *gin.Context, id int64, _ entryRequest) (faq.Entry, error) {
		return h.faqSvc.Restore(c.Request.Context(), id)
	})
}

// UpdateEntry edits the text of a pending question.
func (h *Handler) UpdateEntry(c *gin.Context) {
	h.mutateEntry(c, func(c *gin.Context, id int64, req entryRequest) (faq.Entry, error) {
		return h.faqSvc.UpdateQuestion(c.Request.Context(), id, req.Question)
	})
}

func (h *Handler) mutateEntry(c *gin.Context, apply func(*gin.Context, int64, entryRequest) (faq.Entry, error)) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	id, httpErr := req.id()
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	entry, err := apply(c, id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "faq_failed"))
		return
	}
	claims, _ := getClaims(c)
	h.logger.Info("faq entry updated", "aid", entry.ID, "status", entry.Status, "by", claims.Email)
	c.JSON(http.StatusOK, entry)
}
