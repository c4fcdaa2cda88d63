package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Get Quota
// @Description  Remaining daily quota for the calling identity
// @Tags         quota
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  domain.Status
// @Router       /v1/quota [get]
func (s *Server) GetQuota(c *gin.Context) {
	identity, ok := IdentityFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	status, err := s.quotaSvc.Status(c.Request.Context(), identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}

// @Summary      Consume Quota
// @Description  Record one accepted submission for the calling identity
// @Tags         quota
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Failure      429  {object}  map[string]any
// @Router       /v1/quota/consume [post]
func (s *Server) ConsumeQuota(c *gin.Context) {
	identity, ok := IdentityFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	decision, err := s.quotaSvc.RecordSubmission(c.Request.Context(), identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	remaining := s.cfg.Quota.DailyLimit - decision.Count
	if remaining < 0 {
		remaining = 0
	}
	body := gin.H{
		"accepted":  decision.Accepted,
		"count":     decision.Count,
		"remaining": remaining,
	}
	if !decision.Accepted {
		c.JSON(http.StatusTooManyRequests, gin.H{"data": body})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": body})
}

// QuotaGate is mounted by the chat pipeline in front of its message
// endpoint: it blocks exhausted identities before the message reaches
// any LLM provider. It only reads quota state; the pipeline still calls
// ConsumeQuota (or RecordSubmission) exactly once per accepted message.
func (s *Server) QuotaGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		allowed, err := s.quotaSvc.CanSubmit(c.Request.Context(), identity)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
				"code":      "daily_limit_reached",
				"message":   "no messages remaining today",
				"remaining": 0,
			}})
			return
		}
		c.Next()
	}
}
