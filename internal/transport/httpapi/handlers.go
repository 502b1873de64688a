package httpapi

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"namecard/internal/domain"
	"namecard/internal/logging"
	"namecard/internal/usecase"
)

type Handler struct {
	uc      usecase.CardExporter
	logger  *zap.Logger
	timeout time.Duration
}

func NewHandler(uc usecase.CardExporter, logger *zap.Logger, timeout time.Duration) *Handler {
	return &Handler{uc: uc, logger: logging.OrNop(logger), timeout: timeout}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/cards/:id/vcard", h.ExportCardByID)
		api.POST("/vcard", h.ExportInline)
	}
}

type exportRequest struct {
	Profile domain.Profile `json:"profile"`
	Card    domain.Card    `json:"card"`
	Index   *int           `json:"index" binding:"required,min=0,max=9999"`
}

// ExportCardByID serves GET /api/v1/cards/:id/vcard?index=N.
func (h *Handler) ExportCardByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	index, err := strconv.Atoi(c.DefaultQuery("index", "0"))
	if err != nil || index < 0 || index > domain.MaxCardIndex {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	art, err := h.uc.ExportByID(ctx, bearerToken(c.GetHeader("Authorization")), id, index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeArtifact(c, art)
}

// ExportInline serves POST /api/v1/vcard for callers that already hold the
// profile and card.
func (h *Handler) ExportInline(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	art, err := h.uc.ExportCard(ctx, req.Profile, req.Card, *req.Index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeArtifact(c, art)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
	default:
		h.logger.Error("export failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream error"})
	}
}

func writeArtifact(c *gin.Context, art *domain.ExportArtifact) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename}))
	c.Data(http.StatusOK, art.ContentType, art.Body)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
