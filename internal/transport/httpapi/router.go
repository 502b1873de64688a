package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"namecard/internal/metrics"
)

type RouterConfig struct {
	Mode        string
	MetricsPath string
}

// NewRouter builds the gin engine with system routes, the metrics endpoint
// (when m is non-nil) and the export API.
func NewRouter(cfg RouterConfig, h *Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	e := gin.New()
	e.Use(gin.Recovery(), accessLog(logger))

	sys := e.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "UP",
				"timestamp": time.Now().Unix(),
			})
		})
	}

	if m != nil && cfg.MetricsPath != "" {
		e.GET(cfg.MetricsPath, gin.WrapH(m.Handler()))
	}

	h.RegisterRoutes(e)
	return e
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
