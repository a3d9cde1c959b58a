package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(receiptHandler *handlers.ReceiptHandler, importHandler *handlers.ImportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/health", receiptHandler.Health)

	api := r.Group("/api")
	{
		api.GET("/receipts", receiptHandler.List)
		api.POST("/receipts", receiptHandler.Create)
		api.PUT("/receipts/:id", receiptHandler.Update)
		api.DELETE("/receipts/:id", receiptHandler.Delete)
		api.POST("/receipts/import", importHandler.Upload)
		api.POST("/receipts/import/drive", importHandler.Drive)
		api.GET("/alerts", receiptHandler.Alerts)
		api.GET("/stats", receiptHandler.Stats)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
