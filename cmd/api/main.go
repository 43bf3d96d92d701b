// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/page-forge/internal/config"
	"github.com/yourusername/page-forge/internal/jobs"
	"github.com/yourusername/page-forge/internal/logging"
	"github.com/yourusername/page-forge/internal/pdf"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	pdfService := newPDFService(cfg, logger)
	manager, err := jobs.NewManager(pdfService, cfg.PollInterval(), cfg.JobTTL(), logger)
	if err != nil {
		logger.Fatalf("Failed to set up jobs: %v", err)
	}

	router := gin.Default()

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, pdfService, manager)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting API server on %s (mode: %s)", srv.Addr, cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("running job did not stop in time")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown failed")
	}
}

func newPDFService(cfg *config.Config, logger *logrus.Logger) *pdf.Service {
	var reveal pdf.Revealer = pdf.NoopRevealer{}
	if cfg.RevealOutput {
		reveal = pdf.BrowserRevealer{}
	}
	return pdf.NewService(pdf.NewPDFCPULibrary(cfg.PDFValidationMode), reveal, logger)
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "page-forge-api",
		"version": "0.1.0",
	})
}

// setupRoutes は API グループの配線を行います。
func setupRoutes(router *gin.Engine, pdfService *pdf.Service, manager *jobs.Manager) {
	router.GET("/health", handleHealth)

	api := router.Group("/api")
	{
		api.GET("/pdf/inspect", pdf.InspectHandler(pdfService))
		api.POST("/pdf/:operation", pdf.OperationHandler(manager))

		api.GET("/jobs/:id", jobStatusHandler(manager))
		api.POST("/jobs/:id/cancel", jobCancelHandler(manager))
	}
}
