// Package api exposes the webhook intake and the task management endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"docsync/internal/config"
	"docsync/internal/domain"
	"docsync/internal/service"
)

type TaskService interface {
	CreateTasks(ctx context.Context, req service.CreateTasksRequest) (*service.CreateTasksResponse, error)
	HandleDocumentEvent(ctx context.Context, platform domain.Platform, documentID string, contentType domain.ContentType) (*service.EnqueueResult, error)
	RetryTask(ctx context.Context, id int64) (*domain.SyncTask, error)
	RetryFailed(ctx context.Context, ids []int64) ([]int64, error)
	ScanFolder(ctx context.Context, req service.ScanRequest) (*service.ScanResult, error)
	GetTask(ctx context.Context, id int64) (*domain.SyncTask, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.SyncTask, error)
	Stats(ctx context.Context) (*domain.TaskStats, error)
	ListConfigs(ctx context.Context) ([]domain.SyncConfig, error)
	UpsertConfig(ctx context.Context, cfg *domain.SyncConfig) error
}

type ImageStats interface {
	Stats(ctx context.Context) (*domain.ImageStats, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	// WebhookSecret verifies inbound event signatures. Empty disables the check.
	WebhookSecret string
	// Files, when set, is served read-only under FilesPath.
	Files     afero.Fs
	FilesPath string
}

type Server struct {
	tasks   TaskService
	images  ImageStats
	db      Pinger
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
	handler *gin.Engine
}

func NewServer(tasks TaskService, images ImageStats, db Pinger, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		tasks:  tasks,
		images: images,
		db:     db,
		opts:   opts,
		logger: logger.With("component", "api"),
		now:    time.Now,
	}
	if opts.WebhookSecret == "" {
		s.logger.Warn("webhook signature verification disabled, no webhook secret configured")
	}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/health", s.handleHealth)
	r.POST("/webhook/feishu", s.handleFeishuWebhook)

	if s.opts.Files != nil {
		path := s.opts.FilesPath
		if path == "" {
			path = "/files"
		}
		r.StaticFS(path, afero.NewHttpFs(s.opts.Files))
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/sync/tasks", s.handleCreateTasks)
		v1.GET("/sync/tasks", s.handleListTasks)
		v1.POST("/sync/tasks/retry", s.handleRetryFailed)
		v1.GET("/sync/tasks/:id", s.handleGetTask)
		v1.POST("/sync/tasks/:id/retry", s.handleRetryTask)
		v1.GET("/sync/stats", s.handleStats)
		v1.POST("/sync/parse-url", s.handleParseURL)
		v1.POST("/sync/folders/scan", s.handleScanFolder)
		v1.GET("/sync/configs", s.handleListConfigs)
		v1.PUT("/sync/configs", s.handleUpsertConfig)
		v1.GET("/images/stats", s.handleImageStats)
	}

	return r
}

// Run serves until ctx is done and then drains in-flight requests.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	payload := gin.H{"status": "ok"}
	status := http.StatusOK

	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			payload["status"] = "degraded"
			payload["database"] = gin.H{"status": "unavailable", "error": err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			payload["database"] = gin.H{"status": "ok"}
		}
	}

	payload["timestamp"] = s.now().UTC().Format(time.RFC3339)
	c.JSON(status, payload)
}
