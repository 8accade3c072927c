package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docsync/internal/docref"
	"docsync/internal/domain"
	"docsync/internal/service"
)

func (s *Server) handleCreateTasks(c *gin.Context) {
	var req service.CreateTasksRequest
	if !s.bind(c, &req) {
		return
	}

	resp, err := s.tasks.CreateTasks(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	status := http.StatusOK
	if resp.Created > 0 {
		status = http.StatusCreated
	}
	s.ok(c, status, resp)
}

func (s *Server) handleListTasks(c *gin.Context) {
	filter := domain.TaskFilter{Status: domain.TaskStatus(c.Query("status"))}

	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		s.fail(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		s.fail(c, err)
		return
	}

	tasks, err := s.tasks.ListTasks(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, task)
}

func (s *Server) handleRetryTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.RetryTask(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, task)
}

type retryRequest struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) handleRetryFailed(c *gin.Context) {
	var req retryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(c, fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err))
		return
	}

	ids, err := s.tasks.RetryFailed(c.Request.Context(), req.IDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	s.ok(c, http.StatusOK, gin.H{"requeued": ids, "count": len(ids)})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.tasks.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, stats)
}

type parseURLRequest struct {
	URL      string          `json:"url"`
	Platform domain.Platform `json:"platform"`
}

func (s *Server) handleParseURL(c *gin.Context) {
	var req parseURLRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Platform == "" {
		req.Platform = domain.PlatformFeishu
	}

	ref, err := docref.Parse(req.URL, req.Platform)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, ref)
}

func (s *Server) handleScanFolder(c *gin.Context) {
	var req service.ScanRequest
	if !s.bind(c, &req) {
		return
	}

	result, err := s.tasks.ScanFolder(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, result)
}

func (s *Server) handleListConfigs(c *gin.Context) {
	configs, err := s.tasks.ListConfigs(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, configs)
}

func (s *Server) handleUpsertConfig(c *gin.Context) {
	var cfg domain.SyncConfig
	if !s.bind(c, &cfg) {
		return
	}

	if err := s.tasks.UpsertConfig(c.Request.Context(), &cfg); err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, cfg)
}

func (s *Server) handleImageStats(c *gin.Context) {
	if s.images == nil {
		s.fail(c, fmt.Errorf("%w: image store", domain.ErrConfigMissing))
		return
	}

	stats, err := s.images.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, stats)
}

func (s *Server) taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.fail(c, fmt.Errorf("%w: invalid task id %q", domain.ErrValidation, c.Param("id")))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, key, raw)
	}
	return n, nil
}
