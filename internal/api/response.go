package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docsync/internal/domain"
)

type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data, Timestamp: s.now().UTC()})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}

	code := domain.ErrorCode(err)
	if errors.Is(err, domain.ErrActiveTaskExists) || errors.Is(err, domain.ErrTaskNotClaimable) {
		code = "CONFLICT"
	}

	c.AbortWithStatusJSON(status, envelope{
		Error:     &apiError{Code: code, Message: err.Error()},
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.fail(c, fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err))
		return false
	}
	return true
}
