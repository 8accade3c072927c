package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docsync/internal/domain"
)

const (
	headerTimestamp = "X-Lark-Request-Timestamp"
	headerNonce     = "X-Lark-Request-Nonce"
	headerSignature = "X-Lark-Signature"
)

type webhookPayload struct {
	Challenge string `json:"challenge"`
	Header    struct {
		EventID   string `json:"event_id"`
		EventType string `json:"event_type"`
	} `json:"header"`
	Event struct {
		FileToken string `json:"file_token"`
		FileType  string `json:"file_type"`
		AppToken  string `json:"app_token"`
		TableID   string `json:"table_id"`
	} `json:"event"`
}

func (s *Server) handleFeishuWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		s.fail(c, fmt.Errorf("%w: empty request body", domain.ErrValidation))
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.fail(c, fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err))
		return
	}

	if payload.Challenge != "" {
		c.JSON(http.StatusOK, gin.H{"challenge": payload.Challenge})
		return
	}

	if s.opts.WebhookSecret != "" {
		timestamp := c.GetHeader(headerTimestamp)
		nonce := c.GetHeader(headerNonce)
		if !VerifySignature(s.opts.WebhookSecret, timestamp, nonce, body, c.GetHeader(headerSignature)) {
			s.logger.Warn("webhook signature rejected", "event_id", payload.Header.EventID)
			s.fail(c, fmt.Errorf("%w: invalid webhook signature", domain.ErrAuthenticationFailed))
			return
		}
	}

	eventType := payload.Header.EventType
	logger := s.logger.With("event_type", eventType, "event_id", payload.Header.EventID)

	var (
		documentID  string
		contentType domain.ContentType
		msg         string
	)
	switch {
	case eventType == "drive.file.edit_v1" || eventType == "drive.file.title_updated_v1":
		documentID, contentType, msg = payload.Event.FileToken, domain.ContentDocument, "document event processed"
	case strings.HasPrefix(eventType, "bitable"):
		documentID, contentType, msg = payload.Event.AppToken, domain.ContentDatabase, "bitable event processed"
	default:
		logger.Info("webhook event ignored")
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "event ignored"})
		return
	}

	if documentID == "" {
		s.fail(c, fmt.Errorf("%w: event has no document token", domain.ErrValidation))
		return
	}

	result, err := s.tasks.HandleDocumentEvent(c.Request.Context(), domain.PlatformFeishu, documentID, contentType)
	if err != nil {
		logger.Error("handle webhook event", "document_id", documentID, "error", err)
		s.fail(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "sync disabled"})
		return
	}

	logger.Info("webhook event enqueued", "document_id", documentID, "task_id", result.Task.ID, "outcome", result.Outcome)
	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": msg, "task_id": result.Task.ID})
}

// VerifySignature checks the hex HMAC-SHA256 of timestamp, nonce, secret and
// body keyed by secret.
func VerifySignature(secret, timestamp, nonce string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(secret, timestamp, nonce, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func Sign(secret, timestamp, nonce string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s%s%s", timestamp, nonce, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
