package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"car-advisor/cmd/api/trace"
	"car-advisor/internal/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	maxBodyLog = 1024
)

// RequestTrace 는 모든 inbound 요청에 Request ID 를 보장하고 컨텍스트/헤더에 저장한 뒤
// 요청 완료 로그에 포함시킨다. 외부 API 호출은 span 1,2,3... 으로 이어진다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		c.Request = req.WithContext(trace.WithRequest(req.Context(), requestID))

		span := trace.CurrentSpanID(c.Request.Context())
		c.Request.Header.Set(headerRequestID, requestID)
		c.Request.Header.Set(headerSpanID, span)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Writer.Header().Set(headerSpanID, span)

		bodySnippet := snapshotBody(c.Request)

		c.Next()

		fields := logger.Fields{
			"method":       req.Method,
			"path":         req.URL.Path,
			"query_params": map[string][]string(req.URL.Query()),
			"status":       c.Writer.Status(),
			"duration":     time.Since(start).String(),
			"request_id":   requestID,
			"span_id":      trace.CurrentSpanID(c.Request.Context()),
		}
		if sid := trace.SessionIDFromContext(c.Request.Context()); sid != "" {
			fields["session_id"] = sid
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// snapshotBody 는 JSON/폼 바디 앞부분을 로그용으로 복사하고 Body 를 복원한다.
// 이미지 업로드(multipart)는 기록하지 않는다.
func snapshotBody(req *http.Request) string {
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		return ""
	}
	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	if len(bodyBytes) > maxBodyLog {
		bodyBytes = bodyBytes[:maxBodyLog]
	}
	return string(bodyBytes)
}
