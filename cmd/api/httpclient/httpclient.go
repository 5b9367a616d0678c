package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"car-advisor/cmd/api/trace"
	"car-advisor/internal/logger"
)

const maxBodyLog = 1024

// Config 는 외부 API 호출용 http.Client 공통 설정이다.
type Config struct {
	Timeout time.Duration
	// RequestsPerSecond 가 0 보다 크면 아웃바운드 호출을 토큰 버킷으로 제한한다.
	RequestsPerSecond float64
	Burst             int
	Transport         http.RoundTripper
}

// loggingRoundTripper 는 모든 아웃바운드 호출에 대해 로깅, X-Request-Id 전파,
// 호출 속도 제한을 수행한다.
type loggingRoundTripper struct {
	inner   http.RoundTripper
	limiter *rate.Limiter
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("httpclient: rate limit wait: %w", err)
		}
	}

	start := time.Now()
	requestID, spanID := trace.NextSpanID(ctx)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("X-Span-Id", spanID)

	bodySnippet := snapshotBody(req)

	resp, err := l.inner.RoundTrip(req)
	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"duration":   time.Since(start).String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if sid := trace.SessionIDFromContext(ctx); sid != "" {
		fields["session_id"] = sid
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// snapshotBody 는 로깅용으로 요청 바디 앞부분을 읽고, 전송을 위해 바디를 복원한다.
// multipart 바디는 바이너리일 수 있어 기록하지 않는다.
func snapshotBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody {
		return ""
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		return ""
	}
	bodyBytes, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err != nil || len(bodyBytes) == 0 {
		return ""
	}
	if len(bodyBytes) > maxBodyLog {
		return string(bodyBytes[:maxBodyLog])
	}
	return string(bodyBytes)
}

// BaseClient 는 http.Client 와 baseURL 을 묶어 요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewBaseClient(baseURL string, cfg Config) *BaseClient {
	return &BaseClient{
		HTTPClient: New(cfg),
		BaseURL:    baseURL,
	}
}

// NewBaseClientWithClient 는 이미 만들어진 http.Client 를 사용한다. nil 이면 기본 클라이언트를 쓴다.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = NewDefault()
	}
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    baseURL,
	}
}

// NewRequest 는 baseURL 에 relPath 를 붙여 요청을 만든다.
// 쿼리는 반드시 query 인자로 넘겨야 하며 relPath 에 '?' 가 있으면 에러를 반환한다.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New 는 설정에 맞는 http.Client 를 만든다. Timeout 이 0이면 10초를 사용한다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	inner := cfg.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: inner, limiter: limiter},
	}
}

func NewDefault() *http.Client {
	return New(Config{})
}
