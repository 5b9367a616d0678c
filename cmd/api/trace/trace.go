package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info 는 inbound 요청 하나의 트레이싱 정보다.
// spanSeq 는 같은 요청 안에서 외부 API 를 호출할 때마다 1씩 증가한다.
type Info struct {
	RequestID string
	SessionID string
	spanSeq   int64
}

// GenerateID 는 16바이트 랜덤 hex ID 를 만든다.
func GenerateID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UTC().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

// WithRequest 는 Request ID 를 담은 새 컨텍스트를 만든다. span 시퀀스는 0에서 시작한다.
func WithRequest(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID})
}

// WithSession 은 이미 트레이싱 정보가 있는 컨텍스트에 브라우징 세션 ID 를 기록한다.
func WithSession(ctx context.Context, sessionID string) context.Context {
	info := infoFromContext(ctx)
	if info == nil {
		return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: GenerateID(), SessionID: sessionID})
	}
	info.SessionID = sessionID
	return ctx
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.SessionID
	}
	return ""
}

// CurrentSpanID 는 현재 span 값을 증가시키지 않고 반환한다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID 는 span 시퀀스를 1 증가시키고 (requestID, spanID) 를 반환한다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	return info.RequestID, strconv.FormatInt(val, 10)
}
