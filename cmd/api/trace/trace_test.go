package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanSequenceIncrementsPerOutboundCall(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-1")
	assert.Equal(t, "0", CurrentSpanID(ctx))

	reqID, span := NextSpanID(ctx)
	assert.Equal(t, "req-1", reqID)
	assert.Equal(t, "1", span)

	_, span = NextSpanID(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpanID(ctx))
}

func TestNextSpanIDWithoutMiddleware(t *testing.T) {
	reqID, span := NextSpanID(context.Background())
	assert.NotEmpty(t, reqID)
	assert.Equal(t, "1", span)
}

func TestWithSessionAttachesToExistingInfo(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-2")
	ctx = WithSession(ctx, "sess-9")
	assert.Equal(t, "req-2", RequestIDFromContext(ctx))
	assert.Equal(t, "sess-9", SessionIDFromContext(ctx))

	bare := WithSession(context.Background(), "sess-1")
	assert.Equal(t, "sess-1", SessionIDFromContext(bare))
	assert.NotEmpty(t, RequestIDFromContext(bare))
}
