// Package recommend turns a completed preference selection into a ranked
// vehicle list using the external recommendation service.
package recommend

import (
	"context"
	"time"

	"car-advisor/internal/logger"
	"car-advisor/wizard"
)

// DefaultTimeout bounds a single recommendation call.
const DefaultTimeout = 12 * time.Second

// Caller performs the POST /recommend round trip. Implementations return
// *StatusError for non-2xx answers and wrap ErrMalformedResponse when the
// body cannot be decoded.
type Caller interface {
	Recommend(ctx context.Context, req Request) (*Response, error)
}

// ResultStore keeps the last successful result set per browsing session.
type ResultStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadSnapshot(ctx context.Context, sessionKey string) (*Snapshot, error)
}

type Option func(*Gateway)

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithStore(s ResultStore) Option {
	return func(g *Gateway) { g.store = s }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

type Gateway struct {
	caller  Caller
	store   ResultStore
	timeout time.Duration
	now     func() time.Time
}

func NewGateway(caller Caller, opts ...Option) *Gateway {
	g := &Gateway{caller: caller, timeout: DefaultTimeout, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Recommend issues exactly one request for sel and returns the normalised
// results in provider order. Failures are always *Error; the caller decides
// whether to substitute Fallback().
func (g *Gateway) Recommend(ctx context.Context, sessionKey string, sel wizard.Selection) ([]Result, error) {
	if ferr := sel.Validate(); ferr != nil {
		return nil, &Error{Kind: KindInvalidInput, Reason: ferr.Error(), Err: ferr}
	}

	req := NewRequest(sel)
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := g.now()
	resp, err := g.caller.Recommend(callCtx, req)
	if err != nil {
		rerr := classify(callCtx, err)
		logger.WarnWithFields("recommendation call failed", logger.Fields{
			"session_id":  sessionKey,
			"kind":        string(rerr.Kind),
			"status_code": rerr.StatusCode,
			"error":       err.Error(),
		})
		return nil, rerr
	}
	if resp == nil || resp.TopRecommendations == nil {
		return nil, &Error{Kind: KindMalformed, Reason: "recommendation response has no top_recommendations", Err: ErrMalformedResponse}
	}

	results := MapCandidates(resp.TopRecommendations, sel)
	if len(results) == 0 && len(resp.TopRecommendations) > 0 {
		return nil, &Error{Kind: KindMalformed, Reason: "recommendation response has no usable vehicles", Err: ErrMalformedResponse}
	}

	logger.InfoWithFields("recommendations received", logger.Fields{
		"session_id":  sessionKey,
		"count":       len(results),
		"duration_ms": g.now().Sub(started).Milliseconds(),
	})

	if g.store != nil && sessionKey != "" {
		snap := Snapshot{
			SessionKey:  sessionKey,
			Preferences: sel.Clone(),
			Results:     results,
			SavedAt:     g.now().UTC(),
		}
		if err := g.store.SaveSnapshot(ctx, snap); err != nil {
			logger.WarnWithFields("failed to persist recommendation snapshot", logger.Fields{
				"session_id": sessionKey,
				"error":      err.Error(),
			})
		}
	}
	return results, nil
}

// Last returns the most recent snapshot for the session, or nil when none
// was stored or no store is configured.
func (g *Gateway) Last(ctx context.Context, sessionKey string) (*Snapshot, error) {
	if g.store == nil || sessionKey == "" {
		return nil, nil
	}
	return g.store.LoadSnapshot(ctx, sessionKey)
}
