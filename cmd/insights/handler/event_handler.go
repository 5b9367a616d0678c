package handler

import (
	"context"

	"car-advisor/internal/logger"
	"car-advisor/eventbus"
	"car-advisor/events"
)

type EventHandlers struct {
	tally *Tally
}

func NewEventHandlers(tally *Tally) *EventHandlers {
	return &EventHandlers{tally: tally}
}

// Dispatch 는 이벤트 타입별 핸들러로 넘긴다. 알 수 없는 타입은 무시한다.
func (h *EventHandlers) Dispatch(ctx context.Context, ev eventbus.Event) error {
	switch events.EventType(ev.Type) {
	case events.RecommendationServed:
		v, err := eventbus.DecodeJSON[events.RecommendationServedEvent](ev)
		if err != nil {
			return err
		}
		h.HandleRecommendationServed(ctx, &v)
	case events.RecommendationFallback:
		v, err := eventbus.DecodeJSON[events.RecommendationFallbackEvent](ev)
		if err != nil {
			return err
		}
		h.HandleRecommendationFallback(ctx, &v)
	case events.ChatOpened:
		v, err := eventbus.DecodeJSON[events.ChatOpenedEvent](ev)
		if err != nil {
			return err
		}
		h.HandleChatOpened(ctx, &v)
	case events.ChatReplyServed:
		v, err := eventbus.DecodeJSON[events.ChatReplyServedEvent](ev)
		if err != nil {
			return err
		}
		h.HandleChatReplyServed(ctx, &v)
	case events.GarageAnalyzed:
		v, err := eventbus.DecodeJSON[events.GarageAnalyzedEvent](ev)
		if err != nil {
			return err
		}
		h.HandleGarageAnalyzed(ctx, &v)
	default:
		logger.DebugWithFields("ignoring unknown event", logger.Fields{"type": ev.Type, "event_id": ev.ID})
	}
	return nil
}

func (h *EventHandlers) HandleRecommendationServed(_ context.Context, e *events.RecommendationServedEvent) {
	t := h.tally
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.markSeen(e.ID) {
		return
	}
	t.served++
	if e.ResultCount == 0 {
		t.empty++
		return
	}
	t.topScoreSum += e.TopScore
	t.topScoreSamples++
	if e.TopVehicleID != "" {
		t.topVehicles[e.TopVehicleID]++
	}
}

func (h *EventHandlers) HandleRecommendationFallback(_ context.Context, e *events.RecommendationFallbackEvent) {
	t := h.tally
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.markSeen(e.ID) {
		return
	}
	kind := e.Kind
	if kind == "" {
		kind = "unknown"
	}
	t.fallbacks[kind]++
	logger.WarnWithFields("recommendation fallback observed", logger.Fields{
		"session_id":  e.SessionID,
		"kind":        kind,
		"status_code": e.StatusCode,
	})
}

func (h *EventHandlers) HandleChatOpened(_ context.Context, e *events.ChatOpenedEvent) {
	t := h.tally
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.markSeen(e.ID) {
		return
	}
	t.chatsOpened++
	t.opened[e.VehicleID]++
}

func (h *EventHandlers) HandleChatReplyServed(_ context.Context, e *events.ChatReplyServedEvent) {
	t := h.tally
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.markSeen(e.ID) {
		return
	}
	t.replies[e.Tier]++
	if e.Degraded {
		t.degraded++
	}
}

func (h *EventHandlers) HandleGarageAnalyzed(_ context.Context, e *events.GarageAnalyzedEvent) {
	t := h.tally
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.markSeen(e.ID) {
		return
	}
	t.garage++
	if !e.Success {
		t.garageF++
		return
	}
	if e.SeverityLevel != "" {
		t.severity[e.SeverityLevel]++
	}
}
