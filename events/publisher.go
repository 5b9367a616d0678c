package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"car-advisor/internal/logger"
	"car-advisor/eventbus"
)

// Publisher 는 도메인 이벤트를 비동기로 발행한다. 발행 실패는 로그만 남기고
// 요청 처리 결과에 영향을 주지 않는다.
type Publisher struct {
	bus     eventbus.EventBus
	topic   string
	timeout time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

func NewPublisher(bus eventbus.EventBus, topic string) *Publisher {
	if bus == nil {
		bus = eventbus.NoopEventBus{}
	}
	return &Publisher{bus: bus, topic: topic, timeout: 5 * time.Second, now: time.Now}
}

// Emit 은 base 필드를 채운 뒤 백그라운드에서 발행한다.
func (p *Publisher) Emit(sessionID string, eventType EventType, ev Typed) {
	if p == nil {
		return
	}
	base := ev.Base()
	base.ID = uuid.NewString()
	base.Type = eventType
	base.Timestamp = p.now().UTC()
	base.Source = Source
	base.Version = Version
	base.SessionID = sessionID

	msg, err := eventbus.NewJSONEvent(base.ID, string(eventType), sessionID, ev)
	if err != nil {
		logger.ErrorWithFields("event encode failed", logger.Fields{"type": string(eventType), "error": err.Error()})
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.bus.Publish(ctx, p.topic, msg); err != nil {
			logger.WarnWithFields("event publish failed", logger.Fields{
				"type":       string(eventType),
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}()
}

// Wait 는 진행 중인 발행이 끝날 때까지 기다린다. 종료 시와 테스트에서 사용한다.
func (p *Publisher) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
