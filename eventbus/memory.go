package eventbus

import (
	"context"
	"sync"
)

// NoopEventBus 는 브로커가 설정되지 않았을 때 사용하며 모든 이벤트를 버립니다.
type NoopEventBus struct{}

func (NoopEventBus) Publish(context.Context, string, Event) error { return nil }
func (NoopEventBus) Close()                                       {}

// Published 는 MemoryEventBus 에 기록된 발행 한 건이다.
type Published struct {
	Topic string
	Event Event
}

// MemoryEventBus 는 발행된 이벤트를 메모리에 기록한다. 테스트와 로컬 실행용.
type MemoryEventBus struct {
	mu     sync.Mutex
	events []Published
	closed bool
}

func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{}
}

func (m *MemoryEventBus) Publish(_ context.Context, topic string, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.events = append(m.events, Published{Topic: topic, Event: event})
	return nil
}

func (m *MemoryEventBus) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Events 는 지금까지 기록된 이벤트의 복사본을 반환한다.
func (m *MemoryEventBus) Events() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.events...)
}
