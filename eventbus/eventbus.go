package eventbus

import (
	"context"
	"encoding/json"
	"errors"
)

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Key     string          `json:"key,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus 는 도메인 이벤트 발행의 추상화입니다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// EventHandler 는 구독한 이벤트 한 건을 처리합니다. 에러는 로그로만 남고 오프셋은 커밋됩니다.
type EventHandler func(ctx context.Context, event Event) error

// ErrClosed 는 Close 이후 Publish 가 호출되었을 때 반환됩니다.
var ErrClosed = errors.New("eventbus: closed")
