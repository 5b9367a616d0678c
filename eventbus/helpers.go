package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩하여 Event 를 구성합니다.
// id 가 빈 문자열이면 uuid 를 생성합니다.
func NewJSONEvent(id, eventType, key string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal 실패: %w", err)
	}
	return Event{ID: id, Type: eventType, Key: key, Payload: b}, nil
}

// DecodeJSON은 Event.Payload를 제네릭 타입으로 언마샬합니다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal 실패: %w", err)
	}
	return out, nil
}
