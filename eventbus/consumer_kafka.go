package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"car-advisor/internal/logger"
)

// Subscribe 는 topic 을 구독하고 메시지마다 handler 를 실행합니다. ctx 가 취소되면 반환합니다.
// 분석용 이벤트이므로 재시도 토픽이나 DLQ 없이 처리 후 바로 커밋합니다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID, topic string, handler EventHandler) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  k.Brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return fmt.Errorf("kafka Consumer 생성 실패: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic}, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %s: %w", topic, err)
	}
	logger.InfoWithFields("kafka consumer started", logger.Fields{"group_id": groupID, "topic": topic})

	for {
		select {
		case <-ctx.Done():
			logger.InfoWithFields("kafka consumer stopping", logger.Fields{"group_id": groupID})
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) {
				if kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kerr.IsFatal() {
					return fmt.Errorf("kafka consumer 치명적 오류: %w", err)
				}
			}
			logger.WarnWithFields("kafka read failed", logger.Fields{"error": err.Error()})
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("event payload decode failed, skipping", logger.Fields{"topic": topic, "error": err.Error()})
		} else if err := handler(ctx, evt); err != nil {
			logger.WarnWithFields("event handler failed", logger.Fields{"event_id": evt.ID, "type": evt.Type, "error": err.Error()})
		}

		if _, err := c.CommitMessage(msg); err != nil {
			logger.WarnWithFields("offset commit failed", logger.Fields{"error": err.Error()})
		}
	}
}
