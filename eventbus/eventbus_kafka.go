package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"car-advisor/internal/logger"
)

// KafkaEventBus는 confluent-kafka-go 라이브러리를 사용한 EventBus 구현체입니다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string

	closeOnce sync.Once
}

// NewKafkaEventBus는 Kafka Producer를 초기화합니다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5, // 일시적인 오류는 Producer 가 최대 5회 재시도
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// 전달 보고서 등 Producer 이벤트 처리
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("kafka message delivery failed", logger.Fields{
						"topic_partition": ev.TopicPartition.String(),
						"error":           ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.ErrorWithFields("kafka error", logger.Fields{"error": ev.Error()})
			}
		}
	}()

	return &KafkaEventBus{Producer: p, Brokers: brokers}, nil
}

// Close는 남은 메시지를 플러시한 뒤 Producer를 종료합니다.
func (k *KafkaEventBus) Close() {
	k.closeOnce.Do(func() {
		if k.Producer == nil {
			return
		}
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			logger.WarnWithFields("kafka flush left undelivered messages", logger.Fields{"remaining": remaining})
		}
		k.Producer.Close()
		logger.InfoWithFields("Kafka Producer 종료", nil)
	})
}

// Publish는 지정된 토픽에 이벤트를 발행하고 전달 보고를 기다립니다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	key := event.Key
	if key == "" {
		key = event.ID
	}

	// 버퍼 1: ctx 취소 후 도착하는 전달 보고가 Producer 를 막지 않도록 한다
	deliveryChan := make(chan kafka.Event, 1)
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(key),
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
