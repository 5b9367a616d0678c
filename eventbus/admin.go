package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// EnsureTopic 은 이벤트 토픽을 생성합니다.
// 이미 존재하는 토픽에 대해서는 성공으로 간주합니다.
func EnsureTopic(ctx context.Context, brokers, topic string, partitions int) error {
	if partitions <= 0 {
		partitions = 1
	}
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("AdminClient 생성 실패: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}})
	if err != nil {
		return fmt.Errorf("토픽 생성 요청 실패: %w", err)
	}

	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("토픽 %s 생성 실패: %v", r.Topic, r.Error)
		}
	}
	return nil
}
