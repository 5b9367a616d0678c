package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis 는 Redis 클라이언트를 만들고 ping 으로 연결을 확인한다.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
