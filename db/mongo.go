package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"car-advisor/internal/logger"
)

const (
	DefaultMongoURI = "mongodb://localhost:27017"
	DefaultMongoDB  = "caradvisor"

	SnapshotCollection = "recommendation_snapshots"
)

// ConnectMongo 는 Mongo 클라이언트를 만들고 ping 으로 연결을 확인한 뒤 인덱스를 보장한다.
// ttl 이 0 보다 크면 스냅샷 컬렉션의 saved_at 에 TTL 인덱스를 건다.
func ConnectMongo(ctx context.Context, uri, dbName string, ttl time.Duration) (*mongo.Database, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if dbName == "" {
		dbName = DefaultMongoDB
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, err
	}

	d := cl.Database(dbName)
	if err := ensureIndexes(ctx, d, ttl); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, err
	}
	logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{"db": dbName})
	return d, nil
}

func ensureIndexes(ctx context.Context, d *mongo.Database, ttl time.Duration) error {
	col := d.Collection(SnapshotCollection)

	// 세션당 스냅샷 한 건
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_key", Value: 1}},
		Options: options.Index().SetName("uniq_session_key").SetUnique(true),
	}); err != nil {
		return err
	}

	if ttl > 0 {
		if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "saved_at", Value: 1}},
			Options: options.Index().SetName("ttl_saved_at").SetExpireAfterSeconds(int32(ttl.Seconds())),
		}); err != nil {
			return err
		}
	}
	return nil
}
