package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"car-advisor/db"
	"car-advisor/recommend"
)

// Every repository here satisfies recommend.ResultStore. LoadSnapshot returns
// (nil, nil) when the session has no snapshot or it has expired.

type memoryEntry struct {
	snap      recommend.Snapshot
	expiresAt time.Time
}

// MemorySnapshotRepository keeps snapshots in process memory.
type MemorySnapshotRepository struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]memoryEntry
}

func NewMemorySnapshotRepository(ttl time.Duration) *MemorySnapshotRepository {
	return &MemorySnapshotRepository{ttl: ttl, now: time.Now, items: map[string]memoryEntry{}}
}

func (r *MemorySnapshotRepository) SaveSnapshot(_ context.Context, snap recommend.Snapshot) error {
	if snap.SessionKey == "" {
		return errors.New("snapshot has no session key")
	}
	var expires time.Time
	if r.ttl > 0 {
		expires = r.now().Add(r.ttl)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[snap.SessionKey] = memoryEntry{snap: cloneSnapshot(snap), expiresAt: expires}
	return nil
}

func (r *MemorySnapshotRepository) LoadSnapshot(_ context.Context, sessionKey string) (*recommend.Snapshot, error) {
	r.mu.RLock()
	e, ok := r.items[sessionKey]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt) {
		r.mu.Lock()
		delete(r.items, sessionKey)
		r.mu.Unlock()
		return nil, nil
	}
	snap := cloneSnapshot(e.snap)
	return &snap, nil
}

func cloneSnapshot(s recommend.Snapshot) recommend.Snapshot {
	s.Preferences = s.Preferences.Clone()
	results := make([]recommend.Result, len(s.Results))
	for i, res := range s.Results {
		res.Features = append([]string(nil), res.Features...)
		res.Estimated = append([]string(nil), res.Estimated...)
		if res.Specs != nil {
			specs := make(map[string]string, len(res.Specs))
			for k, v := range res.Specs {
				specs[k] = v
			}
			res.Specs = specs
		}
		results[i] = res
	}
	s.Results = results
	return s
}

// MongoSnapshotRepository stores one document per session. Expiry is handled
// by the TTL index on saved_at created in db.ConnectMongo.
type MongoSnapshotRepository struct {
	col *mongo.Collection
}

func NewMongoSnapshotRepository(d *mongo.Database) *MongoSnapshotRepository {
	return &MongoSnapshotRepository{col: d.Collection(db.SnapshotCollection)}
}

// SaveSnapshot replaces the session's snapshot, inserting it when absent.
func (r *MongoSnapshotRepository) SaveSnapshot(ctx context.Context, snap recommend.Snapshot) error {
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"session_key": snap.SessionKey}, snap, opts)
	return err
}

func (r *MongoSnapshotRepository) LoadSnapshot(ctx context.Context, sessionKey string) (*recommend.Snapshot, error) {
	var snap recommend.Snapshot
	err := r.col.FindOne(ctx, bson.M{"session_key": sessionKey}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

const redisKeyPrefix = "advisor:snapshot:"

// RedisSnapshotRepository stores JSON-encoded snapshots with a key TTL.
type RedisSnapshotRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSnapshotRepository(rdb *redis.Client, ttl time.Duration) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{rdb: rdb, ttl: ttl}
}

func redisKey(sessionKey string) string { return redisKeyPrefix + sessionKey }

func (r *RedisSnapshotRepository) SaveSnapshot(ctx context.Context, snap recommend.Snapshot) error {
	buf, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKey(snap.SessionKey), buf, r.ttl).Err()
}

func (r *RedisSnapshotRepository) LoadSnapshot(ctx context.Context, sessionKey string) (*recommend.Snapshot, error) {
	buf, err := r.rdb.Get(ctx, redisKey(sessionKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap recommend.Snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

var (
	_ recommend.ResultStore = (*MemorySnapshotRepository)(nil)
	_ recommend.ResultStore = (*MongoSnapshotRepository)(nil)
	_ recommend.ResultStore = (*RedisSnapshotRepository)(nil)
)
