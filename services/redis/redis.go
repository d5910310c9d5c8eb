package redis

import (
	redis_models "Bullpen/models/redis"
	redis_utils "Bullpen/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSnapshotTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisClient creates a new Redis client instance. Anything other than a
// plain localhost address is parsed as a redis:// URL
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("[REDIS] Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		if DB != 0 {
			opt.DB = DB
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
		ttl:    defaultSnapshotTTL,
	}, nil
}

// SetSnapshotTTL changes how long archived rooms are kept
func (rc *RedisClient) SetSnapshotTTL(ttl time.Duration) {
	if ttl > 0 {
		rc.ttl = ttl
	}
}

// SaveRoomSnapshot stores the public state of a room
// Key format: "room:{id}"
// TTL: snapshot TTL, 24 hours unless configured
func (rc *RedisClient) SaveRoomSnapshot(snapshot *redis_models.RoomSnapshot) error {
	key := redis_utils.FormatRoomSnapshotKey(snapshot.Id)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling room snapshot: %v", err)
	}
	if err := rc.client.Set(rc.ctx, key, data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("error saving room snapshot: %v", err)
	}
	return nil
}

// GetRoomSnapshot retrieves an archived room
// Key format: "room:{id}"
// Returns: nil, nil when the key does not exist
func (rc *RedisClient) GetRoomSnapshot(roomId string) (*redis_models.RoomSnapshot, error) {
	key := redis_utils.FormatRoomSnapshotKey(roomId)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting room snapshot: %v", err)
	}

	var snapshot redis_models.RoomSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error unmarshaling room snapshot: %v", err)
	}
	return &snapshot, nil
}

// DeleteRoomSnapshot removes an archived room
func (rc *RedisClient) DeleteRoomSnapshot(roomId string) error {
	key := redis_utils.FormatRoomSnapshotKey(roomId)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting room snapshot: %v", err)
	}
	return nil
}

// CountRoomSnapshots walks the archive with SCAN, it never blocks the server like KEYS
func (rc *RedisClient) CountRoomSnapshots() (int, error) {
	count := 0
	iter := rc.client.Scan(rc.ctx, 0, redis_utils.FormatRoomPattern(), 100).Iterator()
	for iter.Next(rc.ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("error scanning room snapshots: %v", err)
	}
	return count, nil
}
