package config

import (
	"Bullpen/services/redis"
	"log"
)

// ConnectRedis opens the snapshot archive. It returns nil, nil when no URL is configured
func ConnectRedis(cfg *Config) (*redis.RedisClient, error) {
	if cfg.RedisURL == "" {
		log.Println("[REDIS] REDIS_URL not set, room snapshots are kept in memory only")
		return nil, nil
	}
	redisClient, err := redis.InitRedis(cfg.RedisURL, cfg.RedisDB)
	if err != nil {
		log.Printf("[REDIS-ERROR] Error connecting to Redis: %v", err)
		return nil, err
	}
	redisClient.SetSnapshotTTL(cfg.SnapshotTTL)
	log.Println("[REDIS] Redis connection established")

	if count, err := redisClient.CountRoomSnapshots(); err != nil {
		log.Printf("[REDIS-ERROR] Error counting archived rooms: %v", err)
	} else {
		log.Printf("[REDIS] %d archived rooms", count)
	}
	return redisClient, nil
}
