package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	driverStateTTL      = time.Hour
	emissionsSummaryTTL = 5 * time.Minute

	channelShipmentUpdates = "shipment:updates"
	channelDriverLocations = "driver:location:updates"
)

func driverLocationKey(driverID uint) string {
	return fmt.Sprintf("driver:location:%d", driverID)
}

func driverAvailabilityKey(driverID uint) string {
	return fmt.Sprintf("driver:availability:%d", driverID)
}

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

type driverPosition struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Heading float64 `json:"heading"`
	Updated int64   `json:"updated"`
}

// SetDriverLocation stores the latest driver position with a TTL so stale
// drivers age out of live tracking on their own
func SetDriverLocation(ctx context.Context, driverID uint, lat, lng, heading float64) error {
	data, err := json.Marshal(driverPosition{Lat: lat, Lng: lng, Heading: heading, Updated: time.Now().Unix()})
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, driverLocationKey(driverID), data, driverStateTTL).Err()
}

// GetDriverLocation retrieves the latest driver position
func GetDriverLocation(ctx context.Context, driverID uint) (lat, lng, heading float64, err error) {
	data, err := RedisClient.Get(ctx, driverLocationKey(driverID)).Result()
	if err != nil {
		return 0, 0, 0, err
	}

	var pos driverPosition
	if err := json.Unmarshal([]byte(data), &pos); err != nil {
		return 0, 0, 0, err
	}
	return pos.Lat, pos.Lng, pos.Heading, nil
}

// SetDriverAvailability mirrors the driver's availability flag for quick
// dispatch checks; the users table stays authoritative
func SetDriverAvailability(ctx context.Context, driverID uint, isAvailable bool) error {
	value := "false"
	if isAvailable {
		value = "true"
	}
	return RedisClient.Set(ctx, driverAvailabilityKey(driverID), value, driverStateTTL).Err()
}

// GetDriverAvailability retrieves the mirrored availability flag
func GetDriverAvailability(ctx context.Context, driverID uint) (bool, error) {
	result, err := RedisClient.Get(ctx, driverAvailabilityKey(driverID)).Result()
	if err != nil {
		return false, err
	}
	return result == "true", nil
}

// CacheEmissionsSummary caches a serialized dashboard summary for a short
// window so dashboard renders do not refold the whole entry table each time
func CacheEmissionsSummary(ctx context.Context, key string, summary interface{}) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "emissions:summary:"+key, data, emissionsSummaryTTL).Err()
}

// GetCachedEmissionsSummary retrieves a cached dashboard summary
func GetCachedEmissionsSummary(ctx context.Context, key string, out interface{}) error {
	data, err := RedisClient.Get(ctx, "emissions:summary:"+key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), out)
}

// PublishShipmentUpdate fans a shipment status change out over pub/sub for
// any horizontally scaled API instances holding WebSocket clients
func PublishShipmentUpdate(ctx context.Context, shipmentID uint, status string, data map[string]interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"shipmentId": shipmentID,
		"status":     status,
		"data":       data,
		"timestamp":  time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return RedisClient.Publish(ctx, channelShipmentUpdates, payload).Err()
}

// PublishDriverLocation fans a driver position out over pub/sub
func PublishDriverLocation(ctx context.Context, driverID uint, lat, lng, heading float64) error {
	payload, err := json.Marshal(map[string]interface{}{
		"driverId":  driverID,
		"location":  driverPosition{Lat: lat, Lng: lng, Heading: heading},
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return RedisClient.Publish(ctx, channelDriverLocations, payload).Err()
}
