// FilePath: internal/events/publisher.go
//
// Occupancy event publishing. Dashboards that do not want to poll GET /app
// can subscribe to the Redis channel; the hub itself never reads these
// events, so publishing is fire-and-forget and fully optional.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// Publisher pushes occupancy updates to interested subscribers.
type Publisher interface {
	PublishReport(ctx context.Context, key, name string, peopleCount int) error
	Close() error
}

// ReportEvent is the payload published on every accepted report.
type ReportEvent struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	PeopleCount int       `json:"people_count"`
	At          time.Time `json:"at"`
}

// RedisPublisher publishes report events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to Redis and returns a publisher on the given
// channel.
func NewRedisPublisher(addr, password string, db int, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	nuts.L.Infof("[Events] Publishing occupancy updates to redis channel %s", channel)
	return &RedisPublisher{client: client, channel: channel}, nil
}

// PublishReport publishes one report event.
func (p *RedisPublisher) PublishReport(ctx context.Context, key, name string, peopleCount int) error {
	payload, err := json.Marshal(ReportEvent{
		Key:         key,
		Name:        name,
		PeopleCount: peopleCount,
		At:          time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Close closes the underlying Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NopPublisher drops every event. Used when no Redis endpoint is configured.
type NopPublisher struct{}

func (NopPublisher) PublishReport(ctx context.Context, key, name string, peopleCount int) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
