// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/perchgames/slaptable/internal/game"
)

// DefaultQueueName is the Redis list the event feed pushes to when no override
// is configured.
const DefaultQueueName = "slaptable_events"

// Entry is one broadcast event as seen by an external consumer of the feed.
// Seq increments per room in emission order, so a consumer can rely on it even
// where Timestamp's millisecond resolution ties.
type Entry struct {
	RoomID    string `json:"room_id"`
	Seq       int64  `json:"seq"`
	EventType string `json:"event_type"`
	PlayerID  string `json:"player_id,omitempty"`
	CardID    string `json:"card_id,omitempty"`
	SlapTS    string `json:"slap_ts,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// EntryFromEvent flattens a room event into a feed entry. Table snapshots are
// recorded as bare state.table markers; the consumer can replay the action
// stream to reconstruct them.
func EntryFromEvent(roomID string, seq int64, ev game.Event) Entry {
	return Entry{
		RoomID:    roomID,
		Seq:       seq,
		EventType: string(ev.Type),
		PlayerID:  ev.PlayerID,
		CardID:    ev.CardID,
		SlapTS:    ev.TS,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Recorder pushes room events onto a Redis list as an append-only feed for an
// external consumer. It never feeds state back into the game; failures are the
// caller's to log and ignore.
type Recorder struct {
	rdb   *redis.Client
	queue string
}

// New connects a Recorder to Redis and verifies the connection with a short
// ping. queue may be empty to use DefaultQueueName.
func New(addr string, db int, queue string) (*Recorder, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Recorder{rdb: rdb, queue: queue}, nil
}

// Record serializes the entry to JSON and pushes it onto the feed list.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if err := r.rdb.RPush(ctx, r.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", r.queue, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (r *Recorder) Close() error {
	return r.rdb.Close()
}
