package notify

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans real-time events out to a user's open streams.
type Hub interface {
	Publish(ctx context.Context, userID uint, payload []byte) error
	// Subscribe returns a channel closed when ctx ends.
	Subscribe(ctx context.Context, userID uint) <-chan []byte
}

func Channel(userID uint) string {
	return "notifications:" + strconv.FormatUint(uint64(userID), 10)
}

// NewHub uses Redis pub/sub when a client is given, otherwise an in-process hub.
func NewHub(rdb *redis.Client) Hub {
	if rdb == nil {
		return NewLocalHub()
	}
	return &RedisHub{rdb: rdb}
}

// ------------------------------------------------------------
// Local
// ------------------------------------------------------------

type LocalHub struct {
	mu   sync.Mutex
	subs map[uint]map[chan []byte]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: map[uint]map[chan []byte]struct{}{}}
}

func (h *LocalHub) Publish(_ context.Context, userID uint, payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- payload:
		default:
			// slow reader; it will refetch on the next event
		}
	}
	return nil
}

func (h *LocalHub) Subscribe(ctx context.Context, userID uint) <-chan []byte {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = map[chan []byte]struct{}{}
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[userID], ch)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
		close(ch)
		h.mu.Unlock()
	}()

	return ch
}

// ------------------------------------------------------------
// Redis
// ------------------------------------------------------------

type RedisHub struct {
	rdb *redis.Client
}

func (h *RedisHub) Publish(ctx context.Context, userID uint, payload []byte) error {
	if err := h.rdb.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel(userID), err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, userID uint) <-chan []byte {
	out := make(chan []byte, 16)
	sub := h.rdb.Subscribe(ctx, Channel(userID))

	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(m.Payload):
				default:
				}
			}
		}
	}()

	return out
}
