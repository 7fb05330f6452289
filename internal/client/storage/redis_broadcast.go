package storage

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/mkalvans/farmline/internal/common"
	"github.com/mkalvans/farmline/internal/logging"
)

// RedisBroadcaster relays session events between client instances over a
// Redis pub/sub channel. Each instance publishes with its own origin ID and
// drops incoming events carrying that ID, so a writer never reacts to its
// own write.
type RedisBroadcaster struct {
	rdb    *redis.Client
	origin string
	log    logging.Logger
}

func NewRedisBroadcaster(rdb *redis.Client, origin string, log logging.Logger) *RedisBroadcaster {
	if log == nil {
		log = logging.Nop()
	}
	return &RedisBroadcaster{rdb: rdb, origin: origin, log: log}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, ev Event) error {
	ev.Origin = b.origin
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, common.BroadcastChannel, payload).Err()
}

// Subscribe starts a goroutine draining the pub/sub channel and invoking fn
// for every foreign event. The returned stop function closes the
// subscription; no callbacks fire after it returns.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, fn func(Event)) (func(), error) {
	pubsub := b.rdb.Subscribe(ctx, common.BroadcastChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn(ctx, "dropping malformed session event", "err", err)
				continue
			}
			if ev.Origin == b.origin {
				continue
			}
			fn(ev)
		}
	}()

	stop := func() {
		_ = pubsub.Close()
		<-done
	}
	return stop, nil
}
