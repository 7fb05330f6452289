package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/logging"
)

// Key and channel layout. The backend writes messages; this client only
// reads them. Typing and presence records are written by clients directly.
const (
	messagesKeyPrefix  = "messages:"
	typingKeyPrefix    = "typing:"
	onlineKeyPrefix    = "onlineUsers:"
	messagesChanPrefix = "rt:messages:"
	typingChanPrefix   = "rt:typing:"
	presenceChan       = "rt:presence"
)

func messagesKey(conversationID string) string  { return messagesKeyPrefix + conversationID }
func messagesChan(conversationID string) string { return messagesChanPrefix + conversationID }
func typingChan(conversationID string) string   { return typingChanPrefix + conversationID }

func typingKey(conversationID, userID string) string {
	return typingKeyPrefix + conversationID + ":" + userID
}

// presenceEvent is the payload on the presence channel.
type presenceEvent struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

// RedisStore implements Store over a Redis client: message sets live in
// hashes, typing/presence in keys with TTLs, and change notifications on
// pub/sub channels.
type RedisStore struct {
	rdb       *redis.Client
	onlineTTL time.Duration
	log       logging.Logger
}

func NewRedisStore(rdb *redis.Client, onlineTTL time.Duration, log logging.Logger) *RedisStore {
	if log == nil {
		log = logging.Nop()
	}
	if onlineTTL <= 0 {
		onlineTTL = 30 * time.Second
	}
	return &RedisStore{rdb: rdb, onlineTTL: onlineTTL, log: log}
}

// subscribe opens a pub/sub subscription and runs handler for every payload
// on its own goroutine. The returned cancel closes the subscription and
// waits for the goroutine, so no handler runs after cancel returns.
func (s *RedisStore) subscribe(ctx context.Context, pattern bool, target string, handler func(payload string)) (CancelFunc, error) {
	var pubsub *redis.PubSub
	if pattern {
		pubsub = s.rdb.PSubscribe(ctx, target)
	} else {
		pubsub = s.rdb.Subscribe(ctx, target)
	}
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			handler(msg.Payload)
		}
	}()

	return func() {
		_ = pubsub.Close()
		<-done
	}, nil
}

func (s *RedisStore) snapshot(ctx context.Context, conversationID string) ([]models.Message, error) {
	fields, err := s.rdb.HGetAll(ctx, messagesKey(conversationID)).Result()
	if err != nil {
		return nil, err
	}
	msgs := make([]models.Message, 0, len(fields))
	for id, raw := range fields {
		var m models.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			s.log.Warn(ctx, "skipping malformed message record", "conversation", conversationID, "id", id, "err", err)
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *RedisStore) SubscribeMessages(ctx context.Context, conversationID string, fn func([]models.Message)) (CancelFunc, error) {
	cancel, err := s.subscribe(ctx, false, messagesChan(conversationID), func(string) {
		msgs, err := s.snapshot(ctx, conversationID)
		if err != nil {
			s.log.Warn(ctx, "failed to refresh message snapshot", "conversation", conversationID, "err", err)
			return
		}
		fn(msgs)
	})
	if err != nil {
		return nil, err
	}

	// Initial snapshot, so a newly opened conversation is populated without
	// waiting for the next write.
	msgs, err := s.snapshot(ctx, conversationID)
	if err != nil {
		cancel()
		return nil, err
	}
	fn(msgs)
	return cancel, nil
}

func (s *RedisStore) SubscribeTyping(ctx context.Context, conversationID string, fn func(models.TypingSignal)) (CancelFunc, error) {
	return s.subscribe(ctx, false, typingChan(conversationID), func(payload string) {
		var signal models.TypingSignal
		if err := json.Unmarshal([]byte(payload), &signal); err != nil {
			s.log.Warn(ctx, "skipping malformed typing signal", "conversation", conversationID, "err", err)
			return
		}
		fn(signal)
	})
}

// unreadCounts scans every conversation for unread messages addressed to
// userID and groups them by sender.
func (s *RedisStore) unreadCounts(ctx context.Context, userID string) (map[string]int, error) {
	counts := make(map[string]int)
	iter := s.rdb.Scan(ctx, 0, messagesKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		conversationID := strings.TrimPrefix(iter.Val(), messagesKeyPrefix)
		msgs, err := s.snapshot(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		tallyUnread(counts, msgs, userID)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *RedisStore) SubscribeUnread(ctx context.Context, userID string, fn func(map[string]int)) (CancelFunc, error) {
	cancel, err := s.subscribe(ctx, true, messagesChanPrefix+"*", func(string) {
		counts, err := s.unreadCounts(ctx, userID)
		if err != nil {
			s.log.Warn(ctx, "failed to recompute unread counts", "err", err)
			return
		}
		fn(counts)
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.unreadCounts(ctx, userID)
	if err != nil {
		cancel()
		return nil, err
	}
	fn(counts)
	return cancel, nil
}

func (s *RedisStore) SubscribePresence(ctx context.Context, fn func(userID string, online bool)) (CancelFunc, error) {
	cancel, err := s.subscribe(ctx, false, presenceChan, func(payload string) {
		var ev presenceEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			s.log.Warn(ctx, "skipping malformed presence event", "err", err)
			return
		}
		fn(ev.UserID, ev.Online)
	})
	if err != nil {
		return nil, err
	}

	online, err := s.Online(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	for _, userID := range online {
		fn(userID, true)
	}
	return cancel, nil
}

func (s *RedisStore) WriteTyping(ctx context.Context, conversationID, userID string, typing bool) error {
	signal := models.TypingSignal{
		ConversationID: conversationID,
		UserID:         userID,
		Typing:         typing,
		UpdatedAt:      time.Now().UnixMilli(),
	}

	payload, err := json.Marshal(signal)
	if err != nil {
		return err
	}

	if typing {
		// The record TTL is a backstop; clients expire the indicator
		// themselves after the typing-expiry window.
		if err := s.rdb.Set(ctx, typingKey(conversationID, userID), payload, 10*time.Second).Err(); err != nil {
			return err
		}
	} else {
		if err := s.rdb.Del(ctx, typingKey(conversationID, userID)).Err(); err != nil {
			return err
		}
	}

	return s.rdb.Publish(ctx, typingChan(conversationID), payload).Err()
}

// MarkRead rewrites every unread message addressed to readerID with
// read=true and notifies the conversation channel so subscribers refresh.
func (s *RedisStore) MarkRead(ctx context.Context, conversationID, readerID string) error {
	key := messagesKey(conversationID)
	fields, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}

	updated := readReceipts(fields, readerID, time.Now().UnixMilli())
	for id, payload := range updated {
		if err := s.rdb.HSet(ctx, key, id, payload).Err(); err != nil {
			return err
		}
	}

	if len(updated) == 0 {
		return nil
	}
	return s.rdb.Publish(ctx, messagesChan(conversationID), "read").Err()
}

// readReceipts rewrites the raw message records that readerID has just seen:
// unread messages addressed to them get Read set and ReadAt stamped with now.
// Records already read, addressed elsewhere, or malformed are left out.
func readReceipts(fields map[string]string, readerID string, now int64) map[string][]byte {
	updated := make(map[string][]byte)
	for id, raw := range fields {
		var m models.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		if m.RecipientID != readerID || m.Read {
			continue
		}
		m.Read = true
		m.ReadAt = now
		payload, err := json.Marshal(m)
		if err != nil {
			continue
		}
		updated[id] = payload
	}
	return updated
}

// tallyUnread adds msgs' unread messages addressed to userID into counts,
// grouped by sender.
func tallyUnread(counts map[string]int, msgs []models.Message, userID string) {
	for _, m := range msgs {
		if m.RecipientID == userID && !m.Read {
			counts[m.SenderID]++
		}
	}
}

// SetOnline creates the presence record and keeps it fresh with a heartbeat
// at a third of the TTL. The TTL bounds how long a crashed client can look
// online; the cancel function removes the record immediately on a clean
// shutdown.
func (s *RedisStore) SetOnline(ctx context.Context, userID string) (CancelFunc, error) {
	key := onlineKeyPrefix + userID
	if err := s.rdb.Set(ctx, key, "1", s.onlineTTL).Err(); err != nil {
		return nil, err
	}
	s.publishPresence(ctx, userID, true)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.onlineTTL / 3)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.rdb.Expire(ctx, key, s.onlineTTL).Err(); err != nil {
					s.log.Warn(ctx, "presence heartbeat failed", "user", userID, "err", err)
				}
			case <-stop:
				return
			}
		}
	}()

	return func() {
		close(stop)
		<-done
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.rdb.Del(cleanupCtx, key).Err(); err != nil {
			s.log.Warn(cleanupCtx, "failed to remove presence record", "user", userID, "err", err)
		}
		s.publishPresence(cleanupCtx, userID, false)
	}, nil
}

func (s *RedisStore) publishPresence(ctx context.Context, userID string, online bool) {
	payload, err := json.Marshal(presenceEvent{UserID: userID, Online: online})
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, presenceChan, payload).Err(); err != nil {
		s.log.Warn(ctx, "failed to publish presence event", "user", userID, "err", err)
	}
}

func (s *RedisStore) Online(ctx context.Context) ([]string, error) {
	var users []string
	iter := s.rdb.Scan(ctx, 0, onlineKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		users = append(users, strings.TrimPrefix(iter.Val(), onlineKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
