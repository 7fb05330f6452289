// Package realtime defines the narrow capability interface over the
// push-based realtime store and its Redis implementation.
//
// The bridge depends only on the Store interface; tests substitute an
// in-memory fake. Typing and presence records are advisory: they carry a
// documented staleness window and are never a source of truth for anything
// beyond UI indicators.
package realtime

import (
	"context"

	"github.com/mkalvans/farmline/internal/client/models"
)

// CancelFunc tears down a subscription. After it returns, no further
// callbacks fire for that subscription.
type CancelFunc func()

// Store is the capability surface of the realtime side-channel.
//
// Message subscriptions deliver the conversation's FULL current message set
// on subscribe and after every change notification; consumers replace their
// local list wholesale. The store does not guarantee that delivery order
// matches timestamp order under concurrent writers.
type Store interface {
	// SubscribeMessages streams full message snapshots for one conversation.
	SubscribeMessages(ctx context.Context, conversationID string, fn func([]models.Message)) (CancelFunc, error)

	// SubscribeTyping streams typing signals for one conversation,
	// including the subscriber's own.
	SubscribeTyping(ctx context.Context, conversationID string, fn func(models.TypingSignal)) (CancelFunc, error)

	// SubscribeUnread streams recomputed unread counts for userID, keyed by
	// sender.
	SubscribeUnread(ctx context.Context, userID string, fn func(map[string]int)) (CancelFunc, error)

	// SubscribePresence streams online/offline transitions for all
	// identities, delivering the currently online set first.
	SubscribePresence(ctx context.Context, fn func(userID string, online bool)) (CancelFunc, error)

	// WriteTyping writes (typing=true) or removes (typing=false) the typing
	// record for (conversation, user).
	WriteTyping(ctx context.Context, conversationID, userID string, typing bool) error

	// MarkRead flags every message addressed to readerID in the
	// conversation as read.
	MarkRead(ctx context.Context, conversationID, readerID string) error

	// SetOnline creates the presence record for userID and keeps it alive
	// until the returned CancelFunc runs.
	SetOnline(ctx context.Context, userID string) (CancelFunc, error)

	// Online returns the identities that currently hold a presence record.
	Online(ctx context.Context) ([]string, error)
}
