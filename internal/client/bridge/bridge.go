// Package bridge connects a conversation's durable REST records with the
// push-based realtime store and exposes a single consolidated snapshot
// stream to the UI layer.
package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/realtime"
	"github.com/mkalvans/farmline/internal/common"
	"github.com/mkalvans/farmline/internal/logging"
)

// State describes the bridge's relation to the selected conversation.
type State int

const (
	// StateIdle means no counterpart is selected.
	StateIdle State = iota
	// StateSubscribing means a conversation was selected and subscriptions
	// are being armed.
	StateSubscribing
	// StateLive means realtime subscriptions for the conversation are active.
	StateLive
	// StateDegraded means the realtime subscription failed; history comes
	// from one-shot REST fetches and typing indicators are unavailable.
	StateDegraded
)

// Snapshot is the consolidated view delivered to OnUpdate subscribers.
// Slices and maps are copies; the receiver may keep them.
type Snapshot struct {
	Messages          []models.Message
	CounterpartTyping bool
	Unread            map[string]int
	Online            map[string]bool
	Degraded          bool
}

// Bridge maintains the realtime subscriptions for the selected conversation
// plus the account-wide unread and presence streams, and folds everything
// into Snapshot deliveries. All methods are safe for concurrent use.
type Bridge struct {
	api          api.Client
	store        realtime.Store
	log          logging.Logger
	self         models.Identity
	typingExpiry time.Duration

	mu           sync.Mutex
	state        State
	counterpart  string
	conversation string
	messages     []models.Message
	typing       bool
	typingTimer  *time.Timer
	unread       map[string]int
	online       map[string]bool
	onUpdate     func(Snapshot)

	cancelMessages realtime.CancelFunc
	cancelTyping   realtime.CancelFunc
	cancelUnread   realtime.CancelFunc
	cancelPresence realtime.CancelFunc
	cancelOnline   realtime.CancelFunc
}

// Option customizes a Bridge at construction time.
type Option func(*Bridge)

// WithTypingExpiry overrides how long a counterpart typing indicator stays
// lit without a refreshed signal.
func WithTypingExpiry(d time.Duration) Option {
	return func(b *Bridge) { b.typingExpiry = d }
}

// New builds a Bridge for the given identity. The store may be nil when no
// realtime backend is configured; every conversation then runs degraded.
func New(apiClient api.Client, store realtime.Store, log logging.Logger, self models.Identity, opts ...Option) *Bridge {
	if log == nil {
		log = logging.Nop()
	}
	b := &Bridge{
		api:          apiClient,
		store:        store,
		log:          log,
		self:         self,
		typingExpiry: 3 * time.Second,
		unread:       make(map[string]int),
		online:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnUpdate registers the snapshot callback. It replaces any previous one and
// must be set before Start or Select for deliveries not to be dropped.
func (b *Bridge) OnUpdate(fn func(Snapshot)) {
	b.mu.Lock()
	b.onUpdate = fn
	b.mu.Unlock()
}

// Start arms the account-wide streams: unread counts, presence, and the
// self presence record. Each failure disables only that stream.
func (b *Bridge) Start(ctx context.Context) {
	if b.store == nil {
		return
	}

	cancelUnread, err := b.store.SubscribeUnread(ctx, b.self.ID, func(counts map[string]int) {
		b.mu.Lock()
		b.unread = counts
		b.mu.Unlock()
		b.notify()
	})
	if err != nil {
		b.log.Warn(ctx, "unread subscription unavailable", "err", err)
	}

	cancelPresence, err := b.store.SubscribePresence(ctx, func(userID string, online bool) {
		b.mu.Lock()
		if online {
			b.online[userID] = true
		} else {
			delete(b.online, userID)
		}
		b.mu.Unlock()
		b.notify()
	})
	if err != nil {
		b.log.Warn(ctx, "presence subscription unavailable", "err", err)
	}

	cancelOnline, err := b.store.SetOnline(ctx, b.self.ID)
	if err != nil {
		b.log.Warn(ctx, "failed to publish own presence", "err", err)
	}

	b.mu.Lock()
	b.cancelUnread = cancelUnread
	b.cancelPresence = cancelPresence
	b.cancelOnline = cancelOnline
	b.mu.Unlock()
}

// Select switches the bridge to a new counterpart. Prior conversation-scoped
// subscriptions and the typing-expiry timer are torn down before the new
// ones are armed, so no stale callback can touch the new conversation's
// state. An empty counterpart returns the bridge to idle.
func (b *Bridge) Select(ctx context.Context, counterpartID string) error {
	b.teardownConversation()

	if counterpartID == "" {
		b.mu.Lock()
		b.state = StateIdle
		b.mu.Unlock()
		b.notify()
		return nil
	}

	conversation := models.ConversationID(b.self.ID, counterpartID)

	b.mu.Lock()
	b.state = StateSubscribing
	b.counterpart = counterpartID
	b.conversation = conversation
	b.mu.Unlock()

	if b.store != nil {
		err := b.subscribeLive(ctx, counterpartID, conversation)
		if err == nil {
			return nil
		}
		b.log.Warn(ctx, "realtime subscription failed, falling back to history fetch",
			"conversation", conversation, "err", err)
	}

	return b.degrade(ctx, counterpartID)
}

func (b *Bridge) subscribeLive(ctx context.Context, counterpartID, conversation string) error {
	cancelMessages, err := b.store.SubscribeMessages(ctx, conversation, func(msgs []models.Message) {
		b.mu.Lock()
		if b.conversation != conversation {
			b.mu.Unlock()
			return
		}
		models.SortMessages(msgs)
		b.messages = msgs
		b.mu.Unlock()
		b.notify()
	})
	if err != nil {
		return err
	}

	cancelTyping, err := b.store.SubscribeTyping(ctx, conversation, func(signal models.TypingSignal) {
		if signal.UserID != counterpartID {
			return
		}
		b.setCounterpartTyping(conversation, signal.Typing)
	})
	if err != nil {
		// Messages survived, typing did not. Run with messages only.
		b.log.Warn(ctx, "typing subscription unavailable", "conversation", conversation, "err", err)
	}

	b.mu.Lock()
	if b.conversation != conversation {
		b.mu.Unlock()
		cancelMessages()
		if cancelTyping != nil {
			cancelTyping()
		}
		return nil
	}
	b.state = StateLive
	b.cancelMessages = cancelMessages
	b.cancelTyping = cancelTyping
	b.mu.Unlock()
	return nil
}

// degrade switches the conversation to one-shot REST history. The fetch runs
// without the lock, so by the time it returns the user may have selected a
// different counterpart; a result for a conversation that is no longer the
// selected one is dropped.
func (b *Bridge) degrade(ctx context.Context, counterpartID string) error {
	conversation := models.ConversationID(b.self.ID, counterpartID)
	msgs, err := b.api.ConversationHistory(ctx, counterpartID)

	b.mu.Lock()
	if b.conversation != conversation {
		b.mu.Unlock()
		return err
	}
	b.state = StateDegraded
	if err != nil {
		b.messages = nil
	} else {
		models.SortMessages(msgs)
		b.messages = msgs
	}
	b.mu.Unlock()
	b.notify()
	return err
}

// setCounterpartTyping flips the indicator and arms or re-arms the expiry
// timer. A typing=true signal with no follow-up clears itself after the
// expiry window.
func (b *Bridge) setCounterpartTyping(conversation string, typing bool) {
	b.mu.Lock()
	if b.conversation != conversation {
		b.mu.Unlock()
		return
	}
	b.typing = typing
	if b.typingTimer != nil {
		b.typingTimer.Stop()
		b.typingTimer = nil
	}
	if typing {
		b.typingTimer = time.AfterFunc(b.typingExpiry, func() {
			b.mu.Lock()
			if b.conversation != conversation || !b.typing {
				b.mu.Unlock()
				return
			}
			b.typing = false
			b.mu.Unlock()
			b.notify()
		})
	}
	b.mu.Unlock()
	b.notify()
}

// SendMessage posts a message to the selected counterpart through the REST
// endpoint, which writes both the durable record and the realtime store.
// Blank text and the idle state are rejected before any network call.
func (b *Bridge) SendMessage(ctx context.Context, text string) error {
	if models.IsBlank(text) {
		return common.ErrEmptyMessage
	}

	b.mu.Lock()
	counterpart := b.counterpart
	state := b.state
	b.mu.Unlock()
	if counterpart == "" || state == StateIdle {
		return common.ErrNoConversation
	}

	res, err := b.api.SendRealtimeMessage(ctx, models.Message{
		SenderID:    b.self.ID,
		RecipientID: counterpart,
		Text:        text,
	})
	if err != nil {
		return err
	}
	if res.RealtimeUnavailable {
		b.log.Warn(ctx, "message stored but realtime delivery unavailable", "recipient", counterpart)
	}

	// The send ran without the lock; the selection may have moved on in the
	// meantime, in which case the follow-up work belongs to nobody.
	b.mu.Lock()
	stillSelected := b.counterpart == counterpart
	conversation := b.conversation
	stateNow := b.state
	b.mu.Unlock()

	// The composer just sent, so they are no longer typing. Failures here
	// must not fail the send.
	if b.store != nil && stillSelected {
		if err := b.store.WriteTyping(ctx, conversation, b.self.ID, false); err != nil {
			b.log.Warn(ctx, "failed to clear typing indicator after send", "err", err)
		}
	}

	if stateNow == StateDegraded && stillSelected {
		// No push channel, so refresh the list ourselves.
		if err := b.degrade(ctx, counterpart); err != nil {
			b.log.Warn(ctx, "history refresh after send failed", "err", err)
		}
	}
	return nil
}

// UpdateTypingStatus publishes the local user's typing state. Best effort.
func (b *Bridge) UpdateTypingStatus(ctx context.Context, typing bool) {
	b.mu.Lock()
	conversation := b.conversation
	state := b.state
	b.mu.Unlock()
	if b.store == nil || conversation == "" || state == StateIdle || state == StateDegraded {
		return
	}
	if err := b.store.WriteTyping(ctx, conversation, b.self.ID, typing); err != nil {
		b.log.Warn(ctx, "typing update failed", "conversation", conversation, "err", err)
	}
}

// MarkMessagesAsRead flags the selected conversation's incoming messages as
// read in the realtime store and, always and independently, through the REST
// endpoint. Either side may fail without affecting the other.
func (b *Bridge) MarkMessagesAsRead(ctx context.Context) {
	b.mu.Lock()
	conversation := b.conversation
	counterpart := b.counterpart
	b.mu.Unlock()
	if counterpart == "" {
		return
	}

	if b.store != nil {
		if err := b.store.MarkRead(ctx, conversation, b.self.ID); err != nil {
			b.log.Warn(ctx, "realtime read marking failed", "conversation", conversation, "err", err)
		}
	}
	if err := b.api.MarkConversationRead(ctx, counterpart); err != nil {
		b.log.Warn(ctx, "read receipt request failed", "counterpart", counterpart, "err", err)
	}
}

// State reports the current conversation state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Close tears down every subscription, the typing timer and the presence
// record. The bridge is not reusable afterwards.
func (b *Bridge) Close() {
	b.teardownConversation()

	b.mu.Lock()
	cancelUnread := b.cancelUnread
	cancelPresence := b.cancelPresence
	cancelOnline := b.cancelOnline
	b.cancelUnread = nil
	b.cancelPresence = nil
	b.cancelOnline = nil
	b.state = StateIdle
	b.mu.Unlock()

	if cancelUnread != nil {
		cancelUnread()
	}
	if cancelPresence != nil {
		cancelPresence()
	}
	if cancelOnline != nil {
		cancelOnline()
	}
}

// teardownConversation cancels the conversation-scoped subscriptions and
// timer and clears the per-conversation state. Cancels run outside the lock
// because they block until in-flight callbacks finish.
func (b *Bridge) teardownConversation() {
	b.mu.Lock()
	cancelMessages := b.cancelMessages
	cancelTyping := b.cancelTyping
	timer := b.typingTimer
	b.cancelMessages = nil
	b.cancelTyping = nil
	b.typingTimer = nil
	b.counterpart = ""
	b.conversation = ""
	b.messages = nil
	b.typing = false
	b.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if cancelMessages != nil {
		cancelMessages()
	}
	if cancelTyping != nil {
		cancelTyping()
	}
}

// notify delivers the current snapshot to the registered callback. The
// snapshot is copied under the lock; the callback runs outside it.
func (b *Bridge) notify() {
	b.mu.Lock()
	fn := b.onUpdate
	if fn == nil {
		b.mu.Unlock()
		return
	}
	snap := Snapshot{
		Messages:          append([]models.Message(nil), b.messages...),
		CounterpartTyping: b.typing,
		Unread:            make(map[string]int, len(b.unread)),
		Online:            make(map[string]bool, len(b.online)),
		Degraded:          b.state == StateDegraded,
	}
	for k, v := range b.unread {
		snap.Unread[k] = v
	}
	for k := range b.online {
		snap.Online[k] = true
	}
	b.mu.Unlock()
	fn(snap)
}
