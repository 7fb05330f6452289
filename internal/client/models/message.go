package models

import (
	"sort"
	"strings"
)

// ConversationID derives the canonical channel key for a pair of identity
// IDs: the pair sorted ascending, joined with "_". Both participants resolve
// to the same key regardless of which side is "current".
func ConversationID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// Message is a single chat message. CreatedAt is a millisecond timestamp and
// the ordering key; the realtime store makes no promise that delivery order
// matches it.
type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
	CreatedAt   int64  `json:"createdAt"`
	Read        bool   `json:"read"`
	ReadAt      int64  `json:"readAt,omitempty"`
	Delivered   bool   `json:"delivered"`
}

// TypingSignal is an ephemeral "author is composing" record. Absence of the
// record means "not typing"; UpdatedAt exists only for client-side expiry.
type TypingSignal struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Typing         bool   `json:"typing"`
	UpdatedAt      int64  `json:"updatedAt"`
}

// SortMessages orders messages ascending by CreatedAt, breaking ties by ID
// so the order is deterministic under concurrent writers.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt != msgs[j].CreatedAt {
			return msgs[i].CreatedAt < msgs[j].CreatedAt
		}
		return msgs[i].ID < msgs[j].ID
	})
}

// IsBlank reports whether a message body is empty or whitespace-only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
