package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkalvans/farmline/internal/client/bridge"
	"github.com/mkalvans/farmline/internal/common"
)

// Chat opens the conversation screen with the given counterpart. The screen
// re-renders on every bridge snapshot; input lines are sent as messages,
// with a few slash commands:
//
//	/typing — announce that you are composing
//	/read   — mark the conversation read
//	/quit   — leave the conversation
//
// Messages are marked read when the conversation opens and after every
// send, mirroring an open chat window.
func (a *App) Chat(ctx context.Context, args []string) error {
	user := a.currentUser()
	if user == nil {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: chat <user-id>")
		return nil
	}
	counterpart := args[0]
	if counterpart == user.ID {
		printlnFn("You cannot chat with yourself.")
		return nil
	}

	b := a.currentBridge()
	if b == nil {
		printlnFn("Messaging is not available right now.")
		return nil
	}

	b.OnUpdate(func(snap bridge.Snapshot) {
		renderSnapshot(user.ID, counterpart, snap)
	})
	defer func() {
		b.OnUpdate(nil)
		_ = b.Select(ctx, "")
	}()

	if err := b.Select(ctx, counterpart); err != nil {
		printlnFn("Conversation history could not be loaded:", err.Error())
	}
	b.MarkMessagesAsRead(ctx)
	printlnFn("Chatting with", counterpart, "(/quit to leave)")

	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "/quit":
			b.UpdateTypingStatus(ctx, false)
			return nil
		case line == "/typing":
			b.UpdateTypingStatus(ctx, true)
			continue
		case line == "/read":
			b.MarkMessagesAsRead(ctx)
			continue
		}

		if err := b.SendMessage(ctx, line); err != nil {
			switch {
			case errors.Is(err, common.ErrEmptyMessage):
				// Ignore accidental empty lines.
			case errors.Is(err, common.ErrNoConversation):
				printlnFn("No conversation selected.")
			default:
				printlnFn("Send failed:", err.Error())
			}
			continue
		}
		b.MarkMessagesAsRead(ctx)
	}
}

// renderSnapshot prints the conversation state delivered by the bridge.
func renderSnapshot(selfID, counterpart string, snap bridge.Snapshot) {
	printlnFn("----")
	if snap.Degraded {
		printlnFn("(live updates unavailable, showing fetched history)")
	}
	for _, m := range snap.Messages {
		who := counterpart
		if m.SenderID == selfID {
			who = "me"
		}
		stamp := time.UnixMilli(m.CreatedAt).Format("15:04")
		marker := ""
		if m.SenderID == selfID && m.Read {
			marker = " ✓"
		}
		printlnFn(fmt.Sprintf("[%s] %s: %s%s", stamp, who, m.Text, marker))
	}
	if snap.CounterpartTyping {
		printlnFn(counterpart, "is typing...")
	}
	if snap.Online[counterpart] {
		printlnFn("(" + counterpart + " is online)")
	}
}
