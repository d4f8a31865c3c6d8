package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// chatListTimeout bounds the wait for the first chat snapshot when listing
// conversations. The subscription is torn down right after.
const chatListTimeout = 5 * time.Second

// Friends lists the accounts of the current user's friends.
func (a *App) Friends(ctx context.Context) error {
	friends, err := a.apiClient.GetFriends(ctx)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		printlnFn("No friends yet")
		return nil
	}
	for _, f := range friends {
		printlnFn(fmt.Sprintf("%s  %s (@%s)", f.ID, f.Name, f.Username))
	}
	return nil
}

// Chats shows the current user's conversations, most recently active first.
// It subscribes to the chats collection, prints the first snapshot, and
// tears the subscription down.
func (a *App) Chats(ctx context.Context) error {
	userID := a.currentUser()
	if userID == "" {
		printlnFn("Not logged in")
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, chatListTimeout)
	defer cancel()

	sub, err := a.repo.ObserveChats(cctx, userID)
	if err != nil {
		return err
	}
	defer sub.Stop()

	select {
	case chats, ok := <-sub.Updates():
		if !ok {
			if err := sub.Err(); err != nil {
				return err
			}
			return errors.New("chat listing ended before a snapshot arrived")
		}
		if len(chats) == 0 {
			printlnFn("No chats yet")
			return nil
		}
		for _, c := range chats {
			printlnFn(formatChat(c, userID))
		}
		return nil
	case <-cctx.Done():
		return cctx.Err()
	}
}

func formatChat(c models.Chat, userID string) string {
	others := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p != userID {
			others = append(others, p)
		}
	}
	line := fmt.Sprintf("%s  with %s", c.ID, strings.Join(others, ", "))
	if c.LastMessage != nil {
		line += fmt.Sprintf("  | %s", c.LastMessage.Text)
	}
	if c.UnreadCount > 0 {
		line += fmt.Sprintf("  (%d unread)", c.UnreadCount)
	}
	return line
}

// OpenChat opens a conversation and starts streaming its messages. Opening
// another chat replaces the stream; the message printer goroutine keeps
// running across switches.
func (a *App) OpenChat(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: open <chatId>")
		return nil
	}
	chatID := args[0]
	if err := a.pager.LoadMessages(ctx, chatID); err != nil {
		return err
	}
	a.setOpenChat(chatID)
	return nil
}

// MoreMessages widens the open chat's window by one page.
func (a *App) MoreMessages(ctx context.Context) error {
	if a.openChatID() == "" {
		printlnFn("No chat is open, use: open <chatId>")
		return nil
	}
	if err := a.pager.LoadMore(ctx); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Showing up to %d messages", a.pager.Limit()))
	return nil
}

// Send posts a text message to the open chat.
func (a *App) Send(ctx context.Context, args []string) error {
	chatID := a.openChatID()
	if chatID == "" {
		printlnFn("No chat is open, use: open <chatId>")
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: send <text>")
		return nil
	}

	msg := models.Message{
		ChatID:   chatID,
		SenderID: a.currentUser(),
		Text:     strings.Join(args, " "),
	}
	id, err := a.repo.SendMessage(ctx, msg)
	if err != nil {
		return err
	}
	printlnFn("Sent", id)
	return nil
}

// MarkRead flags a received message as read.
func (a *App) MarkRead(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: read <msgId>")
		return nil
	}
	return a.repo.MarkRead(ctx, args[0])
}

// printMessages renders every snapshot of the open chat as it arrives. The
// pager emits newest-first, the terminal wants oldest-first, so the slice is
// walked backwards. Returns when the pager is stopped.
func (a *App) printMessages() {
	for msgs := range a.pager.Updates() {
		printlnFn(fmt.Sprintf("--- %d messages ---", len(msgs)))
		for i := len(msgs) - 1; i >= 0; i-- {
			printlnFn(formatMessage(msgs[i], a.currentUser()))
		}
	}
}

func formatMessage(m models.Message, userID string) string {
	sender := m.SenderID
	if sender == userID {
		sender = "me"
	}
	line := fmt.Sprintf("[%s] %s: %s", m.Timestamp.Format("15:04"), sender, m.Text)
	if m.SnapID != "" {
		line += fmt.Sprintf(" [snap %s]", m.SnapID)
	}
	if !m.Read && m.SenderID == userID {
		line += " (unread)"
	}
	return line
}
