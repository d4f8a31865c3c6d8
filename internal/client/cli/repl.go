package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Friends(ctx context.Context) error
	Chats(ctx context.Context) error
	OpenChat(ctx context.Context, args []string) error
	MoreMessages(ctx context.Context) error
	Send(ctx context.Context, args []string) error
	MarkRead(ctx context.Context, args []string) error
	SendSnap(ctx context.Context, args []string) error
	ResetPassword(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Snapline CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - resetpw        — reset a forgotten password via emailed code
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current profile
//	  - friends        — list friends
//	  - chats          — list conversations
//	  - open <chatId>  — open a chat and stream its messages
//	  - more           — load an older page of the open chat
//	  - send <text>    — send a text message to the open chat
//	  - read <msgId>   — mark a received message as read
//	  - snap <file> [caption] — upload a photo, post it to the open chat
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are printed here so failures are
// never silent, then the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("snap> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, friends, chats, open <chatId>, more, send <text>, read <msgId>, snap <file> [caption], logout, exit")
			} else {
				printlnFn("Available commands: register, login, resetpw, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "resetpw":
			err = a.ResetPassword(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "friends":
			err = a.Friends(ctx)

		case "chats":
			err = a.Chats(ctx)

		case "open":
			err = a.OpenChat(ctx, args)

		case "more":
			err = a.MoreMessages(ctx)

		case "send":
			err = a.Send(ctx, args)

		case "read":
			err = a.MarkRead(ctx, args)

		case "snap":
			err = a.SendSnap(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
