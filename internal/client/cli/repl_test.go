package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Friends(ctx context.Context) error {
	f.calls = append(f.calls, "friends")
	return nil
}
func (f *fakeExec) Chats(ctx context.Context) error {
	f.calls = append(f.calls, "chats")
	return nil
}
func (f *fakeExec) OpenChat(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "open")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) MoreMessages(ctx context.Context) error {
	f.calls = append(f.calls, "more")
	return nil
}
func (f *fakeExec) Send(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "send")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) MarkRead(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "read")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) SendSnap(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "snap")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) ResetPassword(ctx context.Context) error {
	f.calls = append(f.calls, "resetpw")
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"login",
		"chats",
		"open chat-1",
		"send hello there",
		"more",
		"read msg-9",
		"logout",
		"exit",
	}, "\n") + "\n")

	fe := &fakeExec{}
	runREPL(context.Background(), fe, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"login", "chats", "open", "send", "more", "read", "logout"}, fe.calls)
	assert.Equal(t, [][]string{
		{"chat-1"},
		{"hello", "there"},
		{"msg-9"},
	}, fe.args)
}

func TestRunREPL_UnknownAndEmptyLines(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("\nbogus\nquit\n")

	fe := &fakeExec{}
	runREPL(context.Background(), fe, func() string { return "" }, bufio.NewScanner(input))

	assert.Empty(t, fe.calls)
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("friends\n")

	fe := &fakeExec{loggedIn: true}
	runREPL(context.Background(), fe, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"friends"}, fe.calls)
}

func TestRunREPL_SnapAndResetCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("resetpw\nsnap photo.jpg at the beach\nexit\n")

	fe := &fakeExec{}
	runREPL(context.Background(), fe, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"resetpw", "snap"}, fe.calls)
	assert.Equal(t, [][]string{{"photo.jpg", "at", "the", "beach"}}, fe.args)
}
