package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// execStub records which commands the REPL dispatched.
type execStub struct {
	loggedIn bool
	calls    []string
}

func (s *execStub) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *execStub) isLoggedIn() bool { return s.loggedIn }

func (s *execStub) Login(ctx context.Context) error { return s.record("login") }

func (s *execStub) Submit(ctx context.Context) error { return s.record("submit") }

func (s *execStub) List(ctx context.Context) error { return s.record("list") }

func (s *execStub) Delete(ctx context.Context) error { return s.record("delete") }

func (s *execStub) ShowStatus(ctx context.Context) error { return s.record("status") }

func (s *execStub) Settings(ctx context.Context) error { return s.record("settings") }

func (s *execStub) ClearCache(ctx context.Context) error { return s.record("clearcache") }

func (s *execStub) GenAccounts(ctx context.Context) error { return s.record("genaccounts") }

func (s *execStub) Logout(ctx context.Context) error { return s.record("logout") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runInput(t *testing.T, stub *execStub, input string) *[]string {
	t.Helper()
	out := captureOutput(t)
	reader := bufio.NewReader(strings.NewReader(input))
	runREPL(context.Background(), stub, func() string { return "connected" }, reader)
	return out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub := &execStub{loggedIn: true}
	runInput(t, stub, "login\ns\nlist\ndelete\nstatus\nsettings\nclearcache\ngenaccounts\nlogout\nexit\n")

	assert.Equal(t, []string{
		"login", "submit", "list", "delete", "status",
		"settings", "clearcache", "genaccounts", "logout",
	}, stub.calls)
}

func TestREPL_Aliases(t *testing.T) {
	stub := &execStub{}
	runInput(t, stub, "s\nl\nquit\n")
	assert.Equal(t, []string{"submit", "list"}, stub.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	stub := &execStub{}
	out := runInput(t, stub, "frobnicate\nexit\n")

	assert.Empty(t, stub.calls)
	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Unknown command: frobnicate")
}

func TestREPL_BlankLinesIgnored(t *testing.T) {
	stub := &execStub{}
	runInput(t, stub, "\n   \nexit\n")
	assert.Empty(t, stub.calls)
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	stub := &execStub{}
	runInput(t, stub, "status\n")
	assert.Equal(t, []string{"status"}, stub.calls)
}

func TestREPL_HelpReflectsLoginState(t *testing.T) {
	out := runInput(t, &execStub{}, "help\nexit\n")
	assert.Contains(t, strings.Join(*out, ""), "login, status, settings")

	out = runInput(t, &execStub{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(*out, ""), "(s)ubmit, (l)ist")
}

func TestREPL_PromptShowsStatus(t *testing.T) {
	out := captureOutput(t)
	reader := bufio.NewReader(strings.NewReader("exit\n"))
	runREPL(context.Background(), &execStub{}, func() string { return "disconnected | test01" }, reader)

	assert.Contains(t, strings.Join(*out, ""), "ms> disconnected | test01 > ")
}
