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
	Login(ctx context.Context) error
	Submit(ctx context.Context) error
	List(ctx context.Context) error
	Delete(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	Settings(ctx context.Context) error
	ClearCache(ctx context.Context) error
	GenAccounts(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the mindscale CLI.
//
// It reads a line, parses the first token as the command, and dispatches to
// methods on 'a'. Unknown commands are reported back to the user. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ms> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (s)ubmit, (l)ist, delete, status, settings, clearcache, genaccounts, logout, exit")
			} else {
				printlnFn("Available commands: login, status, settings, clearcache, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "s", "submit":
			_ = a.Submit(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "clearcache":
			_ = a.ClearCache(ctx)

		case "genaccounts":
			_ = a.GenAccounts(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
