package cli

import "context"

// Root runs the REPL until the user exits. The prompt shows the connection
// state and, when logged in, the username.
func (a *App) Root(ctx context.Context) {
	statusFn := func() string {
		status := string(a.coord.Status())
		if cur := a.sessions.Current(); cur != nil {
			return status + " | " + cur.Username
		}
		return status
	}
	runREPL(ctx, a, statusFn, a.reader)
}
