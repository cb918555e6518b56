package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if name := a.currentUserName(); name != "" {
		return fmt.Sprintf("(%s)", name)
	}
	if a.isLoggedIn() {
		return "(session)"
	}
	return ""
}

// Root prints the banner and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to gophauth CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
