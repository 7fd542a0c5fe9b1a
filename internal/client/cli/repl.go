package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
)

// execIface is the command surface the REPL needs. App satisfies it; tests
// use a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	exec(ctx context.Context, name string, args []string) error
	notifications() []string
}

// runREPL reads one command per line, prints pending notifications before
// each prompt and dispatches to a. Command errors are shown with their
// display message and never end the loop. It returns on EOF, "exit" or
// "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		for _, n := range a.notifications() {
			fmt.Fprintln(w, "*", n)
		}
		fmt.Fprintf(w, "market%s> ", prefixSpace(statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText(a.isLoggedIn(), a.isAdmin()))
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			reportError(w, cmd, a.exec(ctx, cmd, args))
		}
	}
}

func reportError(w io.Writer, cmd string, err error) {
	var usage usageError
	switch {
	case err == nil:
	case errors.Is(err, errUnknownCommand):
		fmt.Fprintln(w, "Unknown command:", cmd)
	case errors.As(err, &usage):
		fmt.Fprintln(w, "Usage:", cmd, string(usage))
	default:
		fmt.Fprintln(w, "Error:", client.Message(err))
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
