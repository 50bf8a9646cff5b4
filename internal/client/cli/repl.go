package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Feed(ctx context.Context, args []string) error
	Mine(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, reset, feed, refresh, show <id>, whoami, exit"
	helpLoggedIn  = "Available commands: feed, mine, refresh, show <id>, post, edit <id>, delete <id>, profile, whoami, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first word of a line selects the command, the remaining words are
// passed to it as arguments. Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := map[string]func(context.Context, []string) error{
		"register": a.Register,
		"login":    a.Login,
		"reset":    a.Reset,
		"logout":   a.Logout,
		"whoami":   a.Whoami,
		"profile":  a.Profile,
		"feed":     a.Feed,
		"l":        a.Feed,
		"mine":     a.Mine,
		"refresh":  a.Refresh,
		"post":     a.Post,
		"edit":     a.Edit,
		"delete":   a.Delete,
		"show":     a.Show,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("sh> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			run, ok := commands[cmd]
			if !ok {
				printlnFn("Unknown command:", cmd)
				continue
			}
			if err := run(ctx, args); err != nil {
				printlnFn("Error:", err)
			}
		}
	}
}
