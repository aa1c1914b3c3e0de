package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// commands is the surface the REPL dispatches to; Session implements it
type commands interface {
	isLoggedIn() bool
	Status() string
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Generate(ctx context.Context) error
	List(ctx context.Context) error
	Regenerate(ctx context.Context, arg string) error
	Save(ctx context.Context, arg string) error
	Saved(ctx context.Context, arg string) error
	Topics(ctx context.Context) error
	Credits(ctx context.Context) error
	Refresh(ctx context.Context) error
	History(ctx context.Context) error
	Reset(ctx context.Context) error
}

const (
	helpSignedOut = "Commands: generate, list, regen <n>, credits, refresh, reset, topics, login, register, exit"
	helpSignedIn  = "Commands: generate, list, regen <n>, save <n>, saved [page], credits, refresh, history, reset, topics, logout, exit"
)

// Run reads commands until EOF, "exit", or ctx is cancelled
func (s *Session) Run(ctx context.Context) {
	runREPL(ctx, s, s.reader, s.out)
}

// runREPL reads one command per line and dispatches it. Command errors have
// already been shown to the user, so they do not stop the loop.
func runREPL(ctx context.Context, a commands, reader *bufio.Reader, out io.Writer) {
	fmt.Fprintln(out, "Type 'help' for a list of commands.")
	for ctx.Err() == nil {
		fmt.Fprintf(out, "iqube (%s)> ", a.Status())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			fmt.Fprintln(out)
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, arg := strings.ToLower(fields[0]), ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpSignedIn)
			} else {
				fmt.Fprintln(out, helpSignedOut)
			}
		case "login":
			_ = a.Login(ctx)
		case "register":
			_ = a.Register(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "generate", "g":
			_ = a.Generate(ctx)
		case "list", "l":
			_ = a.List(ctx)
		case "regen", "regenerate":
			_ = a.Regenerate(ctx, arg)
		case "save":
			_ = a.Save(ctx, arg)
		case "saved":
			_ = a.Saved(ctx, arg)
		case "topics":
			_ = a.Topics(ctx)
		case "credits":
			_ = a.Credits(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "history":
			_ = a.History(ctx)
		case "reset":
			_ = a.Reset(ctx)
		case "exit", "quit":
			return
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help'.\n", cmd)
		}

		if err != nil {
			return
		}
	}
}
