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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	List(ctx context.Context) error
	Signup(ctx context.Context) error
	Unregister(ctx context.Context, ref string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from r and dispatches them to a. The
// prompt shows statusFn(). The loop exits on EOF or "exit"/"quit".
//
// Prompts issued by the commands read from the same reader, so r must be
// the only reader of the input.
//
// Errors returned by command handlers are ignored here; handlers print
// their own feedback.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("signup (%s)> ", statusFn()))
		line, err := r.ReadString('\n')
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
				printlnFn("Available commands: (l)ist, signup, unregister [N.M], logout, exit")
			} else {
				printlnFn("Available commands: (l)ist, signup, admin, exit")
			}

		case "l", "list":
			_ = a.List(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "unregister":
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			_ = a.Unregister(ctx, ref)

		case "admin", "login":
			_ = a.Login(ctx)

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
