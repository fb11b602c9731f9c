package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/i18n"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - login            authenticate
//	  - status           show session and connectivity
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - help             show available commands
//	  - profile          show the profile
//	  - edit             edit the profile or change the password
//	  - logout           log out
//	  - status           show session and connectivity
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, tr *i18n.Translator, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gp %s> ", statusFn())
		line, err := readLine(reader)
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
				fmt.Fprintln(w, tr.T("cli.help.signed_in"))
			} else {
				fmt.Fprintln(w, tr.T("cli.help.anonymous"))
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, tr.T("cli.bye"))
			return

		default:
			fmt.Fprintln(w, tr.T("cli.unknown_command", cmd))
		}
	}
}
