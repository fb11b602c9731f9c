package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/client/forms"
	"github.com/dmitrijs2005/gophprofile/internal/client/i18n"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/session"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// accounts is the part of *session.Coordinator the CLI uses.
type accounts interface {
	Register(ctx context.Context, email, password string, fields models.ProfileFields) session.Result
	Login(ctx context.Context, email, password string) session.Result
	Logout(ctx context.Context) session.Result
	UpdateProfile(ctx context.Context, fields models.ProfileFields, newPassword string) session.Result
	CurrentSession() *models.Session
	CurrentProfile() *models.ProfileRecord
	Subscribe() (<-chan session.Snapshot, func())
}

type App struct {
	accounts  accounts
	validator *forms.Validator
	tr        *i18n.Translator
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer

	// background runs alongside the REPL until it exits.
	background []func(ctx context.Context)
	closers    []func(ctx context.Context) error

	mu     sync.Mutex
	status session.Snapshot
	seen   bool
}

// NewApp builds an App reading from stdin and writing to stdout.
func NewApp(acc accounts, v *forms.Validator, tr *i18n.Translator, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		accounts:  acc,
		validator: v,
		tr:        tr,
		logger:    logger.With("module", "cli"),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run starts the background services and blocks in the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer a.close(context.WithoutCancel(ctx))

	var wg sync.WaitGroup
	for _, fn := range a.background {
		wg.Add(1)
		go func(fn func(context.Context)) {
			defer wg.Done()
			fn(ctx)
		}(fn)
	}

	snaps, unsubscribe := a.accounts.Subscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.watchStatus(ctx, snaps)
	}()

	a.println(a.tr.T("cli.welcome"))
	runREPL(ctx, a, a.tr, a.getStatus, a.reader, a.out)

	cancel()
	unsubscribe()
	wg.Wait()
}

func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.accounts.CurrentSession() != nil
}

// watchStatus keeps the prompt status current until snaps is closed.
func (a *App) watchStatus(ctx context.Context, snaps <-chan session.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			a.setStatus(ctx, snap)
		}
	}
}

func (a *App) setStatus(ctx context.Context, snap session.Snapshot) {
	a.mu.Lock()
	prev, seen := a.status, a.seen
	a.status, a.seen = snap, true
	a.mu.Unlock()

	if seen && prev.Connected != snap.Connected {
		a.logger.Info(ctx, "switched mode", "mode", modeKey(snap))
	}
}

func modeKey(snap session.Snapshot) string {
	switch {
	case snap.Initializing():
		return "initializing"
	case snap.Connected:
		return "online"
	default:
		return "offline"
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	snap := a.status
	a.mu.Unlock()

	s := ""
	if snap.Session != nil {
		s = snap.Session.Email + " "
	}
	return fmt.Sprintf("(%s%s)", s, a.tr.T("cli.mode."+modeKey(snap)))
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
