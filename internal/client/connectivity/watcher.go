// Package connectivity reports whether the identity backend is reachable.
package connectivity

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultTimeout  = 3 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher probes a Pinger on a fixed interval.
type Watcher struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

func NewWatcher(p Pinger, interval, timeout time.Duration, logger logging.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{pinger: p, interval: interval, timeout: timeout, logger: logger.With("module", "connectivity")}
}

func (w *Watcher) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return w.pinger.Ping(ctx) == nil
}

// Changes probes immediately and delivers that observation, then delivers
// only transitions. The channel is closed when ctx is done.
func (w *Watcher) Changes(ctx context.Context) <-chan bool {
	out := make(chan bool)

	go func() {
		defer close(out)

		emit := func(v bool) bool {
			select {
			case out <- v:
				return true
			case <-ctx.Done():
				return false
			}
		}

		online := w.probe(ctx)
		if ctx.Err() != nil || !emit(online) {
			return
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				now := w.probe(ctx)
				if ctx.Err() != nil {
					return
				}
				if now == online {
					continue
				}
				online = now
				w.logger.Info(ctx, "connectivity changed", "online", online)
				if !emit(online) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
