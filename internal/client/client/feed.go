package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// sessionFeed fans session changes out to subscribers. Publishing never
// blocks; each subscriber has its own ordered mailbox.
type sessionFeed struct {
	mu   sync.Mutex
	subs map[int]*mailbox
	next int
}

type mailbox struct {
	mu      sync.Mutex
	pending []*models.Session
	wake    chan struct{}
}

func newSessionFeed() *sessionFeed {
	return &sessionFeed{subs: make(map[int]*mailbox)}
}

func (m *mailbox) push(s *models.Session) {
	m.mu.Lock()
	m.pending = append(m.pending, s.Clone())
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *mailbox) drain() []*models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil
	return out
}

func (f *sessionFeed) publish(s *models.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.subs {
		m.push(s)
	}
}

// subscribe registers a mailbox seeded with initial. The returned channel is
// closed once ctx is done.
func (f *sessionFeed) subscribe(ctx context.Context, initial *models.Session) <-chan *models.Session {
	m := &mailbox{wake: make(chan struct{}, 1)}
	m.push(initial)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = m
	f.mu.Unlock()

	out := make(chan *models.Session)
	go func() {
		defer close(out)
		defer func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		}()

		for {
			for _, s := range m.drain() {
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-m.wake:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
