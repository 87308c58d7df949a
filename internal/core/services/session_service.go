package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketvote/pollsync/internal/core/ports"
)

const defaultPollInterval = 5 * time.Second

// pollSession keeps one poll view eventually consistent. It owns the
// push subscription and the fallback timer: push notifications and
// timer ticks both funnel into the store's collapsed Refresh, and the
// whole thing tears down when Stop is called or the parent context is
// cancelled.
type pollSession struct {
	store    ports.SnapshotStore
	live     ports.LiveUpdateSource
	pollID   string
	interval time.Duration

	updates chan ports.Update

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPollSession(store ports.SnapshotStore, live ports.LiveUpdateSource, pollID string, interval time.Duration) ports.PollSession {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &pollSession{
		store:    store,
		live:     live,
		pollID:   pollID,
		interval: interval,
		updates:  make(chan ports.Update, 16),
		done:     make(chan struct{}),
	}
}

// Start performs the initial snapshot fetch and spins up the sync loop.
// A failed initial fetch is not fatal: it is surfaced on Updates and
// retried by the loop, so the view degrades to "stale but last-known
// good" rather than erroring out.
func (s *pollSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("poll session already started")
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	if err := s.store.Refresh(ctx); err != nil {
		s.notify(ports.Update{Err: err})
	} else {
		s.notify(ports.Update{Revealed: s.store.Revealed()})
	}

	sub, err := s.live.Subscribe(ctx, s.pollID)
	if err != nil {
		slog.Warn("push channel unavailable, falling back to polling",
			"poll_id", s.pollID, "interval", s.interval, "error", err)
		sub = nil
	}

	go s.run(ctx, sub)
	return nil
}

func (s *pollSession) run(ctx context.Context, sub <-chan ports.Notification) {
	defer close(s.done)

	var ticker *time.Ticker
	var tick <-chan time.Time
	if sub == nil {
		ticker = time.NewTicker(s.interval)
		tick = ticker.C
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case n, ok := <-sub:
			if !ok {
				slog.Warn("push channel closed, falling back to polling",
					"poll_id", s.pollID, "interval", s.interval)
				sub = nil
				ticker = time.NewTicker(s.interval)
				tick = ticker.C
				continue
			}
			if n.ResultsRevealed {
				// optimistic: flip the latch now, reconcile with the
				// authoritative value on the refresh below
				s.store.MarkRevealed()
			}
			s.refresh(ctx)

		case <-tick:
			s.refresh(ctx)
		}
	}
}

func (s *pollSession) refresh(ctx context.Context) {
	if err := s.store.Refresh(ctx); err != nil {
		s.notify(ports.Update{Err: err, Revealed: s.store.Revealed()})
		return
	}
	s.notify(ports.Update{Revealed: s.store.Revealed()})
}

// notify never blocks the sync loop; with a saturated consumer the
// oldest update is simply superseded by the next one.
func (s *pollSession) notify(u ports.Update) {
	select {
	case s.updates <- u:
	default:
	}
}

func (s *pollSession) Updates() <-chan ports.Update {
	return s.updates
}

// Stop tears the session down and waits for the sync loop to exit. No
// polling timer or push connection survives it.
func (s *pollSession) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	s.mu.Unlock()

	if !started || cancel == nil {
		return
	}
	cancel()
	<-s.done
}
