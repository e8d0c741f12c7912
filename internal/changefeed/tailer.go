// Package changefeed tails the message outbox and pushes every committed
// insert or update to the room's realtime channel.
package changefeed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"communitychat/internal/chat/api"
	"communitychat/internal/chat/repository"
	"communitychat/internal/config"
	"communitychat/internal/dbmysql"
)

// settleWindow is how long the tailer waits on a hole in the change ids
// before skipping it. A lower id can commit after a higher one; a hole
// older than this is a rolled back transaction.
const settleWindow = 2 * time.Second

// Sink receives change frames. *realtime.Hub implements it.
type Sink interface {
	DeliverFrame(f api.Frame)
}

type Tailer struct {
	repo     repository.ChangeRepository
	sink     Sink
	clock    clockwork.Clock
	interval time.Duration
	batch    int
	logger   *slog.Logger

	cursor atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTailer(repo repository.ChangeRepository, sink Sink, clock clockwork.Clock, cfg config.ChatConfig, logger *slog.Logger) *Tailer {
	interval := cfg.ChangeFeedInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	batch := cfg.ChangeFeedBatch
	if batch <= 0 {
		batch = 200
	}
	return &Tailer{
		repo:     repo,
		sink:     sink,
		clock:    clock,
		interval: interval,
		batch:    batch,
		logger:   logger,
	}
}

// Start positions the cursor at the newest change and begins polling.
// Clients that were away catch up through their own gap-fill.
func (t *Tailer) Start(ctx context.Context) error {
	cursor, err := t.repo.LatestChangeID(ctx)
	if err != nil {
		return err
	}
	t.cursor.Store(cursor)
	t.ctx, t.cancel = context.WithCancel(context.Background())

	t.wg.Add(1)
	go t.run()

	t.logger.Info("[FEED] tailing outbox", "cursor", cursor, "interval", t.interval)
	return nil
}

func (t *Tailer) Shutdown() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	t.wg.Wait()
	t.logger.Info("[FEED] stopped", "cursor", t.cursor.Load())
}

func (t *Tailer) run() {
	defer t.wg.Done()

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.Chan():
			// drain full batches before waiting again
			for {
				n, err := t.poll(t.ctx)
				if err != nil {
					if t.ctx.Err() == nil {
						t.logger.Error("[FEED] poll failed", "cursor", t.cursor.Load(), "error", err)
					}
					break
				}
				if n < t.batch {
					break
				}
			}
		}
	}
}

// poll emits the changes after the cursor and returns how many it moved
// the cursor past.
func (t *Tailer) poll(ctx context.Context) (int, error) {
	cursor := t.cursor.Load()
	changes, err := t.repo.ChangesAfter(ctx, cursor, t.batch)
	if err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	ids := make([]uint64, 0, len(changes))
	seen := make(map[uint64]bool, len(changes))
	for _, c := range changes {
		if !seen[c.MessageID] {
			seen[c.MessageID] = true
			ids = append(ids, c.MessageID)
		}
	}

	messages, err := t.repo.MessagesByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	byID := make(map[uint64]*dbmysql.Message, len(messages))
	userIDs := make([]uint64, 0, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
		userIDs = append(userIDs, m.UserID)
	}
	authors, err := t.repo.AccountsByIDs(ctx, userIDs)
	if err != nil {
		return 0, err
	}

	now := t.clock.Now()
	consumed := 0
	for _, c := range changes {
		if c.ID != cursor+1 && now.Sub(c.CreatedAt) < settleWindow {
			// hole: an earlier transaction may still commit
			break
		}
		cursor = c.ID
		t.cursor.Store(cursor)
		consumed++

		msg, ok := byID[c.MessageID]
		if !ok {
			t.logger.Warn("[FEED] change for missing message", "change_id", c.ID, "message_id", c.MessageID)
			continue
		}
		f, err := api.NewFrame(api.FrameChange, c.Op, c.RoomID, api.MessageFrom(msg, authors[msg.UserID]))
		if err != nil {
			t.logger.Error("[FEED] encode change", "change_id", c.ID, "error", err)
			continue
		}
		t.sink.DeliverFrame(f)
	}
	return consumed, nil
}

// Cursor is the id of the last change delivered or skipped.
func (t *Tailer) Cursor() uint64 {
	return t.cursor.Load()
}
