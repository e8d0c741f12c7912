package syncengine

import (
	"context"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

// disconnected drops the channel and starts resubscribing. The flag makes
// the next Subscribed fill the gap.
func (e *Engine) disconnected(err error) {
	if e.roomID == 0 {
		return
	}
	if e.channel != nil {
		_ = e.channel.Close()
		e.channel = nil
	}
	e.connEpoch++
	e.wasDisconnected = true
	e.sessionKey = ""
	e.presence.Purge()
	e.typing.Purge()
	e.sweeper.stop()
	e.setState(StateReconnecting)
	e.logger.Warn("[SYNC] channel lost", "room_id", e.roomID, "err", err)

	go e.resubscribe(e.roomCtx, e.gen, e.roomID)
}

func (e *Engine) resubscribe(ctx context.Context, gen, roomID uint64) {
	delay := e.cfg.ReconnectDelay
	for {
		ch, err := e.dialer.Subscribe(ctx, roomID)
		if err == nil {
			attached := false
			_ = e.call(context.Background(), func() {
				if e.gen == gen {
					e.attach(ch)
					attached = true
				}
			})
			if !attached {
				_ = ch.Close()
			}
			return
		}

		if ctx.Err() != nil {
			return
		}
		if ce, ok := common.AsChatError(err); ok {
			// rejected outright, e.g. banned while away
			_ = e.call(context.Background(), func() {
				if e.gen == gen {
					e.leave()
					e.lastErr = ce
				}
			})
			return
		}

		e.logger.Warn("[SYNC] resubscribe failed", "room_id", roomID, "retry_in", delay, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-e.clock.After(delay):
		}
		delay *= 2
		if delay > e.cfg.ReconnectMaxDelay {
			delay = e.cfg.ReconnectMaxDelay
		}
	}
}

// startCatchUp fetches everything after the newest resolved message and
// reloads the caller's role, which may have changed while away.
// Optimistic entries take no part.
func (e *Engine) startCatchUp() {
	e.setState(StateReconnecting)
	ctx, gen, epoch, roomID, after := e.roomCtx, e.gen, e.connEpoch, e.roomID, e.messages.lastRealID()

	go func() {
		cctx, cancel := context.WithTimeout(ctx, e.cfg.CatchUpTimeout)
		defer cancel()

		msgs, err := e.fetchAfter(cctx, roomID, after)
		role, roleErr := e.api.GetRole(cctx, &api.GetRoleRequest{RoomID: roomID})
		_ = e.post(context.Background(), func() {
			if e.gen != gen {
				return
			}
			if err == nil {
				added := e.messages.merge(msgs)
				e.logger.Info("[SYNC] caught up", "room_id", roomID, "after", after, "added", added)
			}
			if roleErr == nil {
				e.role = RoleStatus{Role: common.Role(role.Role), IsMuted: role.IsMuted, MutedUntil: role.MutedUntil}
			} else {
				e.logger.Debug("[SYNC] role refresh failed", "room_id", roomID, "err", roleErr)
			}

			if e.connEpoch != epoch {
				// lost again meanwhile; the next subscription catches up
				e.notify()
				return
			}
			if err != nil {
				e.gapPending = true
				e.logger.Warn("[SYNC] catch-up failed", "room_id", roomID, "after", after, "err", err)
			} else {
				e.gapPending = false
			}
			e.setState(StateActive)
			e.notify()
		})
	}()
}

func (e *Engine) fetchAfter(ctx context.Context, roomID, after uint64) ([]Message, error) {
	if after == 0 {
		resp, err := e.api.ListMessages(ctx, &api.ListMessagesRequest{RoomID: roomID, Limit: e.cfg.PageSize})
		if err != nil {
			return nil, err
		}
		return convert(resp.Messages), nil
	}

	var out []Message
	cursor := after
	for {
		resp, err := e.api.ListMessages(ctx, &api.ListMessagesRequest{RoomID: roomID, After: cursor, Limit: e.cfg.PageSize})
		if err != nil {
			return nil, err
		}
		for _, m := range resp.Messages {
			out = append(out, fromAPI(m, StatusSent))
			if m.ID > cursor {
				cursor = m.ID
			}
		}
		if !resp.HasMore || len(resp.Messages) == 0 {
			return out, nil
		}
	}
}

func convert(in []api.Message) []Message {
	out := make([]Message, 0, len(in))
	for _, m := range in {
		out = append(out, fromAPI(m, StatusSent))
	}
	return out
}

// GapPending is true when the last catch-up did not complete.
func (e *Engine) GapPending() bool {
	return read(e, func() bool { return e.gapPending })
}

// RetryCatchUp runs the catch-up again after a failure.
func (e *Engine) RetryCatchUp(ctx context.Context) error {
	return e.call(ctx, func() {
		if e.gapPending && e.state == StateActive && e.roomID != 0 {
			e.startCatchUp()
		}
	})
}
