package syncengine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

func (e *Engine) validateDraft(d Draft) error {
	if e.roomID == 0 || e.state == StateIdle || e.state == StateLoading {
		return common.Validation("no room is open")
	}
	if d.Image != nil {
		if strings.TrimSpace(d.Content) != "" {
			return common.Validation("a message carries either text or an image")
		}
		if len(d.Image.Data) == 0 {
			return common.Validation("image is empty")
		}
		if !common.IsAllowedImage(d.Image.ContentType) {
			return common.Validation("unsupported image type %q", d.Image.ContentType)
		}
	} else if err := common.ValidateContent(d.Content, common.ContentTypeText, e.cfg.MaxContentLength); err != nil {
		return err
	}

	if r := e.currentRole(); r.IsMuted {
		if r.MutedUntil != nil {
			return common.Muted(*r.MutedUntil)
		}
		return common.ErrMuted
	}
	return nil
}

// retryable reports whether a failed send keeps its entry for Retry.
// Anything that is not a typed rejection counts as transport.
func retryable(err error) bool {
	ce, ok := common.AsChatError(err)
	if !ok {
		return true
	}
	return ce.Code == common.CodeRateLimited
}

// Send appends an optimistic entry and submits the draft. Validation and a
// known active mute fail before anything is appended.
func (e *Engine) Send(ctx context.Context, d Draft) (*Message, error) {
	var (
		tempID      string
		roomID, gen uint64
		verr        error
	)
	if err := e.call(ctx, func() {
		if verr = e.validateDraft(d); verr != nil {
			return
		}
		tempID = tempPrefix + uuid.NewString()
		roomID, gen = e.roomID, e.gen

		draft := d
		m := Message{
			TempID:      tempID,
			RoomID:      roomID,
			UserID:      e.self.UserID,
			Content:     d.Content,
			ContentType: common.ContentTypeText,
			ReplyToID:   d.ReplyToID,
			CreatedAt:   e.clock.Now().UTC(),
			Author:      &api.Author{UserID: e.self.UserID, DisplayName: e.self.DisplayName, AvatarURL: e.self.AvatarURL},
			Status:      StatusSending,
			draft:       &draft,
		}
		if d.Image != nil {
			m.Content = d.Image.Filename
			m.ContentType = common.ContentTypeImage
		}
		e.messages.appendTemp(m)
		e.notify()
	}); err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	return e.deliver(ctx, tempID, roomID, gen, d)
}

func (e *Engine) deliver(ctx context.Context, tempID string, roomID, gen uint64, d Draft) (*Message, error) {
	req := &api.SendMessageRequest{
		RoomID:      roomID,
		Content:     d.Content,
		ContentType: string(common.ContentTypeText),
		ReplyToID:   d.ReplyToID,
	}
	if d.Image != nil {
		up, err := e.api.UploadImage(ctx, d.Image.Filename, d.Image.ContentType, d.Image.Data)
		if err != nil {
			return nil, e.failSend(tempID, gen, err)
		}
		req.Content = up.FileID
		req.ContentType = string(common.ContentTypeImage)
	}

	resp, err := e.api.SendMessage(ctx, req)
	if err != nil {
		return nil, e.failSend(tempID, gen, err)
	}

	out := fromAPI(resp.Message, StatusSent)
	_ = e.call(context.Background(), func() {
		if e.gen != gen {
			return
		}
		// mark first so neither channel can insert it while the list changes
		e.dedup.Add(resp.Message.ID, struct{}{})
		if i := e.messages.indexOfTemp(tempID); i >= 0 {
			e.messages.removeAt(i)
		}
		if i := e.messages.indexOf(resp.Message.ID); i >= 0 {
			e.messages.items[i].Status = StatusSent
			out = e.messages.items[i]
		} else {
			e.messages.insert(out)
		}
		e.notify()
	})
	out.draft = nil
	return &out, nil
}

func (e *Engine) failSend(tempID string, gen uint64, err error) error {
	_ = e.call(context.Background(), func() {
		if e.gen != gen {
			return
		}
		i := e.messages.indexOfTemp(tempID)
		if retryable(err) {
			if i >= 0 {
				e.messages.items[i].Status = StatusFailed
			}
		} else {
			if i >= 0 {
				e.messages.removeAt(i)
			}
			if ce, ok := common.AsChatError(err); ok && ce.Code == common.CodeMuted {
				e.role.IsMuted = true
				e.role.MutedUntil = ce.MutedUntil
			}
		}
		e.notify()
	})
	return err
}

// Retry resends a failed entry's draft. The entry stays if the draft no
// longer validates.
func (e *Engine) Retry(ctx context.Context, tempID string) (*Message, error) {
	var (
		d    *Draft
		verr error
	)
	if err := e.call(ctx, func() {
		i := e.messages.indexOfTemp(tempID)
		if i < 0 || e.messages.items[i].Status != StatusFailed || e.messages.items[i].draft == nil {
			verr = common.Validation("no failed message %s", tempID)
			return
		}
		if verr = e.validateDraft(*e.messages.items[i].draft); verr != nil {
			return
		}
		d = e.messages.removeAt(i).draft
		e.notify()
	}); err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}
	return e.Send(ctx, *d)
}

// Discard drops a failed entry the user gave up on.
func (e *Engine) Discard(ctx context.Context, tempID string) error {
	return e.call(ctx, func() {
		if i := e.messages.indexOfTemp(tempID); i >= 0 && e.messages.items[i].Status == StatusFailed {
			e.messages.removeAt(i)
			e.notify()
		}
	})
}
