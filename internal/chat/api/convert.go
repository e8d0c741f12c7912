package api

import (
	"time"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

func AuthorFrom(a *dbmysql.Account) *Author {
	if a == nil {
		return nil
	}
	return &Author{UserID: a.UserID, Handle: a.Handle, DisplayName: a.Name(), AvatarURL: a.AvatarURL}
}

// MessageFrom converts a stored row. Deleted messages keep their id but lose
// their content.
func MessageFrom(m *dbmysql.Message, author *dbmysql.Account) Message {
	out := Message{
		ID:          m.ID,
		RoomID:      m.RoomID,
		UserID:      m.UserID,
		Content:     m.Content,
		ContentType: m.ContentType,
		ReplyToID:   m.ReplyToID,
		IsPinned:    m.IsPinned,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt.UTC(),
		Author:      AuthorFrom(author),
	}
	if m.IsDeleted {
		out.Content = ""
	}
	return out
}

func RoomFrom(r *dbmysql.Room) Room {
	return Room{ID: r.ID, Name: r.Name, Scope: r.Scope, IsActive: r.IsActive}
}

// ErrorBodyFrom renders err for HTTP and realtime clients. Untyped errors
// are reported as internal without leaking their text.
func ErrorBodyFrom(err error) ErrorBody {
	ce, ok := common.AsChatError(err)
	if !ok {
		return ErrorBody{Code: "internal", Message: "internal error"}
	}
	body := ErrorBody{Code: string(ce.Code), Message: ce.Message, MutedUntil: ce.MutedUntil}
	if ce.RetryAfter > 0 {
		body.RetryAfterMs = ce.RetryAfter.Milliseconds()
	}
	return body
}

// Err turns a decoded body back into a *common.ChatError.
func (b ErrorBody) Err() *common.ChatError {
	return &common.ChatError{
		Code:       common.ErrorCode(b.Code),
		Message:    b.Message,
		MutedUntil: b.MutedUntil,
		RetryAfter: time.Duration(b.RetryAfterMs) * time.Millisecond,
	}
}
