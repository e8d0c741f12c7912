package syncengine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

const tempPrefix = "tmp-"

type Status string

const (
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Message is the client projection of a stored message. Optimistic entries
// have ID 0 and a TempID until the server answers.
type Message struct {
	ID          uint64
	TempID      string
	RoomID      uint64
	UserID      uint64
	Content     string
	ContentType common.ContentType
	ReplyToID   *uint64
	IsPinned    bool
	CreatedAt   time.Time
	Author      *api.Author
	Status      Status

	draft *Draft
}

// Key identifies the entry in the list whether or not it is resolved.
func (m Message) Key() string {
	if m.TempID != "" {
		return m.TempID
	}
	return strconv.FormatUint(m.ID, 10)
}

func (m Message) IsTemp() bool {
	return strings.HasPrefix(m.TempID, tempPrefix)
}

// Draft is what the user submitted. It is kept on failed entries so Retry
// can resend without retyping.
type Draft struct {
	Content   string
	ReplyToID *uint64
	Image     *Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

func fromAPI(m api.Message, status Status) Message {
	ct, ok := common.ParseContentType(m.ContentType)
	if !ok {
		ct = common.ContentTypeText
	}
	return Message{
		ID:          m.ID,
		RoomID:      m.RoomID,
		UserID:      m.UserID,
		Content:     m.Content,
		ContentType: ct,
		ReplyToID:   m.ReplyToID,
		IsPinned:    m.IsPinned,
		CreatedAt:   m.CreatedAt,
		Author:      m.Author,
		Status:      status,
	}
}

// before orders resolved messages by creation time, id breaking ties.
func before(a, b Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// messageList keeps resolved messages sorted with optimistic entries after
// them in submission order.
type messageList struct {
	items []Message
}

func (l *messageList) reals() int {
	n := 0
	for n < len(l.items) && !l.items[n].IsTemp() {
		n++
	}
	return n
}

// indexOf scans from the newest end, where lookups almost always land.
func (l *messageList) indexOf(id uint64) int {
	for i := l.reals() - 1; i >= 0; i-- {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *messageList) has(id uint64) bool {
	return l.indexOf(id) >= 0
}

func (l *messageList) insert(m Message) {
	n := l.reals()
	i := sort.Search(n, func(i int) bool { return before(m, l.items[i]) })
	l.items = append(l.items, Message{})
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = m
}

func (l *messageList) appendTemp(m Message) {
	l.items = append(l.items, m)
}

func (l *messageList) indexOfTemp(tempID string) int {
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].TempID == tempID {
			return i
		}
	}
	return -1
}

func (l *messageList) removeAt(i int) Message {
	m := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return m
}

// lastRealID is the id of the newest resolved message, or 0.
func (l *messageList) lastRealID() uint64 {
	var max uint64
	for i := 0; i < l.reals(); i++ {
		if l.items[i].ID > max {
			max = l.items[i].ID
		}
	}
	return max
}

func (l *messageList) firstRealID() uint64 {
	if l.reals() == 0 {
		return 0
	}
	return l.items[0].ID
}

// merge adds every message not already present, then restores order.
// Optimistic entries are left alone and stay last.
func (l *messageList) merge(in []Message) int {
	n := l.reals()
	present := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		present[l.items[i].ID] = true
	}

	reals := append([]Message(nil), l.items[:n]...)
	temps := append([]Message(nil), l.items[n:]...)
	added := 0
	for _, m := range in {
		if present[m.ID] {
			continue
		}
		present[m.ID] = true
		reals = append(reals, m)
		added++
	}
	sort.SliceStable(reals, func(i, j int) bool { return before(reals[i], reals[j]) })
	l.items = append(reals, temps...)
	return added
}

func (l *messageList) snapshot() []Message {
	out := make([]Message, len(l.items))
	copy(out, l.items)
	for i := range out {
		out[i].draft = nil
	}
	return out
}
