package syncengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"communitychat/internal/common"
)

func resolved(id uint64, at time.Duration) Message {
	return Message{ID: id, RoomID: room, CreatedAt: epoch.Add(at), Status: StatusSent}
}

func temp(key string) Message {
	return Message{TempID: tempPrefix + key, RoomID: room, CreatedAt: epoch, Status: StatusSending, draft: &Draft{Content: key}}
}

func TestMessageList_InsertKeepsTempsLast(t *testing.T) {
	var l messageList
	l.appendTemp(temp("a"))
	l.insert(resolved(2, 2*time.Second))
	l.insert(resolved(1, time.Second))
	l.appendTemp(temp("b"))
	l.insert(resolved(3, 2*time.Second))

	assert.Equal(t, []uint64{1, 2, 3, 0, 0}, ids(l.items))
	assert.Equal(t, 3, l.reals())
	assert.Equal(t, 4, l.indexOfTemp(tempPrefix+"b"))
	assert.Equal(t, -1, l.indexOfTemp(tempPrefix+"zzz"))
	assert.Equal(t, uint64(3), l.lastRealID())
	assert.Equal(t, uint64(1), l.firstRealID())
}

func TestMessageList_IndexOfIgnoresTemps(t *testing.T) {
	var l messageList
	l.insert(resolved(5, time.Second))
	l.appendTemp(temp("a"))

	assert.Equal(t, 0, l.indexOf(5))
	assert.True(t, l.has(5))
	assert.False(t, l.has(0))
}

func TestMessageList_Merge(t *testing.T) {
	var l messageList
	l.insert(resolved(2, 2*time.Second))
	l.appendTemp(temp("a"))

	added := l.merge([]Message{resolved(4, 4*time.Second), resolved(2, 2*time.Second), resolved(1, time.Second), resolved(3, 3*time.Second)})

	assert.Equal(t, 3, added)
	assert.Equal(t, []uint64{1, 2, 3, 4, 0}, ids(l.items))
	assert.Equal(t, 0, l.merge(nil))
}

func TestMessageList_LastRealIDUsesLargestID(t *testing.T) {
	var l messageList
	l.insert(resolved(9, time.Second))
	l.insert(resolved(4, 2*time.Second))

	assert.Equal(t, uint64(9), l.lastRealID())

	var empty messageList
	assert.Zero(t, empty.lastRealID())
	assert.Zero(t, empty.firstRealID())
}

func TestMessageList_SnapshotDropsDrafts(t *testing.T) {
	var l messageList
	l.appendTemp(temp("a"))

	snap := l.snapshot()
	assert.Nil(t, snap[0].draft)
	assert.NotNil(t, l.items[0].draft)

	removed := l.removeAt(0)
	assert.Equal(t, "a", removed.draft.Content)
	assert.Empty(t, l.items)
}

func TestMessage_Key(t *testing.T) {
	assert.Equal(t, "42", resolved(42, 0).Key())
	m := temp("x")
	assert.Equal(t, tempPrefix+"x", m.Key())
	assert.True(t, m.IsTemp())
	assert.False(t, resolved(42, 0).IsTemp())
}

func TestFromAPI_UnknownContentTypeFallsBackToText(t *testing.T) {
	in := msg(1, 11, 0, "x")
	in.ContentType = "sticker"
	assert.Equal(t, common.ContentTypeText, fromAPI(in, StatusSent).ContentType)

	in.ContentType = "image"
	assert.Equal(t, common.ContentTypeImage, fromAPI(in, StatusSent).ContentType)
}
