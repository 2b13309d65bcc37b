package hub

import (
	"container/list"

	"github.com/google/uuid"
)

// chatLog is a room's bounded message history, grounded on the teacher's
// addChat/getRecentChats pair in session/methods.go: a container/list.List
// trimmed to a retention cap on every append, with reads always capped
// independently of that cap.
type chatLog struct {
	entries *list.List
	retain  int
}

const chatReadLimit = 50

func newChatLog(retain int) *chatLog {
	if retain <= 0 {
		retain = 100
	}
	return &chatLog{entries: list.New(), retain: retain}
}

// append records a new entry, minting its ID, and trims the log down to the
// retention cap. The entry's timestamp is set by the caller.
func (c *chatLog) append(entry ChatEntry) ChatEntry {
	entry.ID = ChatID(uuid.New().String())
	c.entries.PushBack(entry)
	for c.entries.Len() > c.retain {
		c.entries.Remove(c.entries.Front())
	}
	return entry
}

// tail returns up to chatReadLimit most recent entries, oldest first.
func (c *chatLog) tail() []ChatEntry {
	return c.tailN(chatReadLimit)
}

func (c *chatLog) tailN(n int) []ChatEntry {
	all := make([]ChatEntry, 0, c.entries.Len())
	for e := c.entries.Front(); e != nil; e = e.Next() {
		if entry, ok := e.Value.(ChatEntry); ok {
			all = append(all, entry)
		}
	}
	if n > 0 && len(all) > n {
		return all[len(all)-n:]
	}
	return all
}
