package hub

import (
	"container/list"
)

// room is one broadcast room: at most one broadcaster, an ordered set of
// viewers, and a bounded chat log. Access is synchronized by the owning
// Hub's single mutex (§5) — a room never locks itself.
type room struct {
	id   RoomID
	name string

	broadcaster *Session

	viewers      *list.List // ordered by join time, stores *Session
	viewerByID   map[UserID]*list.Element
	usernameSeen map[string]UserID // ASCII-lowercased username -> owner, for invariant 3

	chat *chatLog

	streamActive bool
}

func newRoom(id RoomID, chatRetain int) *room {
	return &room{
		id:           id,
		name:         "Room " + string(id),
		viewers:      list.New(),
		viewerByID:   make(map[UserID]*list.Element),
		usernameSeen: make(map[string]UserID),
		chat:         newChatLog(chatRetain),
	}
}

// isEmpty reports whether the room holds no broadcaster and no viewers —
// invariant 5 requires such a room not exist in the registry.
func (r *room) isEmpty() bool {
	return r.broadcaster == nil && r.viewers.Len() == 0
}

// hasUsername reports whether lowered, an ASCII-lowercased username, is
// already taken by a different identity than excluding. Callers lowercase
// the username first; that is what makes the check case-insensitive.
func (r *room) hasUsername(lowered string, excluding UserID) bool {
	owner, ok := r.usernameSeen[lowered]
	return ok && owner != excluding
}

func (r *room) addBroadcaster(s *Session) {
	r.broadcaster = s
}

func (r *room) removeBroadcaster() {
	r.broadcaster = nil
	r.streamActive = false
}

func (r *room) addViewer(s *Session) {
	elem := r.viewers.PushBack(s)
	r.viewerByID[s.identityID()] = elem
}

func (r *room) removeViewer(id UserID) {
	if elem, ok := r.viewerByID[id]; ok {
		r.viewers.Remove(elem)
		delete(r.viewerByID, id)
	}
}

func (r *room) viewerSessions() []*Session {
	out := make([]*Session, 0, r.viewers.Len())
	for e := r.viewers.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Session))
	}
	return out
}

func (r *room) viewerUsers() []User {
	out := make([]User, 0, r.viewers.Len())
	for e := r.viewers.Front(); e != nil; e = e.Next() {
		if u := e.Value.(*Session).Identity(); u != nil {
			out = append(out, *u)
		}
	}
	return out
}

// allSessions returns the broadcaster (if any) followed by viewers in join
// order — the canonical member enumeration used by fan-out helpers.
func (r *room) allSessions() []*Session {
	out := make([]*Session, 0, r.viewers.Len()+1)
	if r.broadcaster != nil {
		out = append(out, r.broadcaster)
	}
	out = append(out, r.viewerSessions()...)
	return out
}

func (r *room) snapshot() RoomSnapshot {
	var broadcaster *User
	if r.broadcaster != nil {
		broadcaster = r.broadcaster.Identity()
	}
	return RoomSnapshot{
		ID:           r.id,
		Name:         r.name,
		Broadcaster:  broadcaster,
		Viewers:      r.viewerUsers(),
		StreamActive: r.streamActive,
	}
}
