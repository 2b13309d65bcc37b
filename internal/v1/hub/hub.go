package hub

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/metrics"
)

// Hub is the process-wide room/session coordination hub. Per §9's design
// note and §5, the identity registry (C3), room registry (C4), and each
// room's chat log (C5) are one logical unit of state guarded by a single
// mutex — grounded on the teacher's session/hub.go Hub{rooms, mu}.
type Hub struct {
	mu sync.Mutex

	rooms      map[RoomID]*room
	identities map[UserID]*Session

	chatRetain int
}

// NewHub constructs an empty Hub. chatRetain bounds each room's retained
// chat history (§C5); the history returned by Join is independently capped
// at 50, and RoomMessages returns at most its caller's limit.
func NewHub(chatRetain int) *Hub {
	return &Hub{
		rooms:      make(map[RoomID]*room),
		identities: make(map[UserID]*Session),
		chatRetain: chatRetain,
	}
}

// JoinResult is everything the dispatcher needs to answer a successful
// JOIN_ROOM: the reply to the joiner and the targets for its two fan-outs.
type JoinResult struct {
	User         User
	Room         RoomSnapshot
	Messages     []ChatEntry
	StreamActive bool

	AllMembers   []*Session // includes the joiner; for ROOM_STATE
	OtherMembers []*Session // excludes the joiner; for USER_JOINED
}

// Join implements C4.join. It is atomic under the hub mutex: invariants 1-6
// hold at both call boundaries.
func (h *Hub) Join(session *Session, roomID RoomID, username DisplayName, role RoleType) (*JoinResult, error) {
	if role != RoleBroadcaster && role != RoleViewer {
		return nil, newJoinError(ErrInvalidRole)
	}
	lowered := strings.ToLower(string(username))

	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[roomID]
	if !exists {
		if role != RoleBroadcaster {
			return nil, newJoinError(ErrRoomNotFound)
		}
		r = newRoom(roomID, h.chatRetain)
		h.rooms[roomID] = r
	} else if role == RoleBroadcaster && r.broadcaster != nil {
		return nil, newJoinError(ErrBroadcasterExists)
	}

	if r.hasUsername(lowered, "") {
		return nil, newJoinError(ErrUserExists)
	}

	user := User{
		ID:       UserID(uuid.New().String()),
		Username: username,
		Role:     role,
		RoomID:   roomID,
	}
	session.bindIdentity(&user)
	h.identities[user.ID] = session
	r.usernameSeen[lowered] = user.ID

	if role == RoleBroadcaster {
		r.addBroadcaster(session)
	} else {
		r.addViewer(session)
		metrics.RoomViewers.WithLabelValues(string(roomID)).Inc()
	}
	metrics.ActiveRooms.Set(float64(len(h.rooms)))

	all := r.allSessions()
	other := make([]*Session, 0, len(all))
	for _, s := range all {
		if s != session {
			other = append(other, s)
		}
	}

	return &JoinResult{
		User:         user,
		Room:         r.snapshot(),
		Messages:     r.chat.tail(),
		StreamActive: r.streamActive,
		AllMembers:   all,
		OtherMembers: other,
	}, nil
}

// PartResult is what the dispatcher needs to run the departure fan-out.
type PartResult struct {
	User          User
	Room          RoomSnapshot
	RoomStillOpen bool
	Targets       []*Session // remaining members, for USER_LEFT/ROOM_STATE
}

// Part implements C4.part, idempotent: a Session that never joined, or whose
// identity an earlier Part already removed from the registry, is a no-op.
func (h *Hub) Part(session *Session) (*PartResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	identity := session.Identity()
	if identity == nil {
		return nil, false
	}
	if _, live := h.identities[identity.ID]; !live {
		return nil, false
	}
	delete(h.identities, identity.ID)

	r, exists := h.rooms[identity.RoomID]
	if !exists {
		return &PartResult{User: *identity}, true
	}

	lowered := strings.ToLower(string(identity.Username))
	delete(r.usernameSeen, lowered)

	if identity.Role == RoleBroadcaster {
		r.removeBroadcaster()
	} else {
		r.removeViewer(identity.ID)
		metrics.RoomViewers.WithLabelValues(string(identity.RoomID)).Dec()
	}

	result := &PartResult{User: *identity}
	if r.isEmpty() {
		delete(h.rooms, identity.RoomID)
		metrics.RoomViewers.DeleteLabelValues(string(identity.RoomID))
	} else {
		result.RoomStillOpen = true
		result.Room = r.snapshot()
		result.Targets = r.allSessions()
	}
	metrics.ActiveRooms.Set(float64(len(h.rooms)))

	return result, true
}

// ChatResult carries an appended entry plus the fan-out targets: either the
// sender+recipient pair for a private message, or the whole room for public.
type ChatResult struct {
	Entry     ChatEntry
	Private   bool
	Recipient *Session // nil unless Private and the recipient is live
	Targets   []*Session
}

// AppendChat implements the mutating half of C5/C8.3: minting the entry and
// appending it to the room's chat log under the hub mutex.
func (h *Hub) AppendChat(session *Session, content string, kind ChatKind, recipientID UserID) (*ChatResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	identity := session.Identity()
	if identity == nil {
		return nil, false
	}
	r, exists := h.rooms[identity.RoomID]
	if !exists {
		return nil, false
	}

	entry := r.chat.append(ChatEntry{
		SenderID:       identity.ID,
		SenderUsername: identity.Username,
		RoomID:         identity.RoomID,
		Content:        content,
		Kind:           kind,
		RecipientID:    recipientID,
		Timestamp:      time.Now().UTC(),
	})
	metrics.ChatMessagesTotal.WithLabelValues(string(kind)).Inc()

	result := &ChatResult{Entry: entry}
	if kind == ChatPrivate {
		result.Private = true
		result.Recipient = h.identities[recipientID]
	} else {
		result.Targets = r.allSessions()
	}
	return result, true
}

// StreamReady implements C7's broadcaster-side transition. Returns the
// viewers to notify and whether the call came from a live broadcaster.
func (h *Hub) StreamReady(session *Session) ([]*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	identity := session.Identity()
	if identity == nil || identity.Role != RoleBroadcaster {
		return nil, false
	}
	r, exists := h.rooms[identity.RoomID]
	if !exists || r.broadcaster != session {
		return nil, false
	}
	r.streamActive = true
	return r.viewerSessions(), true
}

// ViewerReady implements C7's viewer-side transition: resolves the room's
// broadcaster so the dispatcher can forward VIEWER_READY to it.
func (h *Hub) ViewerReady(session *Session) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	identity := session.Identity()
	if identity == nil || identity.Role != RoleViewer {
		return nil, false
	}
	r, exists := h.rooms[identity.RoomID]
	if !exists || r.broadcaster == nil {
		return nil, false
	}
	return r.broadcaster, true
}

// ResolveReceiver implements the addressing half of C6: the sender must
// hold an identity, and receiver must resolve to a live Session.
func (h *Hub) ResolveReceiver(sender *Session, receiver UserID) (originator UserID, target *Session, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	identity := sender.Identity()
	if identity == nil {
		return "", nil, false
	}
	target, found := h.identities[receiver]
	if !found {
		return identity.ID, nil, false
	}
	return identity.ID, target, true
}

// ListRooms implements the read model behind GET /rooms.
func (h *Hub) ListRooms() []RoomSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]RoomSnapshot, 0, len(h.rooms))
	for _, r := range h.rooms {
		out = append(out, r.snapshot())
	}
	return out
}

// RoomMessages implements the read model behind
// GET /rooms/{room_id}/messages. An absent room yields an empty slice, not
// an error — invariant 5 means there is nothing to distinguish a room that
// never existed from one that just emptied out.
func (h *Hub) RoomMessages(roomID RoomID, limit int) []ChatEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[roomID]
	if !exists {
		return []ChatEntry{}
	}
	return r.chat.tailN(limit)
}
