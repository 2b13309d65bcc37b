// Package hub implements the room/session coordination hub: the concurrent,
// in-memory state machine that tracks room membership and broadcaster/viewer
// roles, relays WebRTC signaling envelopes between named endpoints, and
// coordinates the stream-ready rendezvous. It never touches media bytes.
package hub

import "time"

// RoleType is the permission level a User holds within a Room.
type RoleType string

const (
	RoleBroadcaster RoleType = "broadcaster"
	RoleViewer      RoleType = "viewer"
)

// UserID uniquely identifies a User for the lifetime of its identity.
// Server-minted; never reused, even across reconnects of the same client.
type UserID string

// RoomID is the client-chosen identifier for a Room.
type RoomID string

// DisplayName is the human-readable username a User joined with.
type DisplayName string

// ChatID uniquely identifies a ChatEntry.
type ChatID string

// ChatKind distinguishes a room-wide chat message from a directed one.
type ChatKind string

const (
	ChatPublic  ChatKind = "public"
	ChatPrivate ChatKind = "private"
)

// User is the authoritative record of a joined identity. Role and RoomID are
// immutable for the identity's lifetime; only the identity registry may
// create or remove a User.
type User struct {
	ID       UserID      `json:"id"`
	Username DisplayName `json:"username"`
	Role     RoleType    `json:"role"`
	RoomID   RoomID      `json:"roomId"`
}

// ChatEntry is one message appended to a room's chat log.
type ChatEntry struct {
	ID             ChatID      `json:"id"`
	SenderID       UserID      `json:"senderId"`
	SenderUsername DisplayName `json:"senderUsername"`
	RoomID         RoomID      `json:"roomId"`
	Content        string      `json:"content"`
	Kind           ChatKind    `json:"kind"`
	RecipientID    UserID      `json:"recipientId,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// RoomSnapshot is the read-only view of a Room handed to clients: on
// JOIN_ROOM, on ROOM_STATE fan-out, and from the GET /rooms admin endpoint.
type RoomSnapshot struct {
	ID           RoomID `json:"id"`
	Name         string `json:"name"`
	Broadcaster  *User  `json:"broadcaster,omitempty"`
	Viewers      []User `json:"viewers"`
	StreamActive bool   `json:"streamActive"`
}
