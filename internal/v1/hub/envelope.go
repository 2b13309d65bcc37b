package hub

import (
	"encoding/json"
	"fmt"
	"time"
)

// EnvelopeType tags the shape of an Envelope's Payload.
type EnvelopeType string

const (
	// Client -> Hub
	TypeJoinRoom     EnvelopeType = "JOIN_ROOM"
	TypeStreamReady  EnvelopeType = "STREAM_READY"
	TypeViewerReady  EnvelopeType = "VIEWER_READY"
	TypeChatMessage  EnvelopeType = "CHAT_MESSAGE"
	TypeOffer        EnvelopeType = "OFFER"
	TypeAnswer       EnvelopeType = "ANSWER"
	TypeICECandidate EnvelopeType = "ICE_CANDIDATE"

	// Hub -> Client
	TypeRoomJoined          EnvelopeType = "ROOM_JOINED"
	TypeRoomState           EnvelopeType = "ROOM_STATE"
	TypeUserJoined          EnvelopeType = "USER_JOINED"
	TypeUserLeft            EnvelopeType = "USER_LEFT"
	TypeBroadcasterReady    EnvelopeType = "BROADCASTER_READY"
	TypeChatMessageReceived EnvelopeType = "CHAT_MESSAGE_RECEIVED"
	TypeError               EnvelopeType = "ERROR"
)

// Envelope is the single textual frame exchanged over a Session. Payload is
// kept as raw JSON until a handler for Type unmarshals it into the concrete
// struct that tag implies; this mirrors the teacher's two-phase decode
// (generic envelope, then typed payload) so an unknown Type or malformed
// Payload never panics the dispatcher.
type Envelope struct {
	Type      EnvelopeType    `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
}

// newEnvelope builds an outbound Envelope, re-stamping the timestamp at
// emission time — §4.1 specifies the sender's timestamp is informational
// only and the server always re-stamps on re-emission.
func newEnvelope(t EnvelopeType, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal payload for %s: %w", t, err)
	}
	return Envelope{
		Type:      t,
		Payload:   data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// encode serializes an outbound envelope to the wire frame format.
func encode(t EnvelopeType, payload any) ([]byte, error) {
	env, err := newEnvelope(t, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// decode parses an inbound wire frame into an Envelope. A malformed frame
// (not a JSON object, or missing "type") is a client protocol error
// (§7 kind 1): the caller logs and drops it, the session stays open. An
// unrecognized "type" decodes successfully and is dropped by the dispatcher.
func decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// unmarshalPayload decodes an Envelope's raw payload into T, catching shape
// violations at the decode boundary rather than deep in dispatcher logic (grounded on the teacher's
// assertPayload[T] generic in session/handlers.go).
func unmarshalPayload[T any](env Envelope) (T, error) {
	var out T
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return out, nil
}

// --- Payload shapes, §6.2 ---

type joinRoomPayload struct {
	RoomID   RoomID      `json:"room_id"`
	Username DisplayName `json:"username"`
	Role     RoleType    `json:"role"`
}

type streamReadyPayload struct {
	RoomID RoomID `json:"room_id"`
	UserID UserID `json:"user_id"`
}

type viewerReadyPayload struct {
	RoomID RoomID `json:"room_id"`
	UserID UserID `json:"user_id"`
}

type chatMessagePayload struct {
	Message chatMessageBody `json:"message"`
}

type chatMessageBody struct {
	Content     string   `json:"content"`
	Kind        ChatKind `json:"kind"`
	RecipientID UserID   `json:"recipient_id,omitempty"`
	RoomID      RoomID   `json:"room_id"`
}

// signalPayload is the common shape of OFFER/ANSWER/ICE_CANDIDATE: the
// client names itself in Sender, but §9 requires the hub overwrite that
// field with the resolved originator before relay.
type signalPayload struct {
	Sender   UserID          `json:"sender"`
	Receiver UserID          `json:"receiver"`
	RoomID   RoomID          `json:"room_id"`
	Data     json.RawMessage `json:"data"`
}

type roomJoinedPayload struct {
	Room     RoomSnapshot `json:"room"`
	User     User         `json:"user"`
	Messages []ChatEntry  `json:"messages"`
}

type roomStatePayload struct {
	Room RoomSnapshot `json:"room"`
}

type userJoinedPayload struct {
	User User `json:"user"`
}

type userLeftPayload struct {
	User User         `json:"user"`
	Room RoomSnapshot `json:"room"`
}

type broadcasterReadyPayload struct {
	Broadcaster User `json:"broadcaster"`
}

type viewerReadyNotifyPayload struct {
	Viewer User `json:"viewer"`
}

type chatMessageReceivedPayload struct {
	Message ChatEntry `json:"message"`
}

// ErrorCode enumerates the semantic join failures of §4.4/§6.2.
type ErrorCode string

const (
	ErrRoomNotFound      ErrorCode = "ROOM_NOT_FOUND"
	ErrBroadcasterExists ErrorCode = "BROADCASTER_EXISTS"
	ErrUserExists        ErrorCode = "USER_EXISTS"
	ErrInvalidRole       ErrorCode = "INVALID_ROLE"
)

type errorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
