package hub

import (
	"log/slog"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/metrics"
)

// Dispatcher is the per-Session inbound loop (C8): it validates envelopes,
// mutates the Hub's registries, and emits fan-out. Exactly one Dispatcher
// per process; each Session is run against it independently.
type Dispatcher struct {
	hub *Hub
}

func NewDispatcher(h *Hub) *Dispatcher {
	return &Dispatcher{hub: h}
}

// Serve runs session to completion: it reads envelopes until the transport
// closes, dispatching each one, then runs the departure path exactly once.
// Grounded on the teacher's ServeWs + Room.router split, collapsed onto one
// Session since this hub has no per-room goroutine.
func (d *Dispatcher) Serve(session *Session) {
	metrics.ActiveSessions.Inc()
	go session.writePump()
	session.readPump(
		func(env Envelope) { d.handle(session, env) },
		func() { d.handleClose(session) },
	)
}

func (d *Dispatcher) handle(session *Session, env Envelope) {
	if session.Identity() == nil {
		if env.Type != TypeJoinRoom {
			metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "pre_join_dropped").Inc()
			return
		}
		d.handleJoin(session, env)
		return
	}

	switch env.Type {
	case TypeJoinRoom:
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "already_joined_dropped").Inc()
	case TypeChatMessage:
		d.handleChat(session, env)
	case TypeStreamReady:
		d.handleStreamReady(session, env)
	case TypeViewerReady:
		d.handleViewerReady(session, env)
	case TypeOffer, TypeAnswer, TypeICECandidate:
		d.handleSignal(session, env)
	default:
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "unknown_type").Inc()
	}
}

func (d *Dispatcher) handleJoin(session *Session, env Envelope) {
	payload, err := unmarshalPayload[joinRoomPayload](env)
	if err != nil {
		slog.Warn("dropping malformed JOIN_ROOM", "error", err)
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "malformed").Inc()
		return
	}

	result, err := d.hub.Join(session, payload.RoomID, payload.Username, payload.Role)
	if err != nil {
		code, _ := asJoinError(err)
		session.Send(TypeError, errorPayload{Code: code, Message: errorMessage(code)})
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "rejected").Inc()
		return
	}
	metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "ok").Inc()

	session.Send(TypeRoomJoined, roomJoinedPayload{
		Room:     result.Room,
		User:     result.User,
		Messages: result.Messages,
	})

	if result.StreamActive && result.User.Role == RoleViewer {
		session.Send(TypeBroadcasterReady, broadcasterReadyPayload{Broadcaster: *result.Room.Broadcaster})
	}

	sendTo(result.OtherMembers, TypeUserJoined, userJoinedPayload{User: result.User})
	sendTo(result.AllMembers, TypeRoomState, roomStatePayload{Room: result.Room})
}

func (d *Dispatcher) handleChat(session *Session, env Envelope) {
	payload, err := unmarshalPayload[chatMessagePayload](env)
	if err != nil {
		slog.Warn("dropping malformed CHAT_MESSAGE", "error", err)
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "malformed").Inc()
		return
	}

	result, ok := d.hub.AppendChat(session, payload.Message.Content, payload.Message.Kind, payload.Message.RecipientID)
	if !ok {
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "dropped").Inc()
		return
	}
	metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "ok").Inc()

	if result.Private {
		notify := chatMessageReceivedPayload{Message: result.Entry}
		session.Send(TypeChatMessageReceived, notify)
		if result.Recipient != nil && result.Recipient != session {
			result.Recipient.Send(TypeChatMessageReceived, notify)
		}
		return
	}
	sendTo(result.Targets, TypeChatMessageReceived, chatMessageReceivedPayload{Message: result.Entry})
}

func (d *Dispatcher) handleStreamReady(session *Session, env Envelope) {
	viewers, ok := d.hub.StreamReady(session)
	if !ok {
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "dropped").Inc()
		return
	}
	metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "ok").Inc()
	metrics.RendezvousEventsTotal.WithLabelValues(string(TypeStreamReady)).Inc()

	broadcaster := session.Identity()
	sendTo(viewers, TypeBroadcasterReady, broadcasterReadyPayload{Broadcaster: *broadcaster})
}

func (d *Dispatcher) handleViewerReady(session *Session, env Envelope) {
	broadcaster, ok := d.hub.ViewerReady(session)
	if !ok {
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "dropped").Inc()
		return
	}
	metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "ok").Inc()
	metrics.RendezvousEventsTotal.WithLabelValues(string(TypeViewerReady)).Inc()

	viewer := session.Identity()
	broadcaster.Send(TypeViewerReady, viewerReadyNotifyPayload{Viewer: *viewer})
}

func (d *Dispatcher) handleClose(session *Session) {
	result, ok := d.hub.Part(session)
	if !ok {
		return
	}
	left := userLeftPayload{User: result.User, Room: result.Room}
	sendTo(result.Targets, TypeUserLeft, left)
	if result.RoomStillOpen {
		sendTo(result.Targets, TypeRoomState, roomStatePayload{Room: result.Room})
	}
}

// sendTo encodes payload once and enqueues the frame on every target — the
// "collect under lock, write outside lock" helper required by §5. Callers
// always invoke this after the Hub mutex has been released.
func sendTo(targets []*Session, t EnvelopeType, payload any) {
	frame, err := encode(t, payload)
	if err != nil {
		slog.Error("failed to encode fan-out envelope", "type", t, "error", err)
		return
	}
	for _, s := range targets {
		s.enqueue(frame)
	}
}
