package hub

import (
	"log/slog"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/metrics"
)

// handleSignal implements C6: forward OFFER/ANSWER/ICE_CANDIDATE to the
// addressed receiver, overwriting the client-claimed sender with the
// hub-resolved originator before relay (§4.6, §9 "Identifying clients").
func (d *Dispatcher) handleSignal(session *Session, env Envelope) {
	payload, err := unmarshalPayload[signalPayload](env)
	if err != nil {
		slog.Warn("dropping malformed signaling envelope", "type", env.Type, "error", err)
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "malformed").Inc()
		return
	}

	originator, target, ok := d.hub.ResolveReceiver(session, payload.Receiver)
	if !ok || target == nil {
		metrics.RelayDropsTotal.WithLabelValues(string(env.Type)).Inc()
		metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "dropped").Inc()
		return
	}

	payload.Sender = originator
	target.Send(env.Type, payload)
	metrics.EnvelopesTotal.WithLabelValues(string(env.Type), "ok").Inc()
}
