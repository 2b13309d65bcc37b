package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 6: signal relay rewrites the claimed sender with the hub-resolved
// originator, and drops envelopes addressed to an unknown receiver.
func TestHandleSignal_RewritesSenderToHubResolvedOriginator(t *testing.T) {
	h := NewHub(100)
	d := NewDispatcher(h)

	s1 := newJoiningSession()
	j1, err := h.Join(s1, "r", "Alice", RoleBroadcaster)
	require.NoError(t, err)
	s2 := newJoiningSession()
	j2, err := h.Join(s2, "r", "Bob", RoleViewer)
	require.NoError(t, err)

	env, err := newEnvelope(TypeOffer, signalPayload{
		Sender:   UserID("ATTACKER"),
		Receiver: j2.User.ID,
		RoomID:   "r",
		Data:     json.RawMessage(`{"sdp":"D"}`),
	})
	require.NoError(t, err)

	d.handleSignal(s1, env)

	select {
	case frame := <-s2.send:
		var outer Envelope
		require.NoError(t, json.Unmarshal(frame, &outer))
		assert.Equal(t, TypeOffer, outer.Type)
		payload, err := unmarshalPayload[signalPayload](outer)
		require.NoError(t, err)
		assert.Equal(t, j1.User.ID, payload.Sender)
		assert.JSONEq(t, `{"sdp":"D"}`, string(payload.Data))
	case <-time.After(time.Second):
		t.Fatal("expected relayed frame")
	}
}

func TestHandleSignal_DropsUnknownReceiver(t *testing.T) {
	h := NewHub(100)
	d := NewDispatcher(h)

	s1 := newJoiningSession()
	_, err := h.Join(s1, "r", "Alice", RoleBroadcaster)
	require.NoError(t, err)

	env, err := newEnvelope(TypeOffer, signalPayload{Receiver: UserID("ghost"), RoomID: "r"})
	require.NoError(t, err)

	d.handleSignal(s1, env)
	assert.Len(t, s1.send, 0)
}

func TestHandleSignal_DropsMalformedPayload(t *testing.T) {
	h := NewHub(100)
	d := NewDispatcher(h)
	s1 := newJoiningSession()
	_, err := h.Join(s1, "r", "Alice", RoleBroadcaster)
	require.NoError(t, err)

	env := Envelope{Type: TypeOffer, Payload: []byte(`"not an object"`)}
	assert.NotPanics(t, func() { d.handleSignal(s1, env) })
}
