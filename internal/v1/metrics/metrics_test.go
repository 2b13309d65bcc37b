package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestActiveSessionsGauge(t *testing.T) {
	ActiveSessions.Set(0)
	ActiveSessions.Inc()
	if val := testutil.ToFloat64(ActiveSessions); val != 1 {
		t.Errorf("expected ActiveSessions to be 1, got %v", val)
	}
	ActiveSessions.Dec()
	if val := testutil.ToFloat64(ActiveSessions); val != 0 {
		t.Errorf("expected ActiveSessions to be 0, got %v", val)
	}
}

func TestRoomViewersGaugeVec(t *testing.T) {
	RoomViewers.WithLabelValues("room-1").Set(3)
	if val := testutil.ToFloat64(RoomViewers.WithLabelValues("room-1")); val != 3 {
		t.Errorf("expected RoomViewers[room-1] to be 3, got %v", val)
	}
}

func TestEnvelopesTotalCounterVec(t *testing.T) {
	before := testutil.ToFloat64(EnvelopesTotal.WithLabelValues("JOIN_ROOM", "ok"))
	EnvelopesTotal.WithLabelValues("JOIN_ROOM", "ok").Inc()
	after := testutil.ToFloat64(EnvelopesTotal.WithLabelValues("JOIN_ROOM", "ok"))
	if after != before+1 {
		t.Errorf("expected EnvelopesTotal to increment by 1, got before=%v after=%v", before, after)
	}
}

func TestRelayDropsTotalCounterVec(t *testing.T) {
	before := testutil.ToFloat64(RelayDropsTotal.WithLabelValues("OFFER"))
	RelayDropsTotal.WithLabelValues("OFFER").Inc()
	after := testutil.ToFloat64(RelayDropsTotal.WithLabelValues("OFFER"))
	if after != before+1 {
		t.Errorf("expected RelayDropsTotal to increment by 1, got before=%v after=%v", before, after)
	}
}

func TestRendezvousEventsTotalCounterVec(t *testing.T) {
	before := testutil.ToFloat64(RendezvousEventsTotal.WithLabelValues("STREAM_READY"))
	RendezvousEventsTotal.WithLabelValues("STREAM_READY").Inc()
	after := testutil.ToFloat64(RendezvousEventsTotal.WithLabelValues("STREAM_READY"))
	if after != before+1 {
		t.Errorf("expected RendezvousEventsTotal to increment by 1, got before=%v after=%v", before, after)
	}
}

func TestChatMessagesTotalCounterVec(t *testing.T) {
	before := testutil.ToFloat64(ChatMessagesTotal.WithLabelValues("public"))
	ChatMessagesTotal.WithLabelValues("public").Inc()
	after := testutil.ToFloat64(ChatMessagesTotal.WithLabelValues("public"))
	if after != before+1 {
		t.Errorf("expected ChatMessagesTotal to increment by 1, got before=%v after=%v", before, after)
	}
}
