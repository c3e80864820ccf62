package realtime

import (
	"testing"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestHubPublishReachesSubscribedClient(t *testing.T) {
	hub := NewHub(testLogger(t))
	scriptID := uuid.New()
	channel := ScriptChannel(scriptID)

	client := hub.Register(uuid.New(), channel)
	defer hub.Unregister(client.ID)

	hub.Publish(SSEMessage{Channel: channel, Event: EventScriptStatus})

	select {
	case msg := <-client.Outbound:
		if msg.Channel != channel || msg.Event != EventScriptStatus {
			t.Fatalf("unexpected message: %+v", msg)
		}
	default:
		t.Fatal("expected a buffered message for subscribed client")
	}
}

func TestHubPublishSkipsOtherChannels(t *testing.T) {
	hub := NewHub(testLogger(t))
	client := hub.Register(uuid.New(), ScriptChannel(uuid.New()))
	defer hub.Unregister(client.ID)

	hub.Publish(SSEMessage{Channel: ScriptChannel(uuid.New()), Event: EventScriptStatus})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected message on unrelated channel: %+v", msg)
	default:
	}
}

func TestHubPublishDoesNotBlockOnSlowClient(t *testing.T) {
	hub := NewHub(testLogger(t))
	channel := ScriptChannel(uuid.New())
	client := hub.Register(uuid.New(), channel)
	defer hub.Unregister(client.ID)

	// Overflow the outbound buffer; excess messages are dropped, not queued.
	for i := 0; i < outboundBuffer+5; i++ {
		hub.Publish(SSEMessage{Channel: channel, Event: EventScriptStatus})
	}
	if got := len(client.Outbound); got != outboundBuffer {
		t.Fatalf("expected full buffer of %d, got %d", outboundBuffer, got)
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(testLogger(t))
	client := hub.Register(uuid.New())
	defer hub.Unregister(client.ID)

	channel := ScriptChannel(uuid.New())
	hub.Subscribe(client.ID, channel)
	hub.Publish(SSEMessage{Channel: channel, Event: EventScriptStatus})
	if len(client.Outbound) != 1 {
		t.Fatal("expected delivery after subscribe")
	}
	<-client.Outbound

	hub.Unsubscribe(client.ID, channel)
	hub.Publish(SSEMessage{Channel: channel, Event: EventScriptStatus})
	if len(client.Outbound) != 0 {
		t.Fatal("expected no delivery after unsubscribe")
	}
}

func TestHubUnregisterClosesOutbound(t *testing.T) {
	hub := NewHub(testLogger(t))
	client := hub.Register(uuid.New(), ScriptChannel(uuid.New()))

	hub.Unregister(client.ID)

	if _, open := <-client.Outbound; open {
		t.Fatal("expected outbound channel closed after unregister")
	}

	// A second unregister for the same id is a no-op.
	hub.Unregister(client.ID)
}
