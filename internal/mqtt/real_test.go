package mqtt

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/altimeter/internal/logic"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type sentMsg struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

// scriptedClient records publishes instead of talking to a broker.
type scriptedClient struct {
	mu   sync.Mutex
	sent []sentMsg
	err  error
}

func (c *scriptedClient) IsConnected() bool      { return true }
func (c *scriptedClient) IsConnectionOpen() bool { return true }
func (c *scriptedClient) Connect() paho.Token    { return doneToken{} }
func (c *scriptedClient) Disconnect(uint)        {}
func (c *scriptedClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMsg{topic: topic, qos: qos, retained: retained, payload: string(payload.([]byte))})
	return doneToken{err: c.err}
}
func (c *scriptedClient) Subscribe(string, byte, paho.MessageHandler) paho.Token { return doneToken{} }
func (c *scriptedClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return doneToken{}
}
func (c *scriptedClient) Unsubscribe(...string) paho.Token        { return doneToken{} }
func (c *scriptedClient) AddRoute(string, paho.MessageHandler)    {}
func (c *scriptedClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }

func (c *scriptedClient) messages() []sentMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentMsg(nil), c.sent...)
}

func newScripted() (*RealPublisher, *scriptedClient) {
	c := &scriptedClient{}
	return &RealPublisher{client: c, buf: newRingBuffer(8)}, c
}

func reading(p float64) logic.Reading {
	return logic.Reading{Timestamp: ts, Source: logic.SourceSensor, PressureHPa: p}
}

func TestRealPublisherBuffersUntilConnected(t *testing.T) {
	p, c := newScripted()

	if err := p.PublishSystem(SystemEvent{Timestamp: ts, Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Publish(reading(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsConnected() {
		t.Error("should not be connected before onConnect")
	}
	if p.Buffered() != 2 || len(c.messages()) != 0 {
		t.Fatalf("expected 2 buffered and 0 sent, got %d/%d", p.Buffered(), len(c.messages()))
	}

	p.onConnect(c)

	sent := c.messages()
	if len(sent) != 2 {
		t.Fatalf("expected 2 replayed messages, got %d", len(sent))
	}
	if sent[0].topic != TopicSystem || sent[0].qos != 1 || !sent[0].retained {
		t.Errorf("first replay: %+v", sent[0])
	}
	if sent[1].topic != Topic || sent[1].qos != 0 || sent[1].retained {
		t.Errorf("second replay: %+v", sent[1])
	}
	if !p.IsConnected() || p.Buffered() != 0 {
		t.Errorf("after connect: connected=%v buffered=%d", p.IsConnected(), p.Buffered())
	}
}

func TestRealPublisherPublishesDirectlyWhenConnected(t *testing.T) {
	p, c := newScripted()
	p.onConnect(c)

	if err := p.Publish(reading(990)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sent := c.messages()
	if len(sent) != 1 || !strings.Contains(sent[0].payload, `"pressure_hpa":990`) {
		t.Errorf("expected one direct publish, got %+v", sent)
	}
}

func TestRealPublisherReconnectAnnounces(t *testing.T) {
	p, c := newScripted()
	p.onConnect(c)

	p.onConnectionLost(c, errors.New("eof"))
	if p.IsConnected() {
		t.Fatal("should be disconnected after connection lost")
	}
	_ = p.Publish(reading(1001))

	p.onConnect(c)

	sent := c.messages()
	if len(sent) != 2 {
		t.Fatalf("expected replay plus RECONNECTED, got %d", len(sent))
	}
	if sent[0].topic != Topic {
		t.Errorf("replay should come first: %+v", sent[0])
	}
	if sent[1].topic != TopicSystem || !strings.Contains(sent[1].payload, `"event":"RECONNECTED"`) {
		t.Errorf("expected RECONNECTED, got %+v", sent[1])
	}
}

func TestRealPublisherFirstConnectIsNotReconnect(t *testing.T) {
	p, c := newScripted()
	p.onConnect(c)

	for _, m := range c.messages() {
		if strings.Contains(m.payload, "RECONNECTED") {
			t.Fatal("first connection should not announce RECONNECTED")
		}
	}
}

func TestRealPublisherSendError(t *testing.T) {
	p, c := newScripted()
	p.onConnect(c)
	c.err = errors.New("not authorized")

	err := p.Publish(reading(1000))
	if err == nil || !strings.Contains(err.Error(), Topic) {
		t.Errorf("expected wrapped publish error, got %v", err)
	}
}
