package mqtt

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/alarm-clock/internal/logic"
)

// bufferCapacity is how many messages are kept while the broker is away.
const bufferCapacity = 256

var errPublishTimeout = errors.New("publish timeout")

// RealPublisher publishes to an actual MQTT broker. Messages published while
// disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	now    func() time.Time

	mu        sync.Mutex
	buffer    *ringBuffer
	connected bool // true once the first connection succeeded
}

// NewRealPublisher creates a publisher connected to the given broker. The
// broker is told to publish an OFFLINE system event if the clock vanishes.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := newPublisher(nil, time.Now)

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: p.now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		// Retry continues in the background; messages are buffered meanwhile.
		log.Printf("mqtt: broker %s not reachable yet, buffering", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func newPublisher(client paho.Client, now func() time.Time) *RealPublisher {
	return &RealPublisher{
		client: client,
		now:    now,
		buffer: newRingBuffer(bufferCapacity),
	}
}

// Publish sends a clock event (QoS 0, not retained).
func (p *RealPublisher) Publish(event logic.Event, at time.Time) error {
	payload, err := FormatPayload(event, at)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event (QoS 1).
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// IsConnected reports whether the connection to the broker is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker. Buffered messages are lost.
func (p *RealPublisher) Close() error {
	p.mu.Lock()
	if n := p.buffer.len(); n > 0 {
		log.Printf("mqtt: discarding %d buffered messages", n)
	}
	p.mu.Unlock()
	p.client.Disconnect(1000)
	return nil
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buffer.push(msg)
		p.mu.Unlock()
		return nil
	}
	if err := p.publish(msg); err != nil {
		p.mu.Lock()
		p.buffer.push(msg)
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return errPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// onConnect runs on every (re)connection. Paho calls it from its own
// goroutine, so the replay happens in another.
func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	reconnect := p.connected
	p.connected = true
	pending, dropped := p.buffer.drainAll()
	p.mu.Unlock()

	if reconnect {
		if payload, err := FormatSystemPayload(SystemEvent{Timestamp: p.now(), Event: "RECONNECTED"}); err == nil {
			pending = append(pending, bufferedMsg{topic: TopicSystem, payload: payload, qos: 1})
		}
	}
	if len(pending) == 0 {
		return
	}
	if dropped > 0 {
		log.Printf("mqtt: %d messages dropped while disconnected", dropped)
	}
	go p.replay(pending)
}

func (p *RealPublisher) replay(pending []bufferedMsg) {
	log.Printf("mqtt: replaying %d buffered messages", len(pending))
	for i, msg := range pending {
		if err := p.publish(msg); err != nil {
			log.Printf("mqtt: replay: %v", err)
			p.mu.Lock()
			for _, m := range pending[i:] {
				p.buffer.push(m)
			}
			p.mu.Unlock()
			return
		}
	}
}
