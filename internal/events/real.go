package events

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// bufferCapacity bounds how many messages are held while the broker is
// unreachable.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. While the connection
// is down, messages are held in a ring buffer and replayed in order once
// the client reconnects.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a gesture or power event to the MQTT broker.
func (p *RealPublisher) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) - lifecycle events must survive a flaky link
	return p.send(TopicSystem, 1, event.Retained, payload)
}

// send publishes immediately when connected, otherwise buffers the
// message for replay on reconnect.
func (p *RealPublisher) send(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		pending := p.buf.len()
		p.mu.Unlock()
		log.Printf("events: broker offline, buffered message (%d pending)", pending)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	pending := p.buf.drainAll()
	p.mu.Unlock()
	if len(pending) == 0 {
		return
	}

	log.Printf("events: connected, replaying %d buffered messages", len(pending))
	for _, msg := range pending {
		token := client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("events: replay timed out on %s", msg.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("events: replay failed on %s: %v", msg.topic, err)
		}
	}
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	log.Printf("events: connection lost: %v", err)
}

// IsConnected reports whether the MQTT connection is currently up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
