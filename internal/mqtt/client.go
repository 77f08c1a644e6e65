package mqtt

import (
	"errors"
	"fmt"
	"sync"

	"aquarium_control/internal/logger"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Topic names under the configured prefix.
const (
	TopicSensor    = "sensor"    // device→bridge, JSON telemetry
	TopicResponse  = "response"  // device→bridge, command acknowledgements
	TopicCommand   = "command"   // bridge→device, command keyword or SWITCH/COLOR
	TopicPump      = "pump"      // device→bridge, informational
	TopicWaterLv   = "waterLv"   // device→bridge, informational
	TopicReqStatus = "reqstatus" // device→bridge, asks for the latest snapshot
	TopicStatus    = "status"    // bridge→device, snapshot reply
	TopicDisplay   = "display"   // device→bridge, feed/light changes made on-device
	TopicQuality   = "quality"   // bridge→device, severity + deviation notices
)

// TopicTankHeight is published without the prefix; the device firmware
// listens for it verbatim.
const TopicTankHeight = "device/tank"

// ErrNotConnected reports that the broker connection is not established.
// There is no retry loop; the next operation attempts to connect again.
var ErrNotConnected = errors.New("mqtt broker not connected")

// Handler processes one inbound message. A returned error is logged and the
// message dropped; it never reaches the dispatch loop.
type Handler func(payload []byte) error

// Config holds broker settings read from configs/config.yml.
type Config struct {
	Broker      string // e.g. tcp://test.mosquitto.org:1883
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string // e.g. Freshyfishy
}

// Client wraps a single persistent paho connection with per-topic handler
// routing. It is an explicitly owned instance with Connect/Disconnect
// lifecycle so callers can inject a test double instead.
type Client struct {
	cli    paho.Client
	log    *logger.Logger
	prefix string

	mu     sync.Mutex
	routes map[string]Handler
}

// NewClient builds the client without connecting. Register handlers with
// Handle, then Connect.
func NewClient(cfg Config, log *logger.Logger) *Client {
	c := &Client{
		log:    log,
		prefix: cfg.TopicPrefix,
		routes: make(map[string]Handler),
	}

	// Brokers drop the older session when two clients share an id, so a
	// random suffix keeps restarted or duplicate instances from kicking
	// each other off.
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "aquarium"
	}
	clientID += "-" + uuid.NewString()[:8]

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	// Re-subscribe registered routes after every (re)connect.
	opts.SetOnConnectHandler(func(paho.Client) {
		c.resubscribe()
	})

	c.cli = paho.NewClient(opts)
	return c
}

// Topic joins the configured prefix with a topic name.
func (c *Client) Topic(name string) string {
	return c.prefix + "/" + name
}

// Handle registers the handler for a full topic. If already connected the
// subscription is made immediately; otherwise it happens on connect.
func (c *Client) Handle(topic string, h Handler) {
	c.mu.Lock()
	c.routes[topic] = h
	connected := c.cli.IsConnected()
	c.mu.Unlock()

	if connected {
		c.subscribe(topic, h)
	}
}

// Connect establishes the broker connection; a no-op when already
// established. Failure is logged and returned; the caller retries on its
// next call.
func (c *Client) Connect() error {
	if c.cli.IsConnected() {
		return nil
	}
	if token := c.cli.Connect(); token.Wait() && token.Error() != nil {
		c.log.Errorw("mqtt_connect_failed", "err", token.Error())
		return fmt.Errorf("%w: %v", ErrNotConnected, token.Error())
	}
	c.log.Infow("mqtt_connected")
	return nil
}

// Publish sends a message at QoS 0. No delivery acknowledgement is awaited
// beyond the broker handoff.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.cli.IsConnected() {
		return ErrNotConnected
	}
	token := c.cli.Publish(topic, 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Disconnect closes the broker connection, waiting briefly for in-flight
// work.
func (c *Client) Disconnect() {
	c.cli.Disconnect(250)
}

// IsConnected reports the current connection state.
func (c *Client) IsConnected() bool {
	return c.cli.IsConnected()
}

// resubscribe registers every known route with the broker.
func (c *Client) resubscribe() {
	c.mu.Lock()
	routes := make(map[string]Handler, len(c.routes))
	for t, h := range c.routes {
		routes[t] = h
	}
	c.mu.Unlock()

	for topic, h := range routes {
		c.subscribe(topic, h)
	}
}

// subscribe wires one topic into paho's dispatch loop. Handler errors and
// panics are contained here so one malformed payload cannot take the loop
// down or affect subsequent messages.
func (c *Client) subscribe(topic string, h Handler) {
	callback := func(_ paho.Client, msg paho.Message) {
		defer func() {
			if r := recover(); r != nil {
				c.log.Errorw("mqtt_handler_panic", "topic", msg.Topic(), "panic", r)
			}
		}()
		if err := h(msg.Payload()); err != nil {
			c.log.Errorw("mqtt_handler_failed", "topic", msg.Topic(), "err", err)
		}
	}

	if token := c.cli.Subscribe(topic, 0, callback); token.Wait() && token.Error() != nil {
		c.log.Errorw("mqtt_subscribe_failed", "topic", topic, "err", token.Error())
		return
	}
	c.log.Infow("mqtt_subscribed", "topic", topic)
}
