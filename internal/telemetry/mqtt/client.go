// internal/telemetry/mqtt/client.go
package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Client implements telemetry.Source for Bambu Labs printers.
// The printer publishes JSON reports on device/<serial>/report; the
// interesting fields live under the "print" key and are merged latest-wins
// into a local field map.
type Client struct {
	cfg  Config
	mqtt paho.Client

	mu     sync.Mutex
	fields map[string]any
}

// Config is minimal transport config.
type Config struct {
	Host       string // printer IP or hostname, port 8883 implied
	Serial     string
	AccessCode string
	Timeout    time.Duration
}

const (
	mqttPort     = 8883
	mqttUsername = "bblp"
)

// New creates an unconnected client. Connect must be called before Fields
// returns anything useful.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("mqtt client: host required")
	}
	if cfg.Serial == "" {
		return nil, errors.New("mqtt client: serial required")
	}
	if cfg.AccessCode == "" {
		return nil, errors.New("mqtt client: access code required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Client{
		cfg:    cfg,
		fields: make(map[string]any),
	}

	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("ssl://%s:%d", cfg.Host, mqttPort)).
		SetClientID(fmt.Sprintf("chibichonk-%s", cfg.Serial)).
		SetUsername(mqttUsername).
		SetPassword(cfg.AccessCode).
		SetTLSConfig(&tls.Config{InsecureSkipVerify: true}). // printer cert is self-signed
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(cli paho.Client) {
			tok := cli.Subscribe(c.reportTopic(), 0, c.onReport)
			tok.Wait()
		})

	c.mqtt = paho.NewClient(opts)
	return c, nil
}

func (c *Client) reportTopic() string {
	return fmt.Sprintf("device/%s/report", c.cfg.Serial)
}

func (c *Client) requestTopic() string {
	return fmt.Sprintf("device/%s/request", c.cfg.Serial)
}

// ---- telemetry.Source ----

func (c *Client) Connect() error {
	tok := c.mqtt.Connect()
	if !tok.WaitTimeout(c.cfg.Timeout) {
		return errors.New("mqtt client: connect timed out")
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt client: connect: %w", err)
	}
	return nil
}

// RequestRefresh publishes a pushall command so the printer re-sends its
// full state instead of deltas.
func (c *Client) RequestRefresh() error {
	payload := map[string]any{
		"pushing": map[string]any{
			"sequence_id": "0",
			"command":     "pushall",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	tok := c.mqtt.Publish(c.requestTopic(), 0, false, body)
	if !tok.WaitTimeout(c.cfg.Timeout) {
		return errors.New("mqtt client: pushall publish timed out")
	}
	return tok.Error()
}

func (c *Client) Fields() (map[string]any, error) {
	if !c.mqtt.IsConnectionOpen() && !c.mqtt.IsConnected() {
		return nil, errors.New("mqtt client: not connected")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]any, len(c.fields))
	for k, v := range c.fields {
		out[k] = v
	}
	return out, nil
}

func (c *Client) Close() error {
	c.mqtt.Disconnect(250)
	return nil
}

// onReport merges one report message into the field map.
// Reports are deltas: only the keys present in the message move.
func (c *Client) onReport(_ paho.Client, msg paho.Message) {
	var report map[string]json.RawMessage
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		return
	}

	raw, ok := report["print"]
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range fields {
		c.fields[k] = v
	}
}
