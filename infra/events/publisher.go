// Package events forwards engine case results to an MQTT broker so external
// dashboards can follow a run without polling the results file.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coreevents "github.com/orbitalsys/taskopt/core/events"
	"github.com/orbitalsys/taskopt/infra/logger"
	"github.com/orbitalsys/taskopt/internal/eventbus"
)

// Config defines the MQTT forwarding parameters.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "taskopt-" + uuid.NewString()[:8]
	}
	if c.Topic == "" {
		c.Topic = "taskopt/cases"
	}
}

// mqttClient is the subset of the Paho client used by the publisher. It keeps
// the broker out of unit tests.
type mqttClient interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Publisher forwards CaseCompleted events as JSON messages.
type Publisher struct {
	cfg    Config
	client mqttClient
	log    logger.Logger
}

// casePayload is the wire format of one forwarded case result.
type casePayload struct {
	RunID        string    `json:"run_id"`
	CaseID       string    `json:"case_id"`
	Index        int       `json:"index"`
	Status       string    `json:"status"`
	Revenue      float64   `json:"revenue"`
	Coefficients []float64 `json:"coefficients"`
	Refinement   bool      `json:"refinement"`
	ElapsedMS    int64     `json:"elapsed_ms"`
}

// NewPublisher connects a Paho client for the given broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second)
	client := paho.NewClient(opts)
	p := &Publisher{cfg: cfg, client: client, log: logger.New("mqtt-events")}
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	return p, nil
}

// newWithClient is used by tests to inject a fake client.
func newWithClient(cfg Config, client mqttClient, log logger.Logger) *Publisher {
	cfg.SetDefaults()
	return &Publisher{cfg: cfg, client: client, log: log}
}

// Start subscribes to the bus and forwards case completions until the context
// is canceled or the bus closes. The returned channel closes on exit.
func (p *Publisher) Start(ctx context.Context, bus eventbus.EventBus) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(coreevents.CaseCompleted); ok {
					p.forward(e)
				}
			}
		}
	}()
	return done
}

func (p *Publisher) forward(e coreevents.CaseCompleted) {
	payload, err := json.Marshal(casePayload{
		RunID:        e.RunID,
		CaseID:       e.CaseID,
		Index:        e.Index,
		Status:       e.Status,
		Revenue:      e.Revenue,
		Coefficients: e.Coefficients,
		Refinement:   e.Refinement,
		ElapsedMS:    e.Elapsed.Milliseconds(),
	})
	if err != nil {
		p.log.Errorf("marshal case payload: %v", err)
		return
	}
	if tok := p.client.Publish(p.cfg.Topic, p.cfg.QoS, false, payload); tok.Wait() && tok.Error() != nil {
		p.log.Errorf("publish case %s: %v", e.CaseID, tok.Error())
	}
}

// Close disconnects the underlying client.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
