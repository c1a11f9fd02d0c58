// Package wsclient is the default websocket transport to the
// transaction-monitoring service. It implements notify.Client: watch
// requests and telemetry go out as JSON messages, server-pushed
// lifecycle events are dispatched to per-hash emitters.
package wsclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	notify "github.com/blocknative/notify-go"
)

type Config struct {
	URL    string
	DappID string

	// NetworkID of the chain being monitored, 1 = mainnet.
	NetworkID int

	HandshakeTimeout time.Duration

	// TelemetryPerSecond caps outgoing telemetry writes; excess reports
	// are dropped (they are fire-and-forget by contract). Zero means 10.
	TelemetryPerSecond float64

	Logger *logrus.Logger
}

// message is the wire envelope, both directions.
type message struct {
	CategoryCode string                    `json:"categoryCode"`
	EventCode    string                    `json:"eventCode"`
	DappID       string                    `json:"dappId,omitempty"`
	NetworkID    int                       `json:"networkId,omitempty"`
	Transaction  *notify.TransactionRecord `json:"transaction,omitempty"`
	Status       *statusPayload            `json:"status,omitempty"`
	Raw          map[string]any            `json:"raw,omitempty"`
}

type statusPayload struct {
	Connected  bool `json:"connected"`
	NodeSynced bool `json:"nodeSynced"`
}

type Client struct {
	cfg  Config
	conn *websocket.Conn
	log  *logrus.Logger

	writeMu sync.Mutex

	mu      sync.RWMutex
	watches map[string]*notify.Emitter
	status  notify.ClientStatus

	limiter *rate.Limiter

	closeCh   chan struct{}
	closeOnce sync.Once
}

// Dial connects to the monitoring service and starts the read loop.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.TelemetryPerSecond <= 0 {
		cfg.TelemetryPerSecond = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial monitor: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c := &Client{
		cfg:     cfg,
		conn:    conn,
		log:     cfg.Logger,
		watches: make(map[string]*notify.Emitter),
		status:  notify.ClientStatus{Connected: true},
		limiter: rate.NewLimiter(rate.Limit(cfg.TelemetryPerSecond), int(cfg.TelemetryPerSecond)),
		closeCh: make(chan struct{}),
	}

	if err := c.write(message{
		CategoryCode: "initialize",
		EventCode:    "checkDappId",
		DappID:       cfg.DappID,
		NetworkID:    cfg.NetworkID,
	}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	go c.readLoop()
	return c, nil
}

// Event implements notify.Client. Reports past the rate cap are
// dropped, not queued.
func (c *Client) Event(report map[string]any) {
	if !c.limiter.Allow() {
		c.log.Debug("telemetry report dropped by rate limit")
		return
	}
	msg := message{
		CategoryCode: "notify",
		EventCode:    "telemetry",
		DappID:       c.cfg.DappID,
		NetworkID:    c.cfg.NetworkID,
		Raw:          report,
	}
	if code, ok := report["eventCode"].(string); ok {
		msg.EventCode = code
	}
	if err := c.write(msg); err != nil {
		c.log.WithError(err).Debug("telemetry write failed")
	}
}

// Transaction implements notify.Client: registers a watch for hash and
// returns the emitter server events will be delivered through.
// Watching the same hash again returns the existing emitter.
func (c *Client) Transaction(hash, id string) *notify.Emitter {
	c.mu.Lock()
	em, ok := c.watches[hash]
	if !ok {
		em = notify.NewEmitter()
		c.watches[hash] = em
	}
	c.mu.Unlock()
	if ok {
		return em
	}

	err := c.write(message{
		CategoryCode: "activeTransaction",
		EventCode:    "watch",
		DappID:       c.cfg.DappID,
		NetworkID:    c.cfg.NetworkID,
		Transaction:  &notify.TransactionRecord{ID: id, Hash: hash},
	})
	if err != nil {
		c.log.WithError(err).WithField("hash", hash).Warn("watch request failed")
	}
	return em
}

func (c *Client) Status() notify.ClientStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) readLoop() {
	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		var msg message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			c.status = notify.ClientStatus{}
			c.mu.Unlock()
			select {
			case <-c.closeCh:
			default:
				c.log.WithError(err).Warn("monitor connection lost")
			}
			return
		}
		c.dispatch(&msg)
	}
}

func (c *Client) dispatch(msg *message) {
	if msg.Status != nil {
		c.mu.Lock()
		c.status = notify.ClientStatus{
			Connected:  msg.Status.Connected,
			NodeSynced: msg.Status.NodeSynced,
		}
		c.mu.Unlock()
		return
	}

	if msg.Transaction == nil || msg.Transaction.Hash == "" {
		return
	}

	c.mu.RLock()
	em := c.watches[msg.Transaction.Hash]
	c.mu.RUnlock()
	if em == nil {
		return
	}

	tx := *msg.Transaction
	tx.EventCode = notify.EventCode(msg.EventCode)
	em.Emit(tx)
}

func (c *Client) write(msg message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		c.mu.Lock()
		c.status = notify.ClientStatus{}
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}
