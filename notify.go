// Package notify tracks in-flight blockchain transactions and derives
// human-readable status notifications from their lifecycle events. It
// keeps two observable stores, a transaction queue and a notification
// list, that a rendering layer subscribes to; the monitoring transport
// and the message catalog are injected collaborators.
package notify

import (
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultApproveReminderTimeout = 20 * time.Second
	defaultStallPendingTimeout    = 20 * time.Second
	defaultStallConfirmedTimeout  = 90 * time.Second
)

// Config configures a Notify instance. Zero values fall back to
// defaults; a nil Client disables monitoring and telemetry.
type Config struct {
	Client    Client
	Formatter Formatter
	Logger    *logrus.Logger
	Clock     clock.Clock

	TxApproveReminderTimeout time.Duration
	TxStallPendingTimeout    time.Duration
	TxStallConfirmedTimeout  time.Duration
}

// timeouts is the runtime-adjustable part of the config.
type timeouts struct {
	approveReminder time.Duration
	stallPending    time.Duration
	stallConfirmed  time.Duration
}

// ConfigUpdate adjusts timeouts at runtime; nil fields keep the current
// value.
type ConfigUpdate struct {
	TxApproveReminderTimeout *time.Duration
	TxStallPendingTimeout    *time.Duration
	TxStallConfirmedTimeout  *time.Duration
}

// Notify owns the shared state of one notification context: the
// transaction queue and the notification list. Instances are
// independent; there is no package-level state.
type Notify struct {
	client    Client
	formatter Formatter
	log       *logrus.Logger
	clock     clock.Clock

	mu sync.RWMutex // guards t
	t  timeouts

	transactions  *Store[[]TransactionRecord]
	notifications *Store[[]NotificationRecord]
}

func New(cfg Config) *Notify {
	n := &Notify{
		client:    cfg.Client,
		formatter: cfg.Formatter,
		log:       cfg.Logger,
		clock:     cfg.Clock,
		t: timeouts{
			approveReminder: cfg.TxApproveReminderTimeout,
			stallPending:    cfg.TxStallPendingTimeout,
			stallConfirmed:  cfg.TxStallConfirmedTimeout,
		},
		transactions:  NewStore[[]TransactionRecord](nil, nil),
		notifications: NewStore[[]NotificationRecord](nil, nil),
	}
	if n.client == nil {
		n.client = noopClient{}
	}
	if n.formatter == nil {
		n.formatter = DefaultFormatter
	}
	if n.clock == nil {
		n.clock = clock.New()
	}
	if n.log == nil {
		n.log = logrus.New()
		n.log.SetOutput(io.Discard)
	}
	if n.t.approveReminder <= 0 {
		n.t.approveReminder = defaultApproveReminderTimeout
	}
	if n.t.stallPending <= 0 {
		n.t.stallPending = defaultStallPendingTimeout
	}
	if n.t.stallConfirmed <= 0 {
		n.t.stallConfirmed = defaultStallConfirmedTimeout
	}
	return n
}

// Transactions exposes the observable transaction queue.
func (n *Notify) Transactions() *Store[[]TransactionRecord] {
	return n.transactions
}

// Notifications exposes the observable notification list the rendering
// layer consumes.
func (n *Notify) Notifications() *Store[[]NotificationRecord] {
	return n.notifications
}

// SetConfig adjusts the timeout knobs. Timers already scheduled keep
// the duration they were scheduled with.
func (n *Notify) SetConfig(u ConfigUpdate) error {
	for field, d := range map[string]*time.Duration{
		"txApproveReminderTimeout": u.TxApproveReminderTimeout,
		"txStallPendingTimeout":    u.TxStallPendingTimeout,
		"txStallConfirmedTimeout":  u.TxStallConfirmedTimeout,
	} {
		if d != nil && *d <= 0 {
			return &ValidationError{Field: field, Expect: "a positive duration"}
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if u.TxApproveReminderTimeout != nil {
		n.t.approveReminder = *u.TxApproveReminderTimeout
	}
	if u.TxStallPendingTimeout != nil {
		n.t.stallPending = *u.TxStallPendingTimeout
	}
	if u.TxStallConfirmedTimeout != nil {
		n.t.stallConfirmed = *u.TxStallConfirmedTimeout
	}
	return nil
}

func (n *Notify) cfg() timeouts {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.t
}

// Hash correlates an externally-submitted transaction: lifecycle events
// for hash are fed through the returned emitter and into the shared
// stores. An empty id gets a generated one.
func (n *Notify) Hash(hash, id string) (*Emitter, error) {
	if !isTxHash(hash) {
		return nil, &ValidationError{Field: "hash", Expect: "a 0x-prefixed 32-byte hex hash"}
	}
	if id == "" {
		id = uuid.NewString()
	}
	em := NewEmitter()
	n.watch(hash, id, em)
	return em, nil
}

// CustomNotification is a caller-owned notification created through
// Notification.
type CustomNotification struct {
	n    *Notify
	mu   sync.Mutex
	id   string
	code EventCode
}

const customNotificationCode EventCode = "customNotification"

// Notification renders a caller-built notification outside any
// transaction flow and returns a handle to update or dismiss it.
func (n *Notify) Notification(opts NotificationOptions) (*CustomNotification, error) {
	rec, err := customRecord(opts, n.clock.Now())
	if err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.Key = rec.ID + "-" + string(rec.EventCode)
	}
	n.addNotification(rec)
	return &CustomNotification{n: n, id: rec.ID, code: rec.EventCode}, nil
}

// Update replaces the notification's content in place (same id unless
// overridden by opts).
func (c *CustomNotification) Update(opts NotificationOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if opts.ID == "" {
		opts.ID = c.id
	}
	rec, err := customRecord(opts, c.n.clock.Now())
	if err != nil {
		return err
	}
	c.n.Dismiss(c.id, c.code)
	c.n.addNotification(rec)
	c.id, c.code = rec.ID, rec.EventCode
	return nil
}

func (c *CustomNotification) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n.Dismiss(c.id, c.code)
}

func customRecord(opts NotificationOptions, now time.Time) (NotificationRecord, error) {
	if opts.Message == "" {
		return NotificationRecord{}, &ValidationError{Field: "message", Expect: "a non-empty message"}
	}
	typ := opts.Type
	if typ == "" {
		typ = NotificationHint
	}
	if !validNotificationType(typ) {
		return NotificationRecord{}, &ValidationError{Field: "type", Expect: "one of pending, success, error, hint"}
	}
	code := opts.EventCode
	if code == "" {
		code = customNotificationCode
	}
	rec := NotificationRecord{
		ID:          opts.ID,
		Key:         opts.ID + "-" + string(code),
		Type:        typ,
		Message:     opts.Message,
		AutoDismiss: defaultDismissFor(typ),
		EventCode:   code,
		StartTime:   now,
	}
	if opts.AutoDismiss != nil {
		rec.AutoDismiss = *opts.AutoDismiss
	}
	return rec, nil
}
