package notify

import "time"

// EventCode identifies a transaction lifecycle event.
type EventCode string

const (
	EventTxRequest          EventCode = "txRequest"
	EventNSFFail            EventCode = "nsfFail"
	EventTxRepeat           EventCode = "txRepeat"
	EventTxAwaitingApproval EventCode = "txAwaitingApproval"
	EventTxConfirmReminder  EventCode = "txConfirmReminder"
	EventTxSendFail         EventCode = "txSendFail"
	EventTxSent             EventCode = "txSent"
	EventTxPool             EventCode = "txPool"
	EventTxSpeedUp          EventCode = "txSpeedUp"
	EventTxCancel           EventCode = "txCancel"
	EventTxConfirmed        EventCode = "txConfirmed"
	EventTxFailed           EventCode = "txFailed"
	EventTxError            EventCode = "txError"
	EventTxDropped          EventCode = "txDropped"
	EventTxStallPending     EventCode = "txStallPending"
	EventTxStallConfirmed   EventCode = "txStallConfirmed"

	// EventTxUnderpriced is the code emitted when a submission fails as
	// underpriced. Listeners register under EventTxUnderPriced (capital P);
	// the two spellings are distinct on the wire and both kept.
	EventTxUnderpriced EventCode = "txUnderpriced"
	EventTxUnderPriced EventCode = "txUnderPriced"

	// EventAll is the catch-all listener slot, consulted when no
	// code-specific listener is registered.
	EventAll EventCode = "all"
)

// Transaction statuses assigned locally. The monitoring service pushes
// its own status strings (sent, pending, confirmed, ...); the set is
// open and must not be treated as a closed enum.
const (
	StatusAwaitingApproval = "awaitingApproval"
	StatusSent             = "sent"
	StatusPending          = "pending"
	StatusConfirmed        = "confirmed"
	StatusFailed           = "failed"
)

// NotificationType is the severity bucket of a rendered notification.
type NotificationType string

const (
	NotificationPending NotificationType = "pending"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationHint    NotificationType = "hint"
)

// ContractCall describes a contract method invocation. It is only used
// for duplicate matching and telemetry.
type ContractCall struct {
	MethodName string `json:"methodName"`
	Params     []any  `json:"params,omitempty"`
}

// TransactionRecord is one tracked transaction. Amount fields hold raw
// integer values as decimal strings (as in the wire protocol) to avoid
// floating point loss on large token amounts.
type TransactionRecord struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash,omitempty"`
	To        string    `json:"to,omitempty"`
	From      string    `json:"from,omitempty"`
	Value     string    `json:"value,omitempty"`
	Gas       string    `json:"gas,omitempty"`
	GasPrice  string    `json:"gasPrice,omitempty"`
	Nonce     uint64    `json:"nonce,omitempty"`
	Status    string    `json:"status,omitempty"`
	EventCode EventCode `json:"eventCode,omitempty"`

	ContractCall *ContractCall `json:"contractCall,omitempty"`

	// Balance is the sender balance observed at preflight time; carried
	// on insufficient-funds events.
	Balance string `json:"balance,omitempty"`

	// Fields below arrive on watched-address events pushed by the
	// monitoring service.
	Counterparty string `json:"counterparty,omitempty"`
	Direction    string `json:"direction,omitempty"`
	Asset        string `json:"asset,omitempty"`

	StartTime time.Time `json:"startTime,omitempty"`
}

// terminal reports whether the record can no longer change state.
func (t TransactionRecord) terminal() bool {
	return t.Status == StatusConfirmed || t.Status == StatusFailed
}

// NotificationRecord is one entry of the observable notification list
// the rendering layer consumes.
type NotificationRecord struct {
	ID string `json:"id"`
	// Key is "<id>-<eventCode>", used for list reconciliation.
	Key     string           `json:"key"`
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	// AutoDismiss of zero means the notification stays until dismissed.
	AutoDismiss time.Duration `json:"autoDismiss"`
	EventCode   EventCode     `json:"eventCode"`
	StartTime   time.Time     `json:"startTime"`
}

// NotificationOptions customizes a synthesized notification (when
// returned from a listener) or describes a caller-built one (when passed
// to Notification). Zero-valued fields keep their defaults.
type NotificationOptions struct {
	ID      string
	Type    NotificationType
	Message string
	// AutoDismiss: nil keeps the default for the type; a pointer to zero
	// makes the notification sticky.
	AutoDismiss *time.Duration
	EventCode   EventCode
	// Suppress drops the default notification for the event entirely.
	// Only meaningful as a listener return value.
	Suppress bool
}

// ClientStatus reflects the monitoring service connection health.
type ClientStatus struct {
	Connected  bool
	NodeSynced bool
}

// Client is the remote blockchain-monitoring service: fire-and-forget
// telemetry out, per-hash lifecycle events in.
type Client interface {
	// Event reports telemetry. Implementations must not block.
	Event(report map[string]any)
	// Transaction subscribes to lifecycle events for a hash. Events are
	// delivered through the returned emitter.
	Transaction(hash, id string) *Emitter
	Status() ClientStatus
}

// noopClient stands in when no monitoring service is configured.
type noopClient struct{}

func (noopClient) Event(map[string]any) {}

func (noopClient) Transaction(hash, id string) *Emitter { return NewEmitter() }

func (noopClient) Status() ClientStatus { return ClientStatus{} }
