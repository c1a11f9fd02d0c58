package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

var eventToType = map[EventCode]NotificationType{
	EventTxRequest:          NotificationHint,
	EventNSFFail:            NotificationError,
	EventTxRepeat:           NotificationHint,
	EventTxAwaitingApproval: NotificationHint,
	EventTxConfirmReminder:  NotificationHint,
	EventTxStallPending:     NotificationHint,
	EventTxStallConfirmed:   NotificationHint,
	EventTxSendFail:         NotificationError,
	EventTxFailed:           NotificationError,
	EventTxError:            NotificationError,
	EventTxUnderpriced:      NotificationError,
	EventTxDropped:          NotificationError,
	EventTxSent:             NotificationPending,
	EventTxPool:             NotificationPending,
	EventTxSpeedUp:          NotificationPending,
	EventTxCancel:           NotificationPending,
	EventTxConfirmed:        NotificationSuccess,
}

// DefaultAutoDismiss is applied to success and hint notifications;
// pending and error notifications stay until dismissed.
const DefaultAutoDismiss = 4 * time.Second

func eventNotificationType(code EventCode) NotificationType {
	if t, ok := eventToType[code]; ok {
		return t
	}
	return NotificationHint
}

func defaultDismissFor(t NotificationType) time.Duration {
	if t == NotificationSuccess || t == NotificationHint {
		return DefaultAutoDismiss
	}
	return 0
}

// formatRawValue renders a raw integer amount as whole units, dividing by 10^18
// with exact decimal arithmetic.
func formatRawValue(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return d.Shift(-18).String()
}

// shortenAddress renders a counterparty as its first and last four
// characters.
func shortenAddress(addr string) string {
	if len(addr) <= 11 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

func watchedValues(tx TransactionRecord) map[string]string {
	incoming := tx.Direction == "incoming"

	var verb string
	if tx.EventCode == EventTxConfirmed {
		verb = "sent"
		if incoming {
			verb = "received"
		}
	} else {
		verb = "sending"
		if incoming {
			verb = "receiving"
		}
	}

	preposition := "to"
	if incoming {
		preposition = "from"
	}

	asset := tx.Asset
	if asset == "" {
		asset = "ETH"
	}

	return map[string]string{
		"verb":           verb,
		"preposition":    preposition,
		"counterparty":   shortenAddress(tx.Counterparty),
		"formattedValue": formatRawValue(tx.Value),
		"asset":          asset,
	}
}

// buildNotification maps a lifecycle event onto a user-facing
// notification, merging any listener-supplied customization over the
// synthesized defaults.
func buildNotification(tx TransactionRecord, custom *NotificationOptions, format Formatter) NotificationRecord {
	keyCode := tx.EventCode
	if custom != nil && custom.EventCode != "" {
		keyCode = custom.EventCode
	}

	typ := eventNotificationType(tx.EventCode)

	family := "transaction"
	var values map[string]string
	if tx.Counterparty != "" && tx.Value != "" {
		family = "watched"
		values = watchedValues(tx)
	}
	messageID := family + "." + string(tx.EventCode)

	message := format(messageID, values)
	if message == messageID {
		message = DefaultFormatter(messageID, values)
	}

	rec := NotificationRecord{
		ID:          tx.ID,
		Key:         tx.ID + "-" + string(keyCode),
		Type:        typ,
		Message:     message,
		AutoDismiss: defaultDismissFor(typ),
		EventCode:   tx.EventCode,
		StartTime:   tx.StartTime,
	}

	if custom != nil {
		if custom.Type != "" {
			rec.Type = custom.Type
			rec.AutoDismiss = defaultDismissFor(custom.Type)
		}
		if custom.Message != "" {
			rec.Message = custom.Message
		}
		if custom.EventCode != "" {
			rec.EventCode = custom.EventCode
		}
		if custom.AutoDismiss != nil {
			rec.AutoDismiss = *custom.AutoDismiss
		}
	}
	return rec
}

func validNotificationType(t NotificationType) bool {
	switch t {
	case NotificationPending, NotificationSuccess, NotificationError, NotificationHint:
		return true
	}
	return false
}
