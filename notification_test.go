package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventNotificationType(t *testing.T) {
	cases := map[EventCode]NotificationType{
		EventTxRequest:        NotificationHint,
		EventTxRepeat:         NotificationHint,
		EventTxStallPending:   NotificationHint,
		EventNSFFail:          NotificationError,
		EventTxSendFail:       NotificationError,
		EventTxUnderpriced:    NotificationError,
		EventTxDropped:        NotificationError,
		EventTxSent:           NotificationPending,
		EventTxPool:           NotificationPending,
		EventTxSpeedUp:        NotificationPending,
		EventTxCancel:         NotificationPending,
		EventTxConfirmed:      NotificationSuccess,
		EventCode("whatever"): NotificationHint,
	}
	for code, want := range cases {
		assert.Equal(t, want, eventNotificationType(code), "code %s", code)
	}
}

func TestBuildNotification_Defaults(t *testing.T) {
	tx := TransactionRecord{
		ID:        "abc",
		EventCode: EventTxPool,
		StartTime: time.Unix(1700000000, 0),
	}

	rec := buildNotification(tx, nil, DefaultFormatter)

	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "abc-txPool", rec.Key)
	assert.Equal(t, NotificationPending, rec.Type)
	assert.Equal(t, "Your transaction has started", rec.Message)
	assert.Zero(t, rec.AutoDismiss, "pending notifications stay until dismissed")
	assert.Equal(t, tx.StartTime, rec.StartTime)
}

func TestBuildNotification_SuccessAutoDismisses(t *testing.T) {
	rec := buildNotification(TransactionRecord{ID: "abc", EventCode: EventTxConfirmed}, nil, DefaultFormatter)
	assert.Equal(t, NotificationSuccess, rec.Type)
	assert.Equal(t, DefaultAutoDismiss, rec.AutoDismiss)
}

func TestBuildNotification_WatchedIncoming(t *testing.T) {
	tx := TransactionRecord{
		ID:           "abc",
		EventCode:    EventTxConfirmed,
		Value:        "1500000000000000000",
		Counterparty: "0xaaaa567890bbbb567890cccc567890dddd567890",
		Direction:    "incoming",
	}

	rec := buildNotification(tx, nil, DefaultFormatter)
	assert.Equal(t, "Your account successfully received 1.5 ETH from 0xaa...7890", rec.Message)
}

func TestBuildNotification_WatchedOutgoingPending(t *testing.T) {
	tx := TransactionRecord{
		ID:           "abc",
		EventCode:    EventTxPool,
		Value:        "2000000000000000000",
		Counterparty: "0xaaaa567890bbbb567890cccc567890dddd567890",
		Direction:    "outgoing",
	}

	rec := buildNotification(tx, nil, DefaultFormatter)
	assert.Equal(t, "Your account is sending 2 ETH to 0xaa...7890", rec.Message)
}

func TestBuildNotification_CustomizationWins(t *testing.T) {
	sticky := time.Duration(0)
	custom := &NotificationOptions{
		Type:        NotificationError,
		Message:     "nope",
		EventCode:   EventTxFailed,
		AutoDismiss: &sticky,
	}

	rec := buildNotification(TransactionRecord{ID: "abc", EventCode: EventTxConfirmed}, custom, DefaultFormatter)

	assert.Equal(t, NotificationError, rec.Type)
	assert.Equal(t, "nope", rec.Message)
	assert.Equal(t, EventTxFailed, rec.EventCode)
	assert.Equal(t, "abc-txFailed", rec.Key, "customized event code keys the notification")
	assert.Zero(t, rec.AutoDismiss)
}

func TestBuildNotification_FormatterFallback(t *testing.T) {
	// a formatter with no translations returns ids unchanged
	untranslated := func(id string, _ map[string]string) string { return id }

	rec := buildNotification(TransactionRecord{ID: "abc", EventCode: EventTxConfirmed}, nil, untranslated)
	assert.Equal(t, "Your transaction has succeeded", rec.Message)
}

func TestShortenAddress(t *testing.T) {
	assert.Equal(t, "0xab...7890", shortenAddress("0xabcd567890abcd567890abcd567890abcd567890"))
	assert.Equal(t, "0xshort", shortenAddress("0xshort"))
}

func TestFormatRawValue(t *testing.T) {
	assert.Equal(t, "1", formatRawValue("1000000000000000000"))
	assert.Equal(t, "0.5", formatRawValue("500000000000000000"))
	// value large enough to lose precision in a float64
	assert.Equal(t, "123456789.123456789123456789", formatRawValue("123456789123456789123456789"))
	assert.Equal(t, "bogus", formatRawValue("bogus"))
}

func TestInterpolate(t *testing.T) {
	got := interpolate("send {formattedValue} {asset}", map[string]string{
		"formattedValue": "1.5",
		"asset":          "ETH",
	})
	assert.Equal(t, "send 1.5 ETH", got)
}
