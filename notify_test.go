package notify

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_ValidatesInput(t *testing.T) {
	n := New(Config{Clock: clock.NewMock()})

	for _, bad := range []string{"", "0x123", "deadbeef", testHash + "00"} {
		_, err := n.Hash(bad, "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "hash %q", bad)
		assert.Equal(t, "hash", verr.Field)
	}
}

func TestHash_WatchesExternalTransaction(t *testing.T) {
	fc := newFakeClient()
	n := New(Config{Client: fc, Clock: clock.NewMock()})

	em, err := n.Hash(testHash, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, em)

	cap := &capture{}
	require.NoError(t, em.On(EventAll, cap.listen))

	fc.push(t, testHash, TransactionRecord{Status: StatusPending, EventCode: EventTxPool})

	assert.Equal(t, []EventCode{EventTxPool}, cap.seen())

	q := n.Transactions().Get()
	require.Len(t, q, 1)
	assert.Equal(t, "ext-1", q[0].ID)
	assert.Equal(t, testHash, q[0].Hash)
	assert.Equal(t, StatusPending, q[0].Status)
}

func TestHash_GeneratesIdWhenEmpty(t *testing.T) {
	fc := newFakeClient()
	n := New(Config{Client: fc, Clock: clock.NewMock()})

	_, err := n.Hash(testHash, "")
	require.NoError(t, err)

	fc.push(t, testHash, TransactionRecord{Status: StatusPending, EventCode: EventTxPool})

	q := n.Transactions().Get()
	require.Len(t, q, 1)
	assert.NotEmpty(t, q[0].ID)
}

func TestNotification_CustomLifecycle(t *testing.T) {
	n := New(Config{Clock: clock.NewMock()})

	handle, err := n.Notification(NotificationOptions{Message: "syncing your account"})
	require.NoError(t, err)

	list := n.Notifications().Get()
	require.Len(t, list, 1)
	assert.Equal(t, NotificationHint, list[0].Type)
	assert.Equal(t, "syncing your account", list[0].Message)
	assert.Equal(t, customNotificationCode, list[0].EventCode)
	assert.Equal(t, DefaultAutoDismiss, list[0].AutoDismiss)

	require.NoError(t, handle.Update(NotificationOptions{
		Message: "sync complete",
		Type:    NotificationSuccess,
	}))
	list = n.Notifications().Get()
	require.Len(t, list, 1)
	assert.Equal(t, "sync complete", list[0].Message)
	assert.Equal(t, NotificationSuccess, list[0].Type)

	handle.Dismiss()
	assert.Empty(t, n.Notifications().Get())
}

func TestNotification_RequiresMessage(t *testing.T) {
	n := New(Config{Clock: clock.NewMock()})

	_, err := n.Notification(NotificationOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "message", verr.Field)
}

func TestNotification_RejectsUnknownType(t *testing.T) {
	n := New(Config{Clock: clock.NewMock()})

	_, err := n.Notification(NotificationOptions{Message: "x", Type: "shiny"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestNotification_StickyOverride(t *testing.T) {
	mock := clock.NewMock()
	n := New(Config{Clock: mock})

	sticky := time.Duration(0)
	_, err := n.Notification(NotificationOptions{
		Message:     "please migrate your tokens",
		AutoDismiss: &sticky,
	})
	require.NoError(t, err)

	mock.Add(time.Minute)
	assert.Len(t, n.Notifications().Get(), 1)
}

func TestSetConfig(t *testing.T) {
	n := New(Config{Clock: clock.NewMock()})

	d := 5 * time.Second
	require.NoError(t, n.SetConfig(ConfigUpdate{TxApproveReminderTimeout: &d}))
	assert.Equal(t, 5*time.Second, n.cfg().approveReminder)
	assert.Equal(t, defaultStallPendingTimeout, n.cfg().stallPending,
		"nil fields keep their current value")

	bad := -time.Second
	err := n.SetConfig(ConfigUpdate{TxStallPendingTimeout: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "txStallPendingTimeout", verr.Field)
	assert.Equal(t, defaultStallPendingTimeout, n.cfg().stallPending)
}

func TestNew_Defaults(t *testing.T) {
	n := New(Config{})

	assert.Equal(t, defaultApproveReminderTimeout, n.cfg().approveReminder)
	assert.Equal(t, defaultStallPendingTimeout, n.cfg().stallPending)
	assert.Equal(t, defaultStallConfirmedTimeout, n.cfg().stallConfirmed)
	assert.NotNil(t, n.client)
	assert.NotNil(t, n.log)
	assert.Empty(t, n.Transactions().Get())
	assert.Empty(t, n.Notifications().Get())
}
