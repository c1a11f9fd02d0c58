package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// InFlightTransaction is the handle for one preflight-and-submit flow.
// Attach listeners to the emitter first, then call Send; nothing is
// emitted before Send runs.
type InFlightTransaction struct {
	n       *Notify
	opts    TransactionOptions
	emitter *Emitter

	once sync.Once
	id   string
	err  error
}

// Transaction validates opts and returns a handle for the flow. The
// returned error is a *ValidationError on malformed input.
func (n *Notify) Transaction(opts TransactionOptions) (*InFlightTransaction, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &InFlightTransaction{n: n, opts: opts, emitter: NewEmitter()}, nil
}

func (t *InFlightTransaction) Emitter() *Emitter { return t.emitter }

// Send runs the preflight checks and returns the new transaction id as
// soon as the approval request has been emitted, before submission
// starts. Submission, monitoring wire-up and stall detection continue
// in the background; a failure past this point is reported through the
// emitter only, because by then the flow has been accepted by the user.
// Calling Send again returns the first result.
func (t *InFlightTransaction) Send(ctx context.Context) (string, error) {
	t.once.Do(func() {
		t.id, t.err = t.n.preflight(ctx, t.opts, t.emitter)
	})
	return t.id, t.err
}

// preflight is the check sequence run before submission. The steps run
// strictly in order; each check reads the queue's current snapshot with
// no mutual exclusion across concurrent flows, so two lookalike
// transactions can both pass the duplicate check. That is accepted:
// the checks are best-effort warnings, not gates, except the balance
// check which is hard.
func (n *Notify) preflight(ctx context.Context, opts TransactionOptions, em *Emitter) (string, error) {
	gas, gasPrice, err := n.resolveEstimates(ctx, opts)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	draft := TransactionRecord{
		ID:           id,
		Balance:      opts.Balance,
		ContractCall: opts.ContractCall,
		StartTime:    n.clock.Now(),
	}
	if d := opts.TxDetails; d != nil {
		draft.To = d.To
		draft.From = d.From
		draft.Value = d.Value
		draft.Gas = d.Gas
		draft.GasPrice = d.GasPrice
		draft.Nonce = d.Nonce
	}
	if gas != "" {
		draft.Gas = gas
	}
	if gasPrice != "" {
		draft.GasPrice = gasPrice
	}

	if err := n.checkBalance(draft, em); err != nil {
		return "", err
	}

	if opts.TxDetails != nil {
		if dup := duplicateCandidate(n.transactions.Get(), opts.TxDetails, opts.ContractCall); dup != nil {
			ev := draft
			ev.EventCode = EventTxRepeat
			n.emitEvent(ev, em)
		}
	}

	for _, rec := range n.transactions.Get() {
		if rec.Status == StatusAwaitingApproval {
			ev := draft
			ev.EventCode = EventTxAwaitingApproval
			n.emitEvent(ev, em)
			break
		}
	}

	// The reminder timer is never cancelled; once the transaction has
	// advanced past awaitingApproval the callback is a no-op.
	n.clock.AfterFunc(n.cfg().approveReminder, func() {
		if cur, ok := n.findTransaction(id); ok && cur.Status == StatusAwaitingApproval {
			ev := cur
			ev.EventCode = EventTxConfirmReminder
			n.emitEvent(ev, em)
		}
	})

	ev := draft
	ev.EventCode = EventTxRequest
	ev.Status = StatusAwaitingApproval
	n.emitEvent(ev, em)

	if opts.SendTransaction == nil {
		// Caller submits on their own and correlates via Hash.
		return id, nil
	}

	go n.submit(ctx, id, opts, em)
	return id, nil
}

// resolveEstimates runs the two estimators concurrently. The gas cost
// check needs both; with only one supplied the check is skipped rather
// than failed.
func (n *Notify) resolveEstimates(ctx context.Context, opts TransactionOptions) (gas, gasPrice string, err error) {
	if opts.EstimateGas == nil || opts.GasPrice == nil {
		return "", "", nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := opts.EstimateGas(gctx)
		if err != nil {
			return fmt.Errorf("estimate gas: %w", err)
		}
		if !isIntString(v) {
			return fmt.Errorf("%w: estimateGas returned %q", ErrInvalidEstimateResult, v)
		}
		gas = v
		return nil
	})
	g.Go(func() error {
		v, err := opts.GasPrice(gctx)
		if err != nil {
			return fmt.Errorf("gas price: %w", err)
		}
		if !isIntString(v) {
			return fmt.Errorf("%w: gasPrice returned %q", ErrInvalidEstimateResult, v)
		}
		gasPrice = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return gas, gasPrice, nil
}

// checkBalance is the hard preflight gate: when balance, gas and price
// are all known and gas*price+value exceeds the balance, an nsfFail
// event fires (status absent, balance attached) and the flow aborts.
func (n *Notify) checkBalance(draft TransactionRecord, em *Emitter) error {
	if draft.Balance == "" || draft.Gas == "" || draft.GasPrice == "" {
		return nil
	}
	balance, err := decimal.NewFromString(draft.Balance)
	if err != nil {
		return &ValidationError{Field: "balance", Expect: "a non-negative integer string"}
	}
	gas, err1 := decimal.NewFromString(draft.Gas)
	price, err2 := decimal.NewFromString(draft.GasPrice)
	if err1 != nil || err2 != nil {
		return nil
	}
	value := decimal.Zero
	if draft.Value != "" {
		if v, err := decimal.NewFromString(draft.Value); err == nil {
			value = v
		}
	}

	cost := gas.Mul(price).Add(value)
	if cost.LessThanOrEqual(balance) {
		return nil
	}

	ev := draft
	ev.EventCode = EventNSFFail
	ev.Status = ""
	n.emitEvent(ev, em)

	// Plain descriptive reason, documented contract: callers branch on
	// the message, not on a sentinel type.
	return fmt.Errorf("transaction cost of %s exceeds the balance of %s", cost.String(), balance.String())
}

// submit sends the transaction and wires up post-submission monitoring.
// By now the caller already has the id; failures here surface through
// the emitter, never as a returned error.
func (n *Notify) submit(ctx context.Context, id string, opts TransactionOptions, em *Emitter) {
	hash, err := opts.SendTransaction(ctx)
	if err == nil && !isTxHash(hash) {
		err = fmt.Errorf("%w: %q is not a transaction hash", ErrInvalidSubmissionResult, hash)
	}
	if err != nil {
		code, msg := classifySubmissionError(err)
		n.log.WithField("id", id).WithError(err).Warn("transaction submission failed")
		ev, ok := n.findTransaction(id)
		if !ok {
			ev = TransactionRecord{ID: id}
		}
		ev.EventCode = code
		ev.Status = StatusFailed
		// The generic bucket shows the raw error text; the recognized
		// codes have proper catalog messages.
		var base *NotificationOptions
		if code == EventTxError {
			base = &NotificationOptions{Message: msg}
		}
		n.emitEventWith(ev, em, base)
		return
	}

	// The sent/pending statuses arrive only from the monitoring
	// service; submission success by itself changes nothing locally.
	n.watch(hash, id, em)
}

// watch subscribes to the monitoring service for hash and schedules the
// two stall-detection timers. Server-pushed events pass through the
// caller's emitter and the shared stores exactly like local ones.
func (n *Notify) watch(hash, id string, em *Emitter) {
	serverEmitter := n.client.Transaction(hash, id)
	if serverEmitter != nil {
		_ = serverEmitter.On(EventAll, func(tx TransactionRecord) *NotificationOptions {
			if tx.ID == "" {
				tx.ID = id
			}
			if tx.Hash == "" {
				tx.Hash = hash
			}
			n.emitEvent(tx, em)
			return nil
		})
	}

	t := n.cfg()

	// Stall timers only observe: they emit a hint when the transaction
	// sits in an intermediate state past the timeout while the service
	// reports itself healthy. They never change status and, like the
	// reminder timer, are never cancelled.
	n.clock.AfterFunc(t.stallPending, func() {
		st := n.client.Status()
		if cur, ok := n.findTransaction(id); ok && cur.Status == StatusSent && st.Connected && st.NodeSynced {
			ev := cur
			ev.EventCode = EventTxStallPending
			n.emitEvent(ev, em)
		}
	})
	n.clock.AfterFunc(t.stallConfirmed, func() {
		st := n.client.Status()
		if cur, ok := n.findTransaction(id); ok && cur.Status == StatusPending && st.Connected && st.NodeSynced {
			ev := cur
			ev.EventCode = EventTxStallConfirmed
			n.emitEvent(ev, em)
		}
	})
}

// emitEvent is the single emission path for every lifecycle event:
// merge with the current queue entry, report telemetry, consult the
// caller's listener, apply to the queue, then synthesize a notification
// unless the listener suppressed it. An event that exactly repeats the
// entry's current (id, eventCode) pair is dropped whole, guarding
// against the monitoring service echoing an event.
func (n *Notify) emitEvent(tx TransactionRecord, em *Emitter) {
	n.emitEventWith(tx, em, nil)
}

// emitEventWith additionally seeds the notification customization with
// base; listener-returned fields win over it.
func (n *Notify) emitEventWith(tx TransactionRecord, em *Emitter, base *NotificationOptions) {
	merged := tx
	if cur, ok := n.findTransaction(tx.ID); ok {
		if cur.EventCode == tx.EventCode {
			return
		}
		merged = mergeRecord(cur, tx)
	} else if merged.StartTime.IsZero() {
		merged.StartTime = n.clock.Now()
	}

	n.client.Event(telemetryReport(merged))

	var custom *NotificationOptions
	if em != nil {
		custom = em.Emit(merged)
	}
	if custom != nil && custom.Type != "" && !validNotificationType(custom.Type) {
		n.log.WithField("type", custom.Type).Warn("ignoring listener customization with unknown notification type")
		custom = nil
	}

	n.upsertTransaction(merged)

	if custom != nil && custom.Suppress {
		return
	}
	n.addNotification(buildNotification(merged, mergeOptions(base, custom), n.formatter))
}

// mergeOptions overlays the set fields of override onto base.
func mergeOptions(base, override *NotificationOptions) *NotificationOptions {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	out := *base
	if override.Type != "" {
		out.Type = override.Type
	}
	if override.Message != "" {
		out.Message = override.Message
	}
	if override.EventCode != "" {
		out.EventCode = override.EventCode
	}
	if override.AutoDismiss != nil {
		out.AutoDismiss = override.AutoDismiss
	}
	out.Suppress = override.Suppress
	return &out
}

func telemetryReport(tx TransactionRecord) map[string]any {
	return map[string]any{
		"categoryCode": "notify",
		"eventCode":    string(tx.EventCode),
		"transaction":  tx,
	}
}
