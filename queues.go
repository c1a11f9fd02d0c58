package notify

// findTransaction returns the queue entry for id, if any.
func (n *Notify) findTransaction(id string) (TransactionRecord, bool) {
	for _, rec := range n.transactions.Get() {
		if rec.ID == id {
			return rec, true
		}
	}
	return TransactionRecord{}, false
}

// mergeRecord overlays the non-zero fields of update onto base. A
// StartTime already present on base is never overwritten.
func mergeRecord(base, update TransactionRecord) TransactionRecord {
	out := base
	if update.Hash != "" {
		out.Hash = update.Hash
	}
	if update.To != "" {
		out.To = update.To
	}
	if update.From != "" {
		out.From = update.From
	}
	if update.Value != "" {
		out.Value = update.Value
	}
	if update.Gas != "" {
		out.Gas = update.Gas
	}
	if update.GasPrice != "" {
		out.GasPrice = update.GasPrice
	}
	if update.Nonce != 0 {
		out.Nonce = update.Nonce
	}
	if update.Status != "" {
		out.Status = update.Status
	}
	out.EventCode = update.EventCode
	if update.ContractCall != nil {
		out.ContractCall = update.ContractCall
	}
	if update.Balance != "" {
		out.Balance = update.Balance
	}
	if update.Counterparty != "" {
		out.Counterparty = update.Counterparty
	}
	if update.Direction != "" {
		out.Direction = update.Direction
	}
	if update.Asset != "" {
		out.Asset = update.Asset
	}
	if out.StartTime.IsZero() {
		out.StartTime = update.StartTime
	}
	return out
}

// upsertTransaction replaces the queue entry with rec's id, or appends.
func (n *Notify) upsertTransaction(rec TransactionRecord) {
	n.transactions.Update(func(q []TransactionRecord) []TransactionRecord {
		out := make([]TransactionRecord, len(q))
		copy(out, q)
		for i := range out {
			if out[i].ID == rec.ID {
				out[i] = rec
				return out
			}
		}
		return append(out, rec)
	})
}

// addNotification inserts rec per the type rules: hints always append,
// any other type first evicts every notification with the same id so at
// most one non-hint notification per transaction is visible. The
// auto-dismiss timer, once scheduled, is never cancelled; dismissing a
// key that is already gone is a no-op.
func (n *Notify) addNotification(rec NotificationRecord) {
	n.notifications.Update(func(list []NotificationRecord) []NotificationRecord {
		out := make([]NotificationRecord, 0, len(list)+1)
		for _, x := range list {
			if rec.Type != NotificationHint && x.ID == rec.ID {
				continue
			}
			out = append(out, x)
		}
		return append(out, rec)
	})

	if rec.AutoDismiss > 0 {
		n.clock.AfterFunc(rec.AutoDismiss, func() {
			n.Dismiss(rec.ID, rec.EventCode)
		})
	}
}

// Dismiss removes the notification for the given transaction id and
// event code.
func (n *Notify) Dismiss(id string, code EventCode) {
	n.notifications.Update(func(list []NotificationRecord) []NotificationRecord {
		out := make([]NotificationRecord, 0, len(list))
		for _, x := range list {
			if x.ID == id && x.EventCode == code {
				continue
			}
			out = append(out, x)
		}
		return out
	})
}
