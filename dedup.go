package notify

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// duplicateCandidate scans the queue for a live transaction that looks
// like a repeat of details. With a contract call the match is on method
// name plus canonically-serialized params; without, on the recipient
// address (case-insensitive). The value must match either way. Terminal
// transactions never count: a completed transfer does not block a new
// one of the same shape. Returns the matched record or nil.
//
// This is a heuristic for warning the user, not a strict dedup.
func duplicateCandidate(queue []TransactionRecord, details *TxDetails, contract *ContractCall) *TransactionRecord {
	if details == nil {
		return nil
	}
	for i := range queue {
		rec := queue[i]
		if rec.terminal() {
			continue
		}
		if contract != nil {
			if rec.ContractCall == nil ||
				rec.ContractCall.MethodName != contract.MethodName ||
				!paramsEqual(rec.ContractCall.Params, contract.Params) {
				continue
			}
		} else if !strings.EqualFold(rec.To, details.To) {
			continue
		}
		if !looseValueEqual(rec.Value, details.Value) {
			continue
		}
		return &rec
	}
	return nil
}

// paramsEqual compares call parameters by canonical JSON serialization
// (encoding/json emits map keys in sorted order).
func paramsEqual(a, b []any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// looseValueEqual treats "5" and "5.0" as the same amount while still
// matching non-numeric strings literally.
func looseValueEqual(a, b string) bool {
	if a == b {
		return true
	}
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	return errA == nil && errB == nil && da.Equal(db)
}
