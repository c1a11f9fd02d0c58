package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateCandidate_MatchesByAddressAndValue(t *testing.T) {
	queue := []TransactionRecord{
		{ID: "1", To: "0xaaa", Value: "5", Status: StatusPending},
	}

	got := duplicateCandidate(queue, &TxDetails{To: "0xAAA", Value: "5"}, nil)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)
}

func TestDuplicateCandidate_ExcludesTerminal(t *testing.T) {
	for _, status := range []string{StatusConfirmed, StatusFailed} {
		queue := []TransactionRecord{
			{ID: "1", To: "0xaaa", Value: "5", Status: status},
		}
		got := duplicateCandidate(queue, &TxDetails{To: "0xAAA", Value: "5"}, nil)
		assert.Nil(t, got, "status %q must not block a new transaction", status)
	}
}

func TestDuplicateCandidate_ValueIsLoose(t *testing.T) {
	queue := []TransactionRecord{
		{ID: "1", To: "0xaaa", Value: "5", Status: StatusPending},
	}

	got := duplicateCandidate(queue, &TxDetails{To: "0xaaa", Value: "5.0"}, nil)
	assert.NotNil(t, got)

	got = duplicateCandidate(queue, &TxDetails{To: "0xaaa", Value: "6"}, nil)
	assert.Nil(t, got)
}

func TestDuplicateCandidate_ContractCall(t *testing.T) {
	call := &ContractCall{MethodName: "transfer", Params: []any{"0xbbb", "100"}}
	queue := []TransactionRecord{
		{ID: "1", Value: "0", Status: StatusPending, ContractCall: call},
	}

	got := duplicateCandidate(queue, &TxDetails{Value: "0"}, &ContractCall{
		MethodName: "transfer",
		Params:     []any{"0xbbb", "100"},
	})
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)

	// different params, same method
	got = duplicateCandidate(queue, &TxDetails{Value: "0"}, &ContractCall{
		MethodName: "transfer",
		Params:     []any{"0xbbb", "101"},
	})
	assert.Nil(t, got)

	// different method
	got = duplicateCandidate(queue, &TxDetails{Value: "0"}, &ContractCall{
		MethodName: "approve",
		Params:     []any{"0xbbb", "100"},
	})
	assert.Nil(t, got)
}

func TestDuplicateCandidate_SkipsTerminalButKeepsScanning(t *testing.T) {
	queue := []TransactionRecord{
		{ID: "1", To: "0xaaa", Value: "5", Status: StatusConfirmed},
		{ID: "2", To: "0xaaa", Value: "5", Status: StatusPending},
	}

	got := duplicateCandidate(queue, &TxDetails{To: "0xaaa", Value: "5"}, nil)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.ID)
}

func TestDuplicateCandidate_NilDetails(t *testing.T) {
	queue := []TransactionRecord{{ID: "1", To: "0xaaa", Value: "5"}}
	assert.Nil(t, duplicateCandidate(queue, nil, nil))
}
