package notify

import (
	"context"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var reTxHash = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

func isTxHash(s string) bool {
	return reTxHash.MatchString(s)
}

// isIntString reports whether s is a non-negative integer in decimal
// notation, the form all raw amounts travel in.
func isIntString(s string) bool {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return d.IsInteger() && !d.IsNegative()
}

func validateAddress(field, s string) error {
	if s == "" {
		return nil
	}
	if !common.IsHexAddress(s) {
		return &ValidationError{Field: field, Expect: "a 0x-prefixed hex address"}
	}
	return nil
}

func validateAmount(field, s string) error {
	if s == "" {
		return nil
	}
	if !isIntString(s) {
		return &ValidationError{Field: field, Expect: "a non-negative integer string"}
	}
	return nil
}

// TxDetails is the caller-supplied shape of the transaction about to be
// submitted.
type TxDetails struct {
	To       string
	From     string
	Value    string
	Gas      string
	GasPrice string
	Nonce    uint64
}

// TransactionOptions configures one preflight-and-submit flow. All
// fields are optional; supplying only a subset degrades the matching
// checks rather than erroring.
type TransactionOptions struct {
	// SendTransaction submits the transaction and resolves to its hash.
	// When nil, preflight stops after the approval request and the
	// caller correlates the eventual hash via Notify.Hash.
	SendTransaction func(ctx context.Context) (string, error)

	// EstimateGas and GasPrice resolve concurrently; the gas cost check
	// only runs when both are present.
	EstimateGas func(ctx context.Context) (string, error)
	GasPrice    func(ctx context.Context) (string, error)

	// Balance is the sender's balance as a raw integer string, gating
	// submission on sufficient funds.
	Balance string

	TxDetails    *TxDetails
	ContractCall *ContractCall
}

func (o *TransactionOptions) validate() error {
	if err := validateAmount("balance", o.Balance); err != nil {
		return err
	}
	if d := o.TxDetails; d != nil {
		if err := validateAddress("txDetails.to", d.To); err != nil {
			return err
		}
		if err := validateAddress("txDetails.from", d.From); err != nil {
			return err
		}
		for field, v := range map[string]string{
			"txDetails.value":    d.Value,
			"txDetails.gas":      d.Gas,
			"txDetails.gasPrice": d.GasPrice,
		} {
			if err := validateAmount(field, v); err != nil {
				return err
			}
		}
	}
	if c := o.ContractCall; c != nil && c.MethodName == "" {
		return &ValidationError{Field: "contractCall.methodName", Expect: "a non-empty method name"}
	}
	return nil
}
