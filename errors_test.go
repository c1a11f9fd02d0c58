package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySubmissionError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code EventCode
		msg  string
	}{
		{
			"nil error",
			nil,
			EventTxError, "unknown error",
		},
		{
			"empty message",
			errors.New(""),
			EventTxError, "unknown error",
		},
		{
			"wallet rejection",
			errors.New("User denied transaction signature"),
			EventTxSendFail, "User denied transaction signature",
		},
		{
			"wallet rejection with prefix",
			errors.New("MetaMask Tx Signature: User denied transaction signature."),
			EventTxSendFail, "MetaMask Tx Signature: User denied transaction signature.",
		},
		{
			"underpriced",
			errors.New("replacement transaction underpriced"),
			EventTxUnderpriced, "replacement transaction underpriced",
		},
		{
			"anything else",
			errors.New("nonce too low"),
			EventTxError, "nonce too low",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := classifySubmissionError(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "balance", Expect: "a non-negative integer string"}
	assert.Equal(t, "invalid balance: expected a non-negative integer string", err.Error())
}
