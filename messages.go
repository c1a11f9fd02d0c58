package notify

import "strings"

// Formatter resolves a message id to a locale-specific string, with
// {name} placeholders interpolated from values. Returning the id
// unchanged signals that no translation exists, in which case the
// bundled default-locale table is consulted.
type Formatter func(messageID string, values map[string]string) string

var defaultMessages = map[string]string{
	"transaction.txRequest":          "Your transaction is waiting for you to confirm",
	"transaction.nsfFail":            "You have insufficient funds to complete this transaction",
	"transaction.txUnderpriced":      "The gas price for your transaction is too low, try again with a higher gas price",
	"transaction.txRepeat":           "This could be a repeat transaction",
	"transaction.txAwaitingApproval": "You have a previous transaction waiting for you to confirm",
	"transaction.txConfirmReminder":  "Please confirm your transaction to continue, the transaction window will time out shortly",
	"transaction.txSendFail":         "You rejected the transaction",
	"transaction.txSent":             "Your transaction has been sent to the network",
	"transaction.txStallPending":     "Your transaction has stalled and has not entered the transaction pool",
	"transaction.txStallConfirmed":   "Your transaction has stalled and has not been confirmed",
	"transaction.txPool":             "Your transaction has started",
	"transaction.txSpeedUp":          "Your transaction has been sped up",
	"transaction.txCancel":           "Your transaction is being canceled",
	"transaction.txFailed":           "Your transaction has failed",
	"transaction.txConfirmed":        "Your transaction has succeeded",
	"transaction.txDropped":          "Your transaction has been dropped from the transaction pool",
	"transaction.txError":            "Oops something went wrong, please try again",

	"watched.txPool":           "Your account is {verb} {formattedValue} {asset} {preposition} {counterparty}",
	"watched.txSent":           "Your account is {verb} {formattedValue} {asset} {preposition} {counterparty}",
	"watched.txSpeedUp":        "The transaction {verb} {formattedValue} {asset} {preposition} {counterparty} has been sped up",
	"watched.txCancel":         "The transaction {verb} {formattedValue} {asset} {preposition} {counterparty} is being canceled",
	"watched.txConfirmed":      "Your account successfully {verb} {formattedValue} {asset} {preposition} {counterparty}",
	"watched.txFailed":         "Your account failed while {verb} {formattedValue} {asset} {preposition} {counterparty}",
	"watched.txDropped":        "The transaction {verb} {formattedValue} {asset} {preposition} {counterparty} was dropped",
	"watched.txStallPending":   "The transaction {verb} {formattedValue} {asset} {preposition} {counterparty} has stalled",
	"watched.txStallConfirmed": "The transaction {verb} {formattedValue} {asset} {preposition} {counterparty} has stalled and has not been confirmed",
}

// DefaultFormatter serves the bundled default-locale messages. Unknown
// ids come back unchanged per the Formatter contract.
func DefaultFormatter(messageID string, values map[string]string) string {
	tmpl, ok := defaultMessages[messageID]
	if !ok {
		return messageID
	}
	return interpolate(tmpl, values)
}

func interpolate(tmpl string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
