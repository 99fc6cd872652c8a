package mpesa

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies which message shape a notification matched.
// Exactly one type holds per parsed transaction.
type TransactionType string

const (
	TypeFulizaUsed        TransactionType = "FULIZA_USED"
	TypeFulizaRepayment   TransactionType = "FULIZA_REPAYMENT"
	TypeReceived          TransactionType = "RECEIVED"
	TypePaid              TransactionType = "PAID"
	TypeSent              TransactionType = "SENT"
	TypeMshwariWithdrawal TransactionType = "MSHWARI_WITHDRAWAL"
	TypeMshwariDeposit    TransactionType = "MSHWARI_DEPOSIT"
	TypeAirtime           TransactionType = "AIRTIME"
	TypeWithdraw          TransactionType = "WITHDRAW"
	TypeBalanceCheck      TransactionType = "BALANCE_CHECK"
)

// Status reports whether the notification describes a completed or a failed
// transaction. It is derived from the failure phrasing alone, independently
// of which shape matched.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Transaction is the normalized result of parsing one notification message.
// A Transaction is built fresh per Parse call and never mutated afterwards.
// Pointer fields are nil when the message did not carry that section.
type Transaction struct {
	TransactionID string
	Status        Status
	Type          TransactionType

	// Amount is the primary monetary figure of the matched shape: the
	// received, paid, sent, withdrawn, bought or drawn-down value.
	Amount decimal.Decimal

	// Shape-specific fields. Empty string means the shape does not define
	// the field or the optional span was absent.
	SenderName     string
	SenderPhone    string
	PaidTo         string
	Recipient      string
	AccountNumber  string
	RecipientPhone string
	AirtimePhone   string
	AgentDetails   string

	FulizaInterest *decimal.Decimal
	FulizaTotal    *decimal.Decimal
	FulizaLimit    *decimal.Decimal
	FulizaDueDate  *time.Time

	// Trailing sections, extracted whenever present regardless of shape.
	MpesaBalance    *decimal.Decimal
	MshwariBalance  *decimal.Decimal
	TransactionCost *decimal.Decimal
	DailyLimit      *decimal.Decimal

	// OccurredAt is the transaction timestamp. HasTime reports whether the
	// message carried a clock component or only a date. Both are unset for
	// messages without a timestamp, such as Fuliza usage notices that only
	// state a due date.
	OccurredAt *time.Time
	HasTime    bool
}

// Counterparty returns the other party named in the message, if the matched
// shape defines one.
func (t *Transaction) Counterparty() string {
	switch t.Type {
	case TypeReceived:
		return t.SenderName
	case TypePaid:
		return t.PaidTo
	case TypeSent:
		return t.Recipient
	case TypeWithdraw:
		return t.AgentDetails
	case TypeAirtime:
		return t.AirtimePhone
	case TypeMshwariDeposit, TypeMshwariWithdrawal:
		return "M-Shwari"
	}
	return ""
}
