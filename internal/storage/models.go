package storage

import (
	"time"

	"github.com/NgigiN/pesatrack/internal/mpesa"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction represents a stored financial transaction. Monetary values are
// stored as float64 columns; the parser's decimals are converted on the way
// in and zero means the message did not report that section.
type Transaction struct {
	gorm.Model
	TransactionID  string `gorm:"uniqueIndex"`
	Type           string `gorm:"index"`
	Status         string
	Amount         float64
	Counterparty   string
	AccountNumber  string
	Phone          string
	DateTime       time.Time
	MpesaBalance   float64
	MshwariBalance float64
	Cost           float64
	DailyLimit     float64
	FulizaInterest float64
	FulizaTotal    float64
	FulizaLimit    float64
	FulizaDueDate  *time.Time
	Category       string
	Reason         string
}

// NewTransaction maps a parsed record plus user metadata onto the storage row.
func NewTransaction(p *mpesa.Transaction, category, reason string) *Transaction {
	tx := &Transaction{
		TransactionID:  p.TransactionID,
		Type:           string(p.Type),
		Status:         string(p.Status),
		Amount:         p.Amount.InexactFloat64(),
		Counterparty:   p.Counterparty(),
		AccountNumber:  p.AccountNumber,
		MpesaBalance:   deref(p.MpesaBalance),
		MshwariBalance: deref(p.MshwariBalance),
		Cost:           deref(p.TransactionCost),
		DailyLimit:     deref(p.DailyLimit),
		FulizaInterest: deref(p.FulizaInterest),
		FulizaTotal:    deref(p.FulizaTotal),
		FulizaLimit:    deref(p.FulizaLimit),
		FulizaDueDate:  p.FulizaDueDate,
		Category:       category,
		Reason:         reason,
	}
	switch p.Type {
	case mpesa.TypeReceived:
		tx.Phone = p.SenderPhone
	case mpesa.TypeSent:
		tx.Phone = p.RecipientPhone
	case mpesa.TypeAirtime:
		tx.Phone = p.AirtimePhone
	}
	if p.OccurredAt != nil {
		tx.DateTime = *p.OccurredAt
	}
	return tx
}

func deref(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}
