package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRegister is a physical till (caja).
type CashRegister struct {
	ID             string
	Name           string
	Type           string
	AccountID      *string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RegisterOpening records the start of a business day. It never touches
// balances.
type RegisterOpening struct {
	ID             string
	CashRegisterID string
	OpeningAmount  decimal.Decimal
	OpenedBy       string
	OpenedAt       time.Time
}

// RegisterClosing records the end of a business day for one opening.
type RegisterClosing struct {
	ID             string
	CashRegisterID string
	OpeningID      string
	FinalAmount    decimal.Decimal
	DayIncome      decimal.Decimal
	DayExpense     decimal.Decimal
	ClosedBy       string
	ClosedAt       time.Time
}

// RegisterState is the open/closed lifecycle state of a register.
type RegisterState string

const (
	RegisterNeverOpened RegisterState = "never_opened"
	RegisterOpen        RegisterState = "open"
	RegisterClosed      RegisterState = "closed"
)

// StateOf derives the lifecycle state from the latest opening and the
// closing attached to it, if any.
func StateOf(latest *RegisterOpening, closing *RegisterClosing) RegisterState {
	if latest == nil {
		return RegisterNeverOpened
	}

	if closing != nil && closing.OpeningID == latest.ID {
		return RegisterClosed
	}

	return RegisterOpen
}

// CanOpen reports whether a new opening may be recorded.
func CanOpen(state RegisterState) error {
	if state == RegisterOpen {
		return ErrRegisterAlreadyOpen
	}

	return nil
}

// CanClose reports whether a closing may be recorded.
func CanClose(state RegisterState) error {
	switch state {
	case RegisterNeverOpened:
		return ErrRegisterNotOpen
	case RegisterClosed:
		return ErrRegisterAlreadyClosed
	}

	return nil
}

// DailySummary holds the operational totals for one business day.
type DailySummary struct {
	CashRegisterID string
	Date           string
	From           time.Time
	To             time.Time
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
}

// HistoryKind tags a history event.
type HistoryKind string

const (
	HistoryOpening  HistoryKind = "apertura"
	HistoryClosing  HistoryKind = "cierre"
	HistoryTransfer HistoryKind = "traspaso"
)

// HistoryEvent is one item in a register's activity timeline.
type HistoryEvent struct {
	Kind     HistoryKind
	At       time.Time
	Opening  *RegisterOpening
	Closing  *RegisterClosing
	Transfer *Transfer
}
