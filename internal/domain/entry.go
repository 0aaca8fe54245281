package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	EntryIncome  EntryType = "ingreso"
	EntryExpense EntryType = "gasto"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == EntryIncome || t == EntryExpense
}

// Flip returns the opposite direction.
func (t EntryType) Flip() EntryType {
	if t == EntryIncome {
		return EntryExpense
	}

	return EntryIncome
}

// EntryMethod is the payment channel an entry went through.
type EntryMethod string

const (
	MethodCash       EntryMethod = "caja"
	MethodBank       EntryMethod = "banco"
	MethodStationery EntryMethod = "papeleria"
	MethodAdjustment EntryMethod = "ajuste"
)

// Valid reports whether m is a known method.
func (m EntryMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBank, MethodStationery, MethodAdjustment:
		return true
	}

	return false
}

// Entry is an append-only ledger movement (movimiento contable).
type Entry struct {
	ID             string
	Type           EntryType
	Amount         decimal.Decimal
	Method         EntryMethod
	Date           time.Time
	CashRegisterID *string
	BankAccountID  *string
	CategoryID     *string
	TransferID     *string
	Description    string
	CreatedBy      string
	CreatedAt      time.Time
}

// Validate checks the shape of an entry before it is stored.
func (e *Entry) Validate() error {
	if !e.Type.Valid() {
		return ErrInvalidEntryType
	}

	if !e.Method.Valid() {
		return ErrInvalidEntryMethod
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if e.CashRegisterID != nil && e.BankAccountID != nil {
		return ErrEntryScope
	}

	if e.CreatedBy == "" {
		return ErrMissingActor
	}

	return nil
}

// Signed returns the amount with income positive and expense negative.
func (e *Entry) Signed() decimal.Decimal {
	if e.Type == EntryExpense {
		return e.Amount.Neg()
	}

	return e.Amount
}

// BalanceSums holds per-type totals over a set of entries.
type BalanceSums struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns income minus expense.
func (s BalanceSums) Net() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Add accumulates an amount under the given type.
func (s *BalanceSums) Add(t EntryType, amount decimal.Decimal) {
	switch t {
	case EntryIncome:
		s.Income = s.Income.Add(amount)
	case EntryExpense:
		s.Expense = s.Expense.Add(amount)
	}
}

// FoldBalance is the balance formula: seed + Σingreso − Σgasto.
func FoldBalance(seed decimal.Decimal, sums BalanceSums) decimal.Decimal {
	return seed.Add(sums.Net())
}

// SumEntries groups entries by type.
func SumEntries(entries []*Entry) BalanceSums {
	sums := BalanceSums{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		sums.Add(e.Type, e.Amount)
	}

	return sums
}
