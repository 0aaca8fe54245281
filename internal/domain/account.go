package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a generic accounting account (cuenta contable).
//
// InitialBalance is fixed at creation. CurrentBalance is a cache of
// InitialBalance plus the fold of every entry in the account's scope and is
// only written by recalculation or by the inline bank adjustment done inside
// a transfer transaction.
type Account struct {
	ID             string
	Code           string
	Name           string
	CategoryID     *string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Linkage describes which ledger scope feeds an account's balance.
type Linkage string

const (
	LinkageCashRegister Linkage = "caja"
	LinkageBank         Linkage = "banco"
	LinkageCategory     Linkage = "categoria"
)

// ResolveLinkage picks the balance scope from the number of cash registers
// and bank accounts pointing at an account.
func ResolveLinkage(registers, banks int) (Linkage, error) {
	switch {
	case registers > 0 && banks > 0:
		return "", ErrAmbiguousLinkage
	case registers > 0:
		return LinkageCashRegister, nil
	case banks > 0:
		return LinkageBank, nil
	default:
		return LinkageCategory, nil
	}
}
