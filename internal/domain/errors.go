package domain

import (
	"errors"
	"fmt"
)

var (
	// Generic classes. Specific errors below wrap one of these so callers can
	// branch with errors.Is on the class alone.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	// Account errors
	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)
	ErrAmbiguousLinkage = fmt.Errorf("%w: account is linked to both cash registers and bank accounts", ErrValidation)

	// Cash register errors
	ErrCashRegisterNotFound  = fmt.Errorf("cash register %w", ErrNotFound)
	ErrRegisterAlreadyOpen   = errors.New("cash register is already open")
	ErrRegisterNotOpen       = errors.New("cash register has never been opened")
	ErrRegisterAlreadyClosed = errors.New("cash register is already closed")

	// Bank account errors
	ErrBankAccountNotFound = fmt.Errorf("bank account %w", ErrNotFound)

	// Category errors
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrCategoryCycle    = errors.New("category hierarchy contains a cycle")

	// Entry errors
	ErrInvalidEntryType   = fmt.Errorf("%w: entry type must be ingreso or gasto", ErrValidation)
	ErrInvalidEntryMethod = fmt.Errorf("%w: entry method must be caja, banco, papeleria or ajuste", ErrValidation)
	ErrEntryScope         = fmt.Errorf("%w: entry cannot reference both a cash register and a bank account", ErrValidation)

	// Transfer errors
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrEmptyConcept      = fmt.Errorf("%w: concept cannot be empty", ErrValidation)
	ErrInvalidEndpoint   = fmt.Errorf("%w: endpoint must be a cash register or a bank account", ErrValidation)
	ErrSameEndpoint      = fmt.Errorf("%w: origin and destination must differ", ErrValidation)
	ErrInsufficientFunds = errors.New("insufficient funds at origin")
	ErrTransferNotFound  = fmt.Errorf("transfer %w", ErrNotFound)

	// Actor errors
	ErrMissingActor = fmt.Errorf("%w: actor id is required", ErrValidation)

	ErrRecalculationFailed = errors.New("balance recalculation failed")
)

// Recalculation target kinds.
const (
	TargetCashRegister = "cash_register"
	TargetAccount      = "account"
)

// RecalculationError reports a cache refresh that failed after the ledger
// write it follows was already committed.
type RecalculationError struct {
	Kind string
	ID   string
	Err  error
}

func (e *RecalculationError) Error() string {
	return fmt.Sprintf("recalculate %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *RecalculationError) Unwrap() []error {
	return []error{ErrRecalculationFailed, e.Err}
}
