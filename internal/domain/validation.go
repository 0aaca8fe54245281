package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName        = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrInvalidAccountCode = fmt.Errorf("%w: invalid account code", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrAmountTooSmall     = fmt.Errorf("%w: amount below minimum allowed", ErrValidation)
	ErrNegativeBalance    = fmt.Errorf("%w: initial balance cannot be negative", ErrValidation)
	ErrConceptTooLong     = fmt.Errorf("%w: concept too long", ErrValidation)
	ErrAmountPrecision    = fmt.Errorf("%w: amount has more than %d decimal places", ErrValidation, MoneyScale)
)

// Validation constants
const (
	MaxNameLength    = 255
	MinNameLength    = 1
	MaxConceptLength = 500
	MaxAmount        = "1000000000000" // 1 trillion
	MinAmount        = "0.01"
	MoneyScale       = 2
)

var accountCodeRegex = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.\-]{0,31}$`)

// ValidateName validates a display name for master data.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateAccountCode validates a chart-of-accounts code like 1.1.01.
func ValidateAccountCode(code string) error {
	if !accountCodeRegex.MatchString(strings.TrimSpace(code)) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountCode, code)
	}

	return nil
}

// ValidateAmount validates a movement or transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return ValidateScale(amount)
}

// ValidateScale rejects values with fractions of a cent. Storage keeps
// MoneyScale decimals and would otherwise round them silently.
func ValidateScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("%w: %s", ErrAmountPrecision, amount.String())
	}

	return nil
}

// ValidateInitialBalance rejects negative opening balances.
func ValidateInitialBalance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeBalance
	}

	return ValidateScale(amount)
}

// ValidateConcept validates a transfer concept.
func ValidateConcept(concept string) error {
	concept = strings.TrimSpace(concept)

	if concept == "" {
		return ErrEmptyConcept
	}

	if len(concept) > MaxConceptLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrConceptTooLong, MaxConceptLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
