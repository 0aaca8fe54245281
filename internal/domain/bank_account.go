package domain

import "time"

// BankAccount is an account held at a bank. Its balance comes from entries
// tagged with its ID; AccountID is the parent generic account.
type BankAccount struct {
	ID            string
	AccountID     string
	BankName      string
	AccountNumber string
	CreatedAt     time.Time
}
