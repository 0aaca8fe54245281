package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntry_Validate(t *testing.T) {
	register := "caja-1"
	bank := "bank-1"

	tests := []struct {
		name        string
		entry       Entry
		expectError error
	}{
		{
			name:  "valid caja income",
			entry: Entry{Type: EntryIncome, Method: MethodCash, Amount: decimal.NewFromInt(10), CashRegisterID: &register, CreatedBy: "u"},
		},
		{
			name:        "unknown type",
			entry:       Entry{Type: "refund", Method: MethodCash, Amount: decimal.NewFromInt(10), CreatedBy: "u"},
			expectError: ErrInvalidEntryType,
		},
		{
			name:        "unknown method",
			entry:       Entry{Type: EntryIncome, Method: "crypto", Amount: decimal.NewFromInt(10), CreatedBy: "u"},
			expectError: ErrInvalidEntryMethod,
		},
		{
			name:        "zero amount",
			entry:       Entry{Type: EntryExpense, Method: MethodAdjustment, Amount: decimal.Zero, CreatedBy: "u"},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "two scopes",
			entry:       Entry{Type: EntryExpense, Method: MethodBank, Amount: decimal.NewFromInt(1), CashRegisterID: &register, BankAccountID: &bank, CreatedBy: "u"},
			expectError: ErrEntryScope,
		},
		{
			name:        "no actor",
			entry:       Entry{Type: EntryExpense, Method: MethodStationery, Amount: decimal.NewFromInt(1)},
			expectError: ErrMissingActor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.expectError == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestFoldBalance(t *testing.T) {
	entries := []*Entry{
		{Type: EntryIncome, Amount: decimal.NewFromInt(500)},
		{Type: EntryExpense, Amount: decimal.NewFromInt(200)},
	}

	got := FoldBalance(decimal.NewFromInt(1000), SumEntries(entries))
	if !got.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("expected 1300, got %s", got)
	}

	if got := FoldBalance(decimal.NewFromInt(1000), SumEntries(nil)); !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("no entries should return the seed, got %s", got)
	}
}

func TestFoldBalance_NoFloatDrift(t *testing.T) {
	cent := decimal.RequireFromString("0.10")
	var sums BalanceSums
	for i := 0; i < 10000; i++ {
		sums.Add(EntryIncome, cent)
	}

	if got := FoldBalance(decimal.Zero, sums); !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected exactly 1000, got %s", got)
	}
}
