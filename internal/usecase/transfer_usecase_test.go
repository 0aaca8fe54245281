package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/cajaledger/internal/adapter/repository/postgres"
	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
	"github.com/iho/cajaledger/internal/usecase/mocks"
)

// ledgerSetup is register A (1000 plus 500 income and 200 expense), register
// C (500) and bank account B under an otherwise empty account.
type ledgerSetup struct {
	*fixture
	a, c   *domain.CashRegister
	b      *domain.BankAccount
	parent *domain.Account
}

func newLedgerSetup(t *testing.T) *ledgerSetup {
	f := newFixture(t)

	s := &ledgerSetup{fixture: f}
	s.a = f.register("Caja A", "1000", nil)
	s.c = f.register("Caja C", "500", nil)
	s.parent = f.account("1.1.02", "0", nil)
	s.b = f.bank(s.parent.ID)

	f.cashEntry(s.a.ID, domain.EntryIncome, domain.MethodCash, "500", nil)
	f.cashEntry(s.a.ID, domain.EntryExpense, domain.MethodCash, "200", nil)

	return s
}

func TestTransferUseCase_CreateMovesFunds(t *testing.T) {
	s := newLedgerSetup(t)

	requireAmount(t, "A before", s.endpointBalance(cashEndpoint(s.a.ID)), "1300")
	requireAmount(t, "B before", s.endpointBalance(bankEndpoint(s.b.ID)), "0")

	transfer := s.transfer(cashEndpoint(s.a.ID), bankEndpoint(s.b.ID), "300")

	requireAmount(t, "A after", s.endpointBalance(cashEndpoint(s.a.ID)), "1000")
	requireAmount(t, "B after", s.endpointBalance(bankEndpoint(s.b.ID)), "300")

	entries := s.transferEntries(transfer.ID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	for _, e := range entries {
		if !strings.Contains(e.Description, transfer.Number) {
			t.Fatalf("entry description %q does not carry %s", e.Description, transfer.Number)
		}
		if e.TransferID == nil || *e.TransferID != transfer.ID {
			t.Fatalf("entry %s not linked to transfer", e.ID)
		}
	}

	requireAmount(t, "A cache", s.registerCache(s.a.ID), "1000")
	requireAmount(t, "parent cache", s.accountCache(s.parent.ID), "300")
}

func TestTransferUseCase_ConservesFunds(t *testing.T) {
	s := newLedgerSetup(t)

	total := func() string {
		return s.endpointBalance(cashEndpoint(s.a.ID)).Add(s.endpointBalance(bankEndpoint(s.b.ID))).String()
	}

	before := total()
	s.transfer(cashEndpoint(s.a.ID), bankEndpoint(s.b.ID), "300")
	s.transfer(bankEndpoint(s.b.ID), cashEndpoint(s.a.ID), "125.50")

	if after := total(); after != before {
		t.Fatalf("expected total %s to be preserved, got %s", before, after)
	}

	report, err := s.svc.Ledger.CheckConsistency(s.ctx)
	if err != nil || !report.Consistent {
		t.Fatalf("expected consistent ledger, got %+v %v", report, err)
	}
	requireAmount(t, "transfer income", report.TransferIncome, "425.50")
}

func TestTransferUseCase_NumbersSequentially(t *testing.T) {
	s := newLedgerSetup(t)

	first := s.transfer(cashEndpoint(s.a.ID), bankEndpoint(s.b.ID), "10")
	second := s.transfer(cashEndpoint(s.a.ID), cashEndpoint(s.c.ID), "10")

	period := domain.TransferPeriod(time.Now().UTC())
	if first.Number != "TR-"+period+"-00001" || second.Number != "TR-"+period+"-00002" {
		t.Fatalf("unexpected numbers %s, %s", first.Number, second.Number)
	}

	if first.CreatedBy != actor || first.Status != domain.TransferCommitted {
		t.Fatalf("unexpected transfer %+v", first)
	}
}

func TestTransferUseCase_InsufficientFundsWritesNothing(t *testing.T) {
	s := newLedgerSetup(t)

	_, err := s.svc.Transfers.CreateTransfer(s.ctx, usecase.CreateTransferInput{
		Origin:      cashEndpoint(s.c.ID),
		Destination: bankEndpoint(s.b.ID),
		Concept:     "deposito",
		UserID:      actor,
		Amount:      dec("500.01"),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	transfers, err := s.svc.Transfers.ListTransfers(s.ctx, 10, 0)
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 0 {
		t.Fatalf("expected no transfers, got %d", len(transfers))
	}

	entries, err := s.svc.CashRegisters.ListEntries(s.ctx, s.c.ID, 10, 0)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries on C, got %d", len(entries))
	}
}

func TestTransferUseCase_ValidationErrors(t *testing.T) {
	s := newLedgerSetup(t)

	tests := []struct {
		name  string
		input usecase.CreateTransferInput
		want  error
	}{
		{
			name:  "same endpoint",
			input: usecase.CreateTransferInput{Origin: cashEndpoint(s.a.ID), Destination: cashEndpoint(s.a.ID), Concept: "x", UserID: actor, Amount: dec("1")},
			want:  domain.ErrSameEndpoint,
		},
		{
			name:  "missing actor",
			input: usecase.CreateTransferInput{Origin: cashEndpoint(s.a.ID), Destination: cashEndpoint(s.c.ID), Concept: "x", Amount: dec("1")},
			want:  domain.ErrMissingActor,
		},
		{
			name:  "zero amount",
			input: usecase.CreateTransferInput{Origin: cashEndpoint(s.a.ID), Destination: cashEndpoint(s.c.ID), Concept: "x", UserID: actor},
			want:  domain.ErrValidation,
		},
		{
			name:  "empty concept",
			input: usecase.CreateTransferInput{Origin: cashEndpoint(s.a.ID), Destination: cashEndpoint(s.c.ID), Concept: "  ", UserID: actor, Amount: dec("1")},
			want:  domain.ErrEmptyConcept,
		},
		{
			name:  "unknown register",
			input: usecase.CreateTransferInput{Origin: cashEndpoint("missing"), Destination: cashEndpoint(s.c.ID), Concept: "x", UserID: actor, Amount: dec("1")},
			want:  domain.ErrNotFound,
		},
		{
			name:  "fraction of a cent",
			input: usecase.CreateTransferInput{Origin: cashEndpoint(s.a.ID), Destination: cashEndpoint(s.c.ID), Concept: "x", UserID: actor, Amount: dec("10.005")},
			want:  domain.ErrAmountPrecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.svc.Transfers.CreateTransfer(s.ctx, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	transfers, err := s.svc.Transfers.ListTransfers(s.ctx, 10, 0)
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 0 {
		t.Fatalf("rejected transfers must not be stored, found %d", len(transfers))
	}
}

func TestTransferUseCase_UpdateMatchesDeleteThenCreate(t *testing.T) {
	edited := newLedgerSetup(t)
	rebuilt := newLedgerSetup(t)

	replacement := func(s *ledgerSetup) usecase.UpdateTransferInput {
		return usecase.UpdateTransferInput{
			Origin:      cashEndpoint(s.c.ID),
			Destination: bankEndpoint(s.b.ID),
			Concept:     "corregido",
			UserID:      "user-2",
			Amount:      dec("100"),
		}
	}

	original := edited.transfer(cashEndpoint(edited.a.ID), bankEndpoint(edited.b.ID), "300")
	updated, err := edited.svc.Transfers.UpdateTransfer(edited.ctx, original.ID, replacement(edited))
	if err != nil {
		t.Fatalf("update transfer: %v", err)
	}

	if updated.Number != original.Number || updated.UpdatedBy != "user-2" || updated.CreatedBy != actor {
		t.Fatalf("unexpected updated transfer %+v", updated)
	}

	doomed := rebuilt.transfer(cashEndpoint(rebuilt.a.ID), bankEndpoint(rebuilt.b.ID), "300")
	if err := rebuilt.svc.Transfers.DeleteTransfer(rebuilt.ctx, doomed.ID, actor); err != nil {
		t.Fatalf("delete transfer: %v", err)
	}
	if _, err := rebuilt.svc.Transfers.CreateTransfer(rebuilt.ctx, replacement(rebuilt)); err != nil {
		t.Fatalf("create replacement: %v", err)
	}

	pairs := []struct {
		name      string
		got, want func() string
	}{
		{"A", func() string { return edited.endpointBalance(cashEndpoint(edited.a.ID)).String() }, func() string { return rebuilt.endpointBalance(cashEndpoint(rebuilt.a.ID)).String() }},
		{"B", func() string { return edited.endpointBalance(bankEndpoint(edited.b.ID)).String() }, func() string { return rebuilt.endpointBalance(bankEndpoint(rebuilt.b.ID)).String() }},
		{"C", func() string { return edited.endpointBalance(cashEndpoint(edited.c.ID)).String() }, func() string { return rebuilt.endpointBalance(cashEndpoint(rebuilt.c.ID)).String() }},
		{"parent cache", func() string { return edited.accountCache(edited.parent.ID).String() }, func() string { return rebuilt.accountCache(rebuilt.parent.ID).String() }},
		{"A cache", func() string { return edited.registerCache(edited.a.ID).String() }, func() string { return rebuilt.registerCache(rebuilt.a.ID).String() }},
	}

	for _, p := range pairs {
		if got, want := p.got(), p.want(); got != want {
			t.Fatalf("%s: edit gave %s, delete+create gave %s", p.name, got, want)
		}
	}

	requireAmount(t, "A restored", edited.endpointBalance(cashEndpoint(edited.a.ID)), "1300")
	requireAmount(t, "C debited", edited.endpointBalance(cashEndpoint(edited.c.ID)), "400")

	entries := edited.transferEntries(original.ID)
	if len(entries) != 4 {
		t.Fatalf("expected 2 reversals and 2 new legs, got %d entries", len(entries))
	}
}

func TestTransferUseCase_UpdateChecksFundsAfterReversal(t *testing.T) {
	s := newLedgerSetup(t)

	transfer := s.transfer(cashEndpoint(s.c.ID), bankEndpoint(s.b.ID), "500")
	requireAmount(t, "C drained", s.endpointBalance(cashEndpoint(s.c.ID)), "0")

	input := usecase.UpdateTransferInput{
		Origin:      cashEndpoint(s.c.ID),
		Destination: bankEndpoint(s.b.ID),
		Concept:     "deposito",
		UserID:      actor,
		Amount:      dec("500"),
	}
	if _, err := s.svc.Transfers.UpdateTransfer(s.ctx, transfer.ID, input); err != nil {
		t.Fatalf("re-applying the same amount should pass: %v", err)
	}

	input.Amount = dec("500.01")
	if _, err := s.svc.Transfers.UpdateTransfer(s.ctx, transfer.ID, input); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	requireAmount(t, "C unchanged", s.endpointBalance(cashEndpoint(s.c.ID)), "0")
	requireAmount(t, "B unchanged", s.endpointBalance(bankEndpoint(s.b.ID)), "500")
}

func TestTransferUseCase_DeleteRemovesEveryLinkedEntry(t *testing.T) {
	s := newLedgerSetup(t)

	transfer := s.transfer(cashEndpoint(s.a.ID), bankEndpoint(s.b.ID), "300")
	if _, err := s.svc.Transfers.UpdateTransfer(s.ctx, transfer.ID, usecase.UpdateTransferInput{
		Origin: cashEndpoint(s.a.ID), Destination: bankEndpoint(s.b.ID), Concept: "ajustado", UserID: actor, Amount: dec("250"),
	}); err != nil {
		t.Fatalf("update transfer: %v", err)
	}

	if err := s.svc.Transfers.DeleteTransfer(s.ctx, transfer.ID, actor); err != nil {
		t.Fatalf("delete transfer: %v", err)
	}

	if entries := s.transferEntries(transfer.ID); len(entries) != 0 {
		t.Fatalf("expected no linked entries, got %d", len(entries))
	}

	if _, err := s.svc.Transfers.GetTransfer(s.ctx, transfer.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected transfer to be gone, got %v", err)
	}

	requireAmount(t, "A", s.endpointBalance(cashEndpoint(s.a.ID)), "1300")
	requireAmount(t, "B", s.endpointBalance(bankEndpoint(s.b.ID)), "0")
	requireAmount(t, "A cache", s.registerCache(s.a.ID), "1300")
	requireAmount(t, "parent cache", s.accountCache(s.parent.ID), "0")

	if err := s.svc.Transfers.DeleteTransfer(s.ctx, transfer.ID, actor); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestTransferUseCase_RetriesThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)

	f := newFixture(t)
	a := f.register("Caja A", "100", nil)
	c := f.register("Caja C", "0", nil)

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, op func() error) error {
		return op()
	}).Times(1)

	svc := usecase.NewServices(f.repos, usecase.ServiceOptions{
		IDGen:   postgres.NewULIDGenerator(),
		Retrier: retrier,
		Logger:  zerolog.Nop(),
	})

	if _, err := svc.Transfers.CreateTransfer(f.ctx, usecase.CreateTransferInput{
		Origin: cashEndpoint(a.ID), Destination: cashEndpoint(c.ID), Concept: "cambio", UserID: actor, Amount: dec("40"),
	}); err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	requireAmount(t, "C", f.registerCache(c.ID), "40")
}
