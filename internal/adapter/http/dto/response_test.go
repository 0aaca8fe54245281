package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

func TestTransferFromDomain(t *testing.T) {
	now := time.Now()
	transfer := &domain.Transfer{
		ID:          "T1",
		Number:      "TR-202512-00001",
		Amount:      decimal.NewFromInt(300),
		Concept:     "deposito",
		Origin:      domain.Endpoint{Kind: domain.EndpointCashRegister, ID: "A"},
		Destination: domain.Endpoint{Kind: domain.EndpointBank, ID: "B"},
		Status:      domain.TransferCommitted,
		CreatedAt:   now,
	}

	resp := TransferFromDomain(transfer)
	if resp.Number != "TR-202512-00001" || resp.Amount != "300.00" {
		t.Fatalf("unexpected transfer response: %+v", resp)
	}
	if resp.Origin.Kind != "caja" || resp.Destination.ID != "B" {
		t.Fatalf("unexpected endpoints: %+v -> %+v", resp.Origin, resp.Destination)
	}
}

func TestHistoryFromDomain(t *testing.T) {
	now := time.Now()
	events := []domain.HistoryEvent{
		{Kind: domain.HistoryClosing, At: now, Closing: &domain.RegisterClosing{ID: "C1", FinalAmount: decimal.NewFromInt(10)}},
		{Kind: domain.HistoryOpening, At: now.Add(-time.Hour), Opening: &domain.RegisterOpening{ID: "O1"}},
	}

	resp := HistoryFromDomain(events)
	if len(resp) != 2 {
		t.Fatalf("expected 2 events, got %d", len(resp))
	}
	if resp[0].Closing == nil || resp[0].Opening != nil || resp[0].Closing.FinalAmount != "10.00" {
		t.Fatalf("unexpected closing event: %+v", resp[0])
	}
	if resp[1].Opening == nil || resp[1].Kind != "apertura" {
		t.Fatalf("unexpected opening event: %+v", resp[1])
	}
}
