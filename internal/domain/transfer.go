package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EndpointKind is the kind of ledger scope a transfer leg touches.
type EndpointKind string

const (
	EndpointCashRegister EndpointKind = "caja"
	EndpointBank         EndpointKind = "banco"
)

// Endpoint is one side of a transfer.
type Endpoint struct {
	Kind EndpointKind
	ID   string
}

// Validate checks that the endpoint names a known kind and an id.
func (e Endpoint) Validate() error {
	if e.Kind != EndpointCashRegister && e.Kind != EndpointBank {
		return ErrInvalidEndpoint
	}

	if strings.TrimSpace(e.ID) == "" {
		return ErrInvalidEndpoint
	}

	return nil
}

// Method maps the endpoint kind to the entry method used for its legs.
func (e Endpoint) Method() EntryMethod {
	if e.Kind == EndpointBank {
		return MethodBank
	}

	return MethodCash
}

func (e Endpoint) String() string {
	return string(e.Kind) + ":" + e.ID
}

// TransferStatus is the persisted state of a transfer.
type TransferStatus string

const (
	TransferCommitted TransferStatus = "committed"
)

// Transfer moves funds between two endpoints (traspaso).
type Transfer struct {
	ID          string
	Number      string
	Amount      decimal.Decimal
	Concept     string
	Origin      Endpoint
	Destination Endpoint
	Status      TransferStatus
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates transfer request.
func (t *Transfer) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if strings.TrimSpace(t.Concept) == "" {
		return ErrEmptyConcept
	}

	if err := t.Origin.Validate(); err != nil {
		return fmt.Errorf("origin: %w", err)
	}

	if err := t.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	if t.Origin == t.Destination {
		return ErrSameEndpoint
	}

	return nil
}

// Touches reports whether the transfer has a leg on the endpoint.
func (t *Transfer) Touches(e Endpoint) bool {
	return t.Origin == e || t.Destination == e
}

// TransferPeriod is the YYYYMM bucket transfer numbers are sequenced in.
func TransferPeriod(at time.Time) string {
	return at.Format("200601")
}

// FormatTransferNumber renders TR-YYYYMM-NNNNN.
func FormatTransferNumber(period string, seq int64) string {
	return fmt.Sprintf("TR-%s-%05d", period, seq)
}

// TransferDescription is the entry description carrying the number.
func TransferDescription(number, concept string) string {
	return fmt.Sprintf("Traspaso %s: %s", number, concept)
}

// Legs builds the expense entry at the origin and the income entry at the
// destination.
func (t *Transfer) Legs(originID, destinationID string, at time.Time) (*Entry, *Entry) {
	out := t.leg(originID, t.Origin, EntryExpense, at)
	in := t.leg(destinationID, t.Destination, EntryIncome, at)

	return out, in
}

// ReversalOf builds an entry that cancels e inside the same transfer.
func (t *Transfer) ReversalOf(id string, e *Entry, actor string, at time.Time) *Entry {
	transferID := t.ID

	return &Entry{
		ID:             id,
		Type:           e.Type.Flip(),
		Amount:         e.Amount,
		Method:         e.Method,
		Date:           at,
		CashRegisterID: e.CashRegisterID,
		BankAccountID:  e.BankAccountID,
		CategoryID:     e.CategoryID,
		TransferID:     &transferID,
		Description:    "Reverso " + e.Description,
		CreatedBy:      actor,
		CreatedAt:      at,
	}
}

func (t *Transfer) leg(id string, e Endpoint, typ EntryType, at time.Time) *Entry {
	transferID := t.ID
	scopeID := e.ID

	entry := &Entry{
		ID:          id,
		Type:        typ,
		Amount:      t.Amount,
		Method:      e.Method(),
		Date:        at,
		TransferID:  &transferID,
		Description: TransferDescription(t.Number, t.Concept),
		CreatedBy:   t.UpdatedBy,
		CreatedAt:   at,
	}

	if e.Kind == EndpointBank {
		entry.BankAccountID = &scopeID
	} else {
		entry.CashRegisterID = &scopeID
	}

	return entry
}
