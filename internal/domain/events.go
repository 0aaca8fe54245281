package domain

import "time"

// Event types
const (
	EventTypeTransferCreated = "transfer.created"
	EventTypeTransferUpdated = "transfer.updated"
	EventTypeTransferDeleted = "transfer.deleted"
	EventTypeRegisterOpened  = "register.opened"
	EventTypeRegisterClosed  = "register.closed"
	EventTypeEntryRecorded   = "entry.recorded"
)

// Aggregate types
const (
	AggregateTypeTransfer     = "transfer"
	AggregateTypeCashRegister = "cash_register"
	AggregateTypeEntry        = "entry"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferEvent is the payload for transfer.* events.
type TransferEvent struct {
	TransferID  string `json:"transfer_id"`
	Number      string `json:"number"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	Actor       string `json:"actor"`
}

// ToPayload converts the event into an outbox payload.
func (e TransferEvent) ToPayload() map[string]any {
	return map[string]any{
		"transfer_id": e.TransferID,
		"number":      e.Number,
		"origin":      e.Origin,
		"destination": e.Destination,
		"amount":      e.Amount,
		"actor":       e.Actor,
	}
}

// RegisterEvent is the payload for register.* events.
type RegisterEvent struct {
	CashRegisterID string `json:"cash_register_id"`
	RecordID       string `json:"record_id"`
	Amount         string `json:"amount"`
	Actor          string `json:"actor"`
}

// ToPayload converts the event into an outbox payload.
func (e RegisterEvent) ToPayload() map[string]any {
	return map[string]any{
		"cash_register_id": e.CashRegisterID,
		"record_id":        e.RecordID,
		"amount":           e.Amount,
		"actor":            e.Actor,
	}
}
