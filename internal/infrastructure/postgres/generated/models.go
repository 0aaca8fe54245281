package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	CategoryID     *string            `json:"category_id"`
	InitialBalance pgtype.Numeric     `json:"initial_balance"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type BankAccount struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	BankName      string             `json:"bank_name"`
	AccountNumber string             `json:"account_number"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type CashRegister struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	AccountID      *string            `json:"account_id"`
	InitialBalance pgtype.Numeric     `json:"initial_balance"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type Category struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	ParentID  *string            `json:"parent_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Entry struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"`
	Amount         pgtype.Numeric     `json:"amount"`
	Method         string             `json:"method"`
	Date           pgtype.Timestamptz `json:"date"`
	CashRegisterID *string            `json:"cash_register_id"`
	BankAccountID  *string            `json:"bank_account_id"`
	CategoryID     *string            `json:"category_id"`
	TransferID     *string            `json:"transfer_id"`
	Description    string             `json:"description"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type RegisterClosing struct {
	ID             string             `json:"id"`
	CashRegisterID string             `json:"cash_register_id"`
	OpeningID      string             `json:"opening_id"`
	FinalAmount    pgtype.Numeric     `json:"final_amount"`
	DayIncome      pgtype.Numeric     `json:"day_income"`
	DayExpense     pgtype.Numeric     `json:"day_expense"`
	ClosedBy       string             `json:"closed_by"`
	ClosedAt       pgtype.Timestamptz `json:"closed_at"`
}

type RegisterOpening struct {
	ID             string             `json:"id"`
	CashRegisterID string             `json:"cash_register_id"`
	OpeningAmount  pgtype.Numeric     `json:"opening_amount"`
	OpenedBy       string             `json:"opened_by"`
	OpenedAt       pgtype.Timestamptz `json:"opened_at"`
}

type Transfer struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	Amount          pgtype.Numeric     `json:"amount"`
	Concept         string             `json:"concept"`
	OriginKind      string             `json:"origin_kind"`
	OriginID        string             `json:"origin_id"`
	DestinationKind string             `json:"destination_kind"`
	DestinationID   string             `json:"destination_id"`
	Status          string             `json:"status"`
	CreatedBy       string             `json:"created_by"`
	UpdatedBy       string             `json:"updated_by"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type TransferSequence struct {
	Period    string `json:"period"`
	LastValue int64  `json:"last_value"`
}
