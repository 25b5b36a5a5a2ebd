package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction review states. Only approved rows are visible on the dashboard.
const (
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
)

// Amount sign conventions of a statement file.
const (
	SignNegative = "negative" // expenses are negative in the file
	SignPositive = "positive" // expenses are positive in the file
)

// User represents a users row.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents a login session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Category represents a category row.
type Category struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parent_id,omitempty"`
	Name      string  `json:"name"`
	SortOrder int     `json:"sort_order"`
}

// SourceFile represents one uploaded statement.
type SourceFile struct {
	ID                   string    `json:"id"`
	Filename             string    `json:"filename"`
	UploadedAt           time.Time `json:"uploaded_at"`
	UserID               string    `json:"user_id"`
	AmountSignConvention string    `json:"amount_sign_convention"`
}

// SourceFileStats is a source file with its transaction counts.
type SourceFileStats struct {
	SourceFile
	TransactionCount int `json:"transaction_count"`
	ApprovedCount    int `json:"approved_count"`
	PendingCount     int `json:"pending_count"`
}

// Transaction represents a transaction row. Date is an ISO YYYY-MM-DD string.
type Transaction struct {
	ID                 string          `json:"id"`
	Date               string          `json:"date"`
	MerchantRaw        string          `json:"merchant_raw"`
	MerchantNormalized string          `json:"merchant_normalized"`
	Amount             decimal.Decimal `json:"amount"`
	CategoryID         *string         `json:"category_id,omitempty"`
	ConfidenceScore    *float64        `json:"confidence_score,omitempty"`
	Status             string          `json:"status"`
	SourceFileID       *string         `json:"source_file_id,omitempty"`
	UserID             string          `json:"user_id"`
	ImportErrorReason  *string         `json:"import_error_reason,omitempty"`
	ImportErrorMessage *string         `json:"import_error_message,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TxDate, TxMerchant and TxAmount expose the fingerprint fields.
func (t Transaction) TxDate() string            { return t.Date }
func (t Transaction) TxMerchant() string        { return t.MerchantNormalized }
func (t Transaction) TxAmount() decimal.Decimal { return t.Amount }
