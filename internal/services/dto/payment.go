package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"phoneadmin_backend/internal/models"
)

// ---------------- Requests ----------------

// VerifyPaymentRequest asks the engine to confirm that the Binance Pay
// order the user reports actually arrived with the expected amount.
type VerifyPaymentRequest struct {
	OrderID        string          `json:"order_id" validate:"required,max=255"`
	ExpectedAmount decimal.Decimal `json:"expected_amount" validate:"required"`
	Currency       string          `json:"currency" validate:"omitempty,max=10"`
	MaxAgeHours    int             `json:"max_age_hours" validate:"omitempty,gte=1,lte=24"`
}

type UpdatePaymentSettingsRequest struct {
	BinanceAPIKey    *string `json:"binance_api_key,omitempty" validate:"omitempty,max=500"`
	BinanceAPISecret *string `json:"binance_api_secret,omitempty" validate:"omitempty,max=500"`
	BinanceEnabled   *bool   `json:"binance_enabled,omitempty"`
}

// ---------------- Responses ----------------

type VerificationResult struct {
	Verified    bool            `json:"verified"`
	Message     string          `json:"message"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
}

type TransactionDTO struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id,omitempty"`
	OrderID         string               `json:"order_id"`
	TransactionID   string               `json:"transaction_id,omitempty"`
	Amount          decimal.Decimal      `json:"amount"`
	Currency        string               `json:"currency"`
	Status          models.PaymentStatus `json:"status"`
	FromAccount     string               `json:"from_account,omitempty"`
	PayerBinanceID  string               `json:"payer_binance_id,omitempty"`
	OrderType       string               `json:"order_type,omitempty"`
	TransactionTime int64                `json:"transaction_time,omitempty"`
	VerifiedAt      *time.Time           `json:"verified_at,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type TransactionListResponse struct {
	Transactions []*TransactionDTO `json:"transactions"`
	Total        int64             `json:"total"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
}

type PaymentSettingsResponse struct {
	BinanceEnabled bool `json:"binance_enabled"`
	HasAPIKey      bool `json:"has_api_key"`
	HasAPISecret   bool `json:"has_api_secret"`
}

type ConnectionTestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func TransactionToDTO(tx *models.PaymentTransaction) *TransactionDTO {
	if tx == nil {
		return nil
	}
	return &TransactionDTO{
		ID:              tx.ID,
		UserID:          tx.UserID,
		OrderID:         tx.OrderID,
		TransactionID:   tx.TransactionID,
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		Status:          tx.Status,
		FromAccount:     tx.FromAccount,
		PayerBinanceID:  tx.PayerBinanceID,
		OrderType:       tx.OrderType,
		TransactionTime: tx.TransactionTime,
		VerifiedAt:      tx.VerifiedAt,
		Notes:           tx.Notes,
		CreatedAt:       tx.CreatedAt,
	}
}
