package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentSettings stores the Binance Pay API credentials. A single row,
// mutated only through the admin settings endpoint and read once per
// verification attempt.
type PaymentSettings struct {
	BaseModel
	BinanceAPIKey    string `gorm:"size:500" json:"-"`
	BinanceAPISecret string `gorm:"size:500" json:"-"`
	BinanceEnabled   bool   `gorm:"default:false" json:"binance_enabled"`
}

// PaymentTransaction is the durable outcome of one verification attempt.
// The unique index on OrderID is the at-most-once guard: concurrent
// verifications of the same order race on the insert and the loser gets a
// duplicate-key error, not a second record.
type PaymentTransaction struct {
	BaseModel
	UserID          string          `gorm:"index" json:"user_id"`
	OrderID         string          `gorm:"size:255;uniqueIndex;not null" json:"order_id"`
	TransactionID   string          `gorm:"size:255" json:"transaction_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,8)" json:"amount"`
	Currency        string          `gorm:"size:10;default:'USDT'" json:"currency"`
	Status          PaymentStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	FromAccount     string          `gorm:"size:255" json:"from_account"`
	PayerBinanceID  string          `gorm:"size:255" json:"payer_binance_id"`
	OrderType       string          `gorm:"size:50" json:"order_type"`
	TransactionTime int64           `json:"transaction_time"` // provider timestamp, ms since epoch
	VerifiedAt      *time.Time      `json:"verified_at,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Metadata        datatypes.JSON  `gorm:"type:jsonb" json:"metadata,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
