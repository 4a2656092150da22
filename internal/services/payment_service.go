package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/binance"
	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/metrics"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

// amountTolerance absorbs provider-side rounding: amounts closer than
// 0.01 to the expected value count as equal. The comparison is strict
// (< tolerance), a difference of exactly 0.01 fails.
var amountTolerance = decimal.NewFromFloat(0.01)

// BinanceClientFactory builds a provider client from stored credentials.
// Indirection exists so tests can point the engine at a stub server.
type BinanceClientFactory func(apiKey, apiSecret string) *binance.Client

func DefaultBinanceClientFactory(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret, config.GetConfig().Binance.BaseURL)
}

type PaymentService interface {
	VerifyPayment(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.VerificationResult, error)
	GetSettings(db *gorm.DB) (*dto.PaymentSettingsResponse, error)
	UpdateSettings(db *gorm.DB, req *dto.UpdatePaymentSettingsRequest) (*dto.PaymentSettingsResponse, error)
	TestConnection(ctx context.Context, db *gorm.DB) (*dto.ConnectionTestResponse, error)
	ListTransactions(db *gorm.DB, criteria repositories.TransactionCriteria) (*dto.TransactionListResponse, error)
}

type paymentService struct {
	paymentRepo   repositories.PaymentRepository
	clientFactory BinanceClientFactory
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, clientFactory BinanceClientFactory) PaymentService {
	if clientFactory == nil {
		clientFactory = DefaultBinanceClientFactory
	}
	return &paymentService{paymentRepo: paymentRepo, clientFactory: clientFactory}
}

// VerifyPayment confirms that the Binance Pay order the user reports
// actually arrived. Every terminal outcome persists exactly one
// transaction record; the unique index on order_id makes the whole
// operation at-most-once under concurrency.
func (s *paymentService) VerifyPayment(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.VerificationResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USDT"
	}
	maxAgeHours := req.MaxAgeHours
	if maxAgeHours == 0 {
		maxAgeHours = 1
	}

	settings, err := s.paymentRepo.GetSettings(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !settings.BinanceEnabled || settings.BinanceAPIKey == "" || settings.BinanceAPISecret == "" {
		return nil, apperrors.ErrBinanceDisabled
	}

	// Duplicate check before any network traffic.
	if existing, err := s.paymentRepo.FindTransactionByOrderID(db, req.OrderID); err == nil {
		return nil, apperrors.ErrPaymentAlreadyProcessed.WithDetails(dto.TransactionToDTO(existing))
	} else if !apperrors.Is(err, repositories.ErrTransactionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	client := s.clientFactory(settings.BinanceAPIKey, settings.BinanceAPISecret)

	now := time.Now().UnixMilli()
	// One extra hour of history so a payment right at the age limit is
	// still inside the fetch window and fails on age, not on absence.
	startTime := now - int64(maxAgeHours+1)*60*60*1000

	transactions, fetchErr := client.GetPayTransactionHistory(ctx, startTime, now, 100)
	if fetchErr != nil {
		logger.CtxError(ctx, "binance pay history fetch failed", "order_id", req.OrderID, "error", fetchErr)
		metrics.PaymentVerifications.WithLabelValues("error").Inc()
		return s.persistOutcome(db, &models.PaymentTransaction{
			UserID:   userID,
			OrderID:  req.OrderID,
			Amount:   req.ExpectedAmount,
			Currency: currency,
			Status:   models.PaymentStatusFailed,
			Notes:    "Unable to retrieve transaction history",
			Metadata: mustJSON(map[string]interface{}{"error": fetchErr.Error()}),
		}, &dto.VerificationResult{
			Verified: false,
			Message:  "Unable to retrieve transaction history",
		})
	}

	// Scan in provider order; the first full order-id match decides.
	for _, tx := range transactions {
		if !tx.Amount.IsPositive() {
			continue // outgoing transfer
		}
		if tx.Currency != currency {
			continue
		}
		if tx.OrderID != req.OrderID {
			continue
		}

		ageHours := float64(now-tx.TransactionTime) / (1000 * 60 * 60)
		if ageHours > float64(maxAgeHours) {
			metrics.PaymentVerifications.WithLabelValues("failed").Inc()
			return s.persistOutcome(db, s.buildRecord(userID, req.OrderID, currency, models.PaymentStatusFailed, &tx,
				fmt.Sprintf("Transaction is too old (%.1f hours). Must be within %d hour(s).", ageHours, maxAgeHours)),
				&dto.VerificationResult{
					Verified: false,
					Message:  fmt.Sprintf("Transaction is too old (%.1f hours). Must be within %d hour(s).", ageHours, maxAgeHours),
				})
		}

		if tx.Amount.Sub(req.ExpectedAmount).Abs().LessThan(amountTolerance) {
			record := s.buildRecord(userID, req.OrderID, tx.Currency, models.PaymentStatusVerified, &tx, "")
			verifiedAt := time.Now()
			record.VerifiedAt = &verifiedAt
			record.Amount = tx.Amount

			metrics.PaymentVerifications.WithLabelValues("verified").Inc()
			return s.persistOutcome(db, record, &dto.VerificationResult{
				Verified: true,
				Message:  "Payment verified successfully",
			})
		}

		msg := fmt.Sprintf("Amount mismatch: expected %s %s, received %s %s",
			req.ExpectedAmount.String(), currency, tx.Amount.String(), tx.Currency)
		metrics.PaymentVerifications.WithLabelValues("failed").Inc()
		return s.persistOutcome(db, s.buildRecord(userID, req.OrderID, currency, models.PaymentStatusFailed, &tx, msg),
			&dto.VerificationResult{Verified: false, Message: msg})
	}

	msg := fmt.Sprintf("Transaction with order ID %q not found in recent payments", req.OrderID)
	metrics.PaymentVerifications.WithLabelValues("failed").Inc()
	return s.persistOutcome(db, &models.PaymentTransaction{
		UserID:   userID,
		OrderID:  req.OrderID,
		Amount:   req.ExpectedAmount,
		Currency: currency,
		Status:   models.PaymentStatusFailed,
		Notes:    msg,
		Metadata: mustJSON(map[string]interface{}{
			"transactions_scanned": len(transactions),
			"window_start_ms":      startTime,
			"window_end_ms":        now,
		}),
	}, &dto.VerificationResult{Verified: false, Message: msg})
}

func (s *paymentService) buildRecord(userID, orderID, currency string, status models.PaymentStatus, tx *binance.PayTransaction, notes string) *models.PaymentTransaction {
	record := &models.PaymentTransaction{
		UserID:          userID,
		OrderID:         orderID,
		TransactionID:   tx.TransactionID,
		Amount:          tx.Amount,
		Currency:        currency,
		Status:          status,
		OrderType:       tx.OrderType,
		TransactionTime: tx.TransactionTime,
		Notes:           notes,
	}
	if tx.PayerInfo != nil {
		record.FromAccount = tx.PayerInfo.Name
		record.PayerBinanceID = tx.PayerInfo.BinanceID
	}
	if b, err := json.Marshal(tx); err == nil {
		record.Metadata = datatypes.JSON(b)
	}
	return record
}

// persistOutcome writes the terminal record. A duplicate-key rejection
// means another request for the same order id won the race; the stored
// record is returned as AlreadyProcessed, whatever this attempt decided.
func (s *paymentService) persistOutcome(db *gorm.DB, record *models.PaymentTransaction, result *dto.VerificationResult) (*dto.VerificationResult, error) {
	err := s.paymentRepo.CreateTransaction(db, record)
	if err == nil {
		result.Transaction = dto.TransactionToDTO(record)
		return result, nil
	}

	if apperrors.Is(err, repositories.ErrDuplicateOrderID) {
		existing, readErr := s.paymentRepo.FindTransactionByOrderID(db, record.OrderID)
		if readErr != nil {
			return nil, apperrors.InternalError(readErr)
		}
		return nil, apperrors.ErrPaymentAlreadyProcessed.WithDetails(dto.TransactionToDTO(existing))
	}
	return nil, apperrors.InternalError(err)
}

func (s *paymentService) GetSettings(db *gorm.DB) (*dto.PaymentSettingsResponse, error) {
	settings, err := s.paymentRepo.GetSettings(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return settingsToDTO(settings), nil
}

func (s *paymentService) UpdateSettings(db *gorm.DB, req *dto.UpdatePaymentSettingsRequest) (*dto.PaymentSettingsResponse, error) {
	settings, err := s.paymentRepo.GetSettings(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if req.BinanceAPIKey != nil {
		settings.BinanceAPIKey = *req.BinanceAPIKey
	}
	if req.BinanceAPISecret != nil {
		settings.BinanceAPISecret = *req.BinanceAPISecret
	}
	if req.BinanceEnabled != nil {
		settings.BinanceEnabled = *req.BinanceEnabled
	}

	if settings.BinanceEnabled && (settings.BinanceAPIKey == "" || settings.BinanceAPISecret == "") {
		return nil, apperrors.NewBadRequestError("Cannot enable Binance Pay without API credentials")
	}

	if err := s.paymentRepo.UpdateSettings(db, settings); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return settingsToDTO(settings), nil
}

func (s *paymentService) TestConnection(ctx context.Context, db *gorm.DB) (*dto.ConnectionTestResponse, error) {
	settings, err := s.paymentRepo.GetSettings(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !settings.BinanceEnabled || settings.BinanceAPIKey == "" || settings.BinanceAPISecret == "" {
		return nil, apperrors.ErrBinanceDisabled
	}

	client := s.clientFactory(settings.BinanceAPIKey, settings.BinanceAPISecret)
	if client.TestConnection(ctx) {
		return &dto.ConnectionTestResponse{Success: true, Message: "Connection successful"}, nil
	}
	return &dto.ConnectionTestResponse{Success: false, Message: "Unable to reach Binance API with the stored credentials"}, nil
}

func (s *paymentService) ListTransactions(db *gorm.DB, criteria repositories.TransactionCriteria) (*dto.TransactionListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	transactions, total, err := s.paymentRepo.FindTransactions(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.TransactionDTO, 0, len(transactions))
	for i := range transactions {
		out = append(out, dto.TransactionToDTO(&transactions[i]))
	}
	return &dto.TransactionListResponse{
		Transactions: out,
		Total:        total,
		Page:         criteria.Page,
		PageSize:     criteria.PageSize,
		TotalPages:   totalPages(total, criteria.PageSize),
	}, nil
}

func settingsToDTO(s *models.PaymentSettings) *dto.PaymentSettingsResponse {
	return &dto.PaymentSettingsResponse{
		BinanceEnabled: s.BinanceEnabled,
		HasAPIKey:      s.BinanceAPIKey != "",
		HasAPISecret:   s.BinanceAPISecret != "",
	}
}

func mustJSON(v map[string]interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
