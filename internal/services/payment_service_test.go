package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/binance"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

// fakePaymentRepo is an in-memory PaymentRepository enforcing the
// order_id uniqueness the real table's index provides.
type fakePaymentRepo struct {
	settings     *models.PaymentSettings
	transactions map[string]*models.PaymentTransaction

	// hideNextLookup makes one FindTransactionByOrderID miss even when
	// the row exists, simulating a row inserted between the duplicate
	// pre-check and this attempt's insert.
	hideNextLookup bool
}

func newFakePaymentRepo(enabled bool) *fakePaymentRepo {
	return &fakePaymentRepo{
		settings: &models.PaymentSettings{
			BinanceAPIKey:    "key",
			BinanceAPISecret: "secret",
			BinanceEnabled:   enabled,
		},
		transactions: make(map[string]*models.PaymentTransaction),
	}
}

func (f *fakePaymentRepo) GetSettings(_ *gorm.DB) (*models.PaymentSettings, error) {
	return f.settings, nil
}

func (f *fakePaymentRepo) UpdateSettings(_ *gorm.DB, settings *models.PaymentSettings) error {
	f.settings = settings
	return nil
}

func (f *fakePaymentRepo) CreateTransaction(_ *gorm.DB, tx *models.PaymentTransaction) error {
	if _, exists := f.transactions[tx.OrderID]; exists {
		return repositories.ErrDuplicateOrderID
	}
	tx.ID = fmt.Sprintf("id-%d", len(f.transactions)+1)
	f.transactions[tx.OrderID] = tx
	return nil
}

func (f *fakePaymentRepo) FindTransactionByOrderID(_ *gorm.DB, orderID string) (*models.PaymentTransaction, error) {
	if f.hideNextLookup {
		f.hideNextLookup = false
		return nil, repositories.ErrTransactionNotFound
	}
	tx, exists := f.transactions[orderID]
	if !exists {
		return nil, repositories.ErrTransactionNotFound
	}
	return tx, nil
}

func (f *fakePaymentRepo) FindTransactions(_ *gorm.DB, _ repositories.TransactionCriteria) ([]models.PaymentTransaction, int64, error) {
	out := make([]models.PaymentTransaction, 0, len(f.transactions))
	for _, tx := range f.transactions {
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

// providerStub serves a canned pay-transaction history and counts hits.
type providerStub struct {
	srv  *httptest.Server
	hits int
	fail bool
	txs  []binance.PayTransaction
}

func newProviderStub(t *testing.T) *providerStub {
	t.Helper()
	p := &providerStub{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits++
		if p.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := map[string]interface{}{"code": "000000", "message": "success", "data": p.txs}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *providerStub) factory(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret, p.srv.URL)
}

func payTx(orderID, amount string, ageMinutes int) binance.PayTransaction {
	return binance.PayTransaction{
		OrderID:         orderID,
		TransactionID:   "txid-" + orderID,
		Amount:          decimal.RequireFromString(amount),
		Currency:        "USDT",
		TransactionTime: time.Now().Add(-time.Duration(ageMinutes) * time.Minute).UnixMilli(),
		OrderType:       "C2C",
		PayerInfo:       &binance.PayerInfo{Name: "alice", BinanceID: "42"},
	}
}

func verifyReq(orderID, amount string) *dto.VerifyPaymentRequest {
	return &dto.VerifyPaymentRequest{
		OrderID:        orderID,
		ExpectedAmount: decimal.RequireFromString(amount),
	}
}

func TestVerifyPaymentDisabled(t *testing.T) {
	repo := newFakePaymentRepo(false)
	stub := newProviderStub(t)
	svc := NewPaymentService(repo, stub.factory)

	_, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBinanceDisabled))
	assert.Empty(t, repo.transactions, "nothing may be persisted when disabled")
	assert.Zero(t, stub.hits)
}

func TestVerifyPaymentDuplicateBeforeNetwork(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	svc := NewPaymentService(repo, stub.factory)

	existing := &models.PaymentTransaction{OrderID: "ord-1", Status: models.PaymentStatusVerified}
	require.NoError(t, repo.CreateTransaction(nil, existing))

	_, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrPaymentAlreadyProcessed.Code, appErr.Code)
	assert.NotNil(t, appErr.Details, "existing record must travel in details")
	assert.Zero(t, stub.hits, "duplicate check must precede any provider call")
	assert.Len(t, repo.transactions, 1)
}

func TestVerifyPaymentFetchFailurePersistsFailedRecord(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	stub.fail = true
	svc := NewPaymentService(repo, stub.factory)

	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, "Unable to retrieve transaction history", result.Message)

	require.Len(t, repo.transactions, 1)
	record := repo.transactions["ord-1"]
	assert.Equal(t, models.PaymentStatusFailed, record.Status)
	assert.NotEmpty(t, record.Metadata, "raw error must be kept in metadata")
}

func TestVerifyPaymentSuccess(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	stub.txs = []binance.PayTransaction{payTx("ord-1", "100.5", 10)}
	svc := NewPaymentService(repo, stub.factory)

	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100.5"))
	require.NoError(t, err)
	assert.True(t, result.Verified)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, models.PaymentStatusVerified, result.Transaction.Status)

	require.Len(t, repo.transactions, 1)
	record := repo.transactions["ord-1"]
	assert.Equal(t, models.PaymentStatusVerified, record.Status)
	assert.NotNil(t, record.VerifiedAt)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, "alice", record.FromAccount)
	assert.Equal(t, "42", record.PayerBinanceID)
	assert.Equal(t, "txid-ord-1", record.TransactionID)
	assert.Equal(t, "u1", record.UserID)
}

func TestVerifyPaymentAmountTolerance(t *testing.T) {
	t.Run("within tolerance", func(t *testing.T) {
		repo := newFakePaymentRepo(true)
		stub := newProviderStub(t)
		stub.txs = []binance.PayTransaction{payTx("ord-1", "100.009", 10)}
		svc := NewPaymentService(repo, stub.factory)

		result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
		require.NoError(t, err)
		assert.True(t, result.Verified)
	})

	t.Run("outside tolerance", func(t *testing.T) {
		repo := newFakePaymentRepo(true)
		stub := newProviderStub(t)
		stub.txs = []binance.PayTransaction{payTx("ord-1", "100.02", 10)}
		svc := NewPaymentService(repo, stub.factory)

		result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Contains(t, result.Message, "Amount mismatch")
		assert.Contains(t, result.Message, "100.02")

		record := repo.transactions["ord-1"]
		require.NotNil(t, record)
		assert.Equal(t, models.PaymentStatusFailed, record.Status)
	})
}

func TestVerifyPaymentAgeBoundary(t *testing.T) {
	t.Run("just over the limit", func(t *testing.T) {
		repo := newFakePaymentRepo(true)
		stub := newProviderStub(t)
		// 61 minutes old against a 1 hour limit.
		stub.txs = []binance.PayTransaction{payTx("ord-1", "100", 61)}
		svc := NewPaymentService(repo, stub.factory)

		result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Contains(t, result.Message, "too old")

		record := repo.transactions["ord-1"]
		require.NotNil(t, record)
		assert.Equal(t, models.PaymentStatusFailed, record.Status)
	})

	t.Run("just under the limit", func(t *testing.T) {
		repo := newFakePaymentRepo(true)
		stub := newProviderStub(t)
		stub.txs = []binance.PayTransaction{payTx("ord-1", "100", 59)}
		svc := NewPaymentService(repo, stub.factory)

		result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
		require.NoError(t, err)
		assert.True(t, result.Verified)
	})
}

func TestVerifyPaymentCurrencyExactMatch(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	tx := payTx("ord-1", "100", 10)
	tx.Currency = "usdt" // case differs, must not match
	stub.txs = []binance.PayTransaction{tx}
	svc := NewPaymentService(repo, stub.factory)

	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "not found")
}

func TestVerifyPaymentSkipsNonPositiveAmounts(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	outgoing := payTx("ord-1", "-100", 10)
	stub.txs = []binance.PayTransaction{outgoing}
	svc := NewPaymentService(repo, stub.factory)

	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "not found")
}

func TestVerifyPaymentEmptyHistory(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	svc := NewPaymentService(repo, stub.factory)

	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "not found in recent payments")

	require.Len(t, repo.transactions, 1)
	assert.Equal(t, models.PaymentStatusFailed, repo.transactions["ord-1"].Status)
}

func TestVerifyPaymentFirstMatchWins(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	// Two entries with the same order id; provider order decides.
	first := payTx("ord-1", "100", 10)
	second := payTx("ord-1", "999", 10)
	stub.txs = []binance.PayTransaction{first, second}
	svc := NewPaymentService(repo, stub.factory)

	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.True(t, repo.transactions["ord-1"].Amount.Equal(decimal.RequireFromString("100")))
}

func TestVerifyPaymentInsertRaceReturnsAlreadyProcessed(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	stub.txs = []binance.PayTransaction{payTx("ord-1", "100", 10)}
	svc := NewPaymentService(repo, stub.factory)

	// First attempt wins the insert.
	result, err := svc.VerifyPayment(context.Background(), nil, "u1", verifyReq("ord-1", "100"))
	require.NoError(t, err)
	assert.True(t, result.Verified)

	// Second attempt slips past the duplicate pre-check but loses the
	// insert race on the unique index.
	repo.hideNextLookup = true
	_, err = svc.VerifyPayment(context.Background(), nil, "u2", verifyReq("ord-1", "100"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrPaymentAlreadyProcessed.Code, appErr.Code)
	assert.Len(t, repo.transactions, 1, "the losing attempt must not add a second record")
}

func TestVerifyPaymentDefaultsCurrencyAndMaxAge(t *testing.T) {
	repo := newFakePaymentRepo(true)
	stub := newProviderStub(t)
	stub.txs = []binance.PayTransaction{payTx("ord-1", "100", 10)}
	svc := NewPaymentService(repo, stub.factory)

	req := &dto.VerifyPaymentRequest{
		OrderID:        "ord-1",
		ExpectedAmount: decimal.RequireFromString("100"),
		// Currency and MaxAgeHours left zero.
	}
	result, err := svc.VerifyPayment(context.Background(), nil, "u1", req)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, "USDT", repo.transactions["ord-1"].Currency)
}

func TestConnectionRequiresEnabledIntegration(t *testing.T) {
	repo := newFakePaymentRepo(false)
	stub := newProviderStub(t)
	svc := NewPaymentService(repo, stub.factory)

	_, err := svc.TestConnection(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBinanceDisabled))
	assert.Zero(t, stub.hits, "a disabled integration must not probe the provider")
}

func TestUpdateSettingsRejectsEnableWithoutCredentials(t *testing.T) {
	repo := newFakePaymentRepo(false)
	repo.settings.BinanceAPIKey = ""
	repo.settings.BinanceAPISecret = ""
	svc := NewPaymentService(repo, nil)

	enabled := true
	_, err := svc.UpdateSettings(nil, &dto.UpdatePaymentSettingsRequest{BinanceEnabled: &enabled})
	require.Error(t, err)
}

func TestGetSettingsNeverEchoesSecrets(t *testing.T) {
	repo := newFakePaymentRepo(true)
	repo.settings.BinanceAPIKey = "live-api-key-value"
	repo.settings.BinanceAPISecret = "live-api-secret-value"
	svc := NewPaymentService(repo, nil)

	resp, err := svc.GetSettings(nil)
	require.NoError(t, err)
	assert.True(t, resp.HasAPIKey)
	assert.True(t, resp.HasAPISecret)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "live-api-key-value")
	assert.NotContains(t, string(b), "live-api-secret-value")
}
