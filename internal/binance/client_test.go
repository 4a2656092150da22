package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignMatchesReferenceHMAC(t *testing.T) {
	c := NewClient("key", "secret", "")

	params := "startTime=1000&endTime=2000&limit=100&recvWindow=60000&timestamp=1500"

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(params))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, c.sign(params))
}

func TestSignDependsOnSecret(t *testing.T) {
	a := NewClient("key", "secret-a", "")
	b := NewClient("key", "secret-b", "")

	assert.NotEqual(t, a.sign("timestamp=1"), b.sign("timestamp=1"))
}

func TestGetPayTransactionHistory(t *testing.T) {
	var gotQuery string
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sapi/v1/pay/transactions", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("X-MBX-APIKEY")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"000000","message":"success","data":[
			{"orderId":"ord-1","transactionId":"tx-1","amount":"100.5","currency":"USDT","transactionTime":1700000000000,"orderType":"C2C","payerInfo":{"name":"alice","binanceId":"42"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("api-key", "api-secret", srv.URL)
	txs, err := c.GetPayTransactionHistory(context.Background(), 1, 2, 100)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "api-key", gotAPIKey)
	assert.Contains(t, gotQuery, "startTime=1")
	assert.Contains(t, gotQuery, "endTime=2")
	assert.Contains(t, gotQuery, "limit=100")
	assert.Contains(t, gotQuery, "recvWindow=60000")
	assert.Contains(t, gotQuery, "signature=")

	tx := txs[0]
	assert.Equal(t, "ord-1", tx.OrderID)
	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, "USDT", tx.Currency)
	assert.Equal(t, int64(1700000000000), tx.TransactionTime)
	require.NotNil(t, tx.PayerInfo)
	assert.Equal(t, "alice", tx.PayerInfo.Name)
	assert.Equal(t, "42", tx.PayerInfo.BinanceID)
}

func TestGetPayTransactionHistoryEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"000000","message":"success","data":[]}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL)
	txs, err := c.GetPayTransactionHistory(context.Background(), 0, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestGetPayTransactionHistoryNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"-2014","msg":"API-key format invalid."}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL)
	_, err := c.GetPayTransactionHistory(context.Background(), 0, 0, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sapi/v1/account/status", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-MBX-APIKEY"))
		assert.Contains(t, r.URL.RawQuery, "signature=")
		w.Write([]byte(`{"data":"Normal"}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", srv.URL)
	assert.True(t, c.TestConnection(context.Background()))
}

func TestTestConnectionSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	c := NewClient("k", "s", srv.URL)
	assert.False(t, c.TestConnection(context.Background()))

	// Unreachable host must also come back as false, not an error.
	srv.Close()
	assert.False(t, c.TestConnection(context.Background()))
}
