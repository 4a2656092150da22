// Package binance implements a minimal Binance Pay client for personal
// account internal transfers. Only the two endpoints the verification
// engine needs are covered.
package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"phoneadmin_backend/internal/logger"
)

const DefaultBaseURL = "https://api.binance.com"

// recvWindow tells Binance how long a signed request stays valid (ms).
const recvWindow = 60000

// PayerInfo identifies the sending account of an internal transfer.
type PayerInfo struct {
	Name      string `json:"name"`
	BinanceID string `json:"binanceId"`
}

// PayTransaction is one entry of the Pay transaction history. Amounts are
// decimal strings on the wire; positive means an incoming transfer.
type PayTransaction struct {
	OrderID         string          `json:"orderId"`
	TransactionID   string          `json:"transactionId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionTime int64           `json:"transactionTime"`
	OrderType       string          `json:"orderType"`
	PayerInfo       *PayerInfo      `json:"payerInfo"`
}

type historyResponse struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Data    []PayTransaction `json:"data"`
}

// Client talks to the Binance REST API with API-key credentials.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client
}

func NewClient(apiKey, apiSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// sign returns the hex HMAC-SHA256 of the canonical query string.
func (c *Client) sign(params string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(params))
	return hex.EncodeToString(mac.Sum(nil))
}

// GetPayTransactionHistory fetches Pay transactions between startTime and
// endTime (ms since epoch), newest first as the provider returns them.
// Order of the result slice is preserved exactly.
func (c *Client) GetPayTransactionHistory(ctx context.Context, startTime, endTime int64, limit int) ([]PayTransaction, error) {
	timestamp := time.Now().UnixMilli()
	if startTime == 0 {
		startTime = timestamp - 30*24*60*60*1000
	}
	if endTime == 0 {
		endTime = timestamp
	}

	params := fmt.Sprintf("startTime=%d&endTime=%d&limit=%d&recvWindow=%d&timestamp=%d",
		startTime, endTime, limit, recvWindow, timestamp)
	signature := c.sign(params)

	url := fmt.Sprintf("%s/sapi/v1/pay/transactions?%s&signature=%s", c.baseURL, params, signature)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build pay transactions request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pay transactions request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pay transactions response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pay transactions request failed: status %d: %s", resp.StatusCode, string(body))
	}

	var result historyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode pay transactions response: %w", err)
	}

	logger.Debug("retrieved binance pay transactions", "count", len(result.Data))
	return result.Data, nil
}

// TestConnection checks whether the credentials can reach the account
// status endpoint. Failures are reported as false, never as an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	params := fmt.Sprintf("timestamp=%d", time.Now().UnixMilli())
	signature := c.sign(params)

	url := fmt.Sprintf("%s/sapi/v1/account/status?%s&signature=%s", c.baseURL, params, signature)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("binance connection test failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}
