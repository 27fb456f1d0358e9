package services

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type MidtransConfig struct {
	ServerKey string
	ClientKey string
	APIURL    string // e.g. https://app.sandbox.midtrans.com/snap/v1
}

// MidtransClient talks to the Snap API: it creates transactions and
// verifies inbound webhook notifications.
type MidtransClient struct {
	config     MidtransConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewMidtransClient(config MidtransConfig, logger *zap.Logger) *MidtransClient {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			MaxConnsPerHost:       100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		Timeout: 30 * time.Second,
	}

	return &MidtransClient{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

type SnapCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type SnapItem struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// SnapTransaction is the checkout reference handed back to the client:
// a token for the Snap popup and a redirect URL for hosted payment pages.
type SnapTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateTransaction registers the order with the gateway. The pending
// ledger row must already exist before this call; if the gateway fails the
// row stays pending and remains cancellable through the admin override.
func (mc *MidtransClient) CreateTransaction(ctx context.Context, orderID string, grossAmount int64, customer SnapCustomer, items []SnapItem) (*SnapTransaction, error) {
	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     orderID,
			"gross_amount": grossAmount,
		},
		"customer_details": customer,
		"item_details":     items,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal snap request: %w", err)
	}

	url := fmt.Sprintf("%s/transactions", strings.TrimRight(mc.config.APIURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(mc.config.ServerKey+":")))

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		mc.logger.Error("snap request failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGateway, err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr struct {
			ErrorMessages []string `json:"error_messages"`
		}
		_ = json.Unmarshal(respBody, &apiErr)
		mc.logger.Error("snap transaction rejected",
			zap.String("order_id", orderID),
			zap.Int("status", resp.StatusCode),
			zap.Strings("errors", apiErr.ErrorMessages))
		return nil, fmt.Errorf("%w: status %d", ErrGateway, resp.StatusCode)
	}

	var tx SnapTransaction
	if err := json.Unmarshal(respBody, &tx); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	if tx.Token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrGateway)
	}

	return &tx, nil
}

// GatewayNotification is the webhook body posted by the gateway.
type GatewayNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
}

// VerifySignature checks the notification against
// sha512(order_id + status_code + gross_amount + server_key).
func (mc *MidtransClient) VerifySignature(n GatewayNotification) error {
	raw := n.OrderID + n.StatusCode + n.GrossAmount + mc.config.ServerKey
	sum := sha512.Sum512([]byte(raw))
	if hex.EncodeToString(sum[:]) != n.SignatureKey {
		return ErrInvalidSignature
	}
	return nil
}
