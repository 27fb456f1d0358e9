package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestVerifySignature(t *testing.T) {
	mc := NewMidtransClient(MidtransConfig{ServerKey: "SB-Mid-server-test"}, zaptest.NewLogger(t))

	n := GatewayNotification{
		OrderID:     "DONATION-1700000000000-abcd1234",
		StatusCode:  "200",
		GrossAmount: "50000.00",
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + "SB-Mid-server-test"))
	n.SignatureKey = hex.EncodeToString(sum[:])

	if err := mc.VerifySignature(n); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	n.SignatureKey = "0000"
	if err := mc.VerifySignature(n); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestCreateTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("missing Authorization header")
		}

		var payload struct {
			TransactionDetails struct {
				OrderID     string `json:"order_id"`
				GrossAmount int64  `json:"gross_amount"`
			} `json:"transaction_details"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.TransactionDetails.OrderID != "EVENT-1-USER-2-123-abcd1234" {
			t.Errorf("order_id = %q", payload.TransactionDetails.OrderID)
		}
		if payload.TransactionDetails.GrossAmount != 150000 {
			t.Errorf("gross_amount = %d", payload.TransactionDetails.GrossAmount)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"token":        "snap-token-123",
			"redirect_url": "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-123",
		})
	}))
	defer server.Close()

	mc := NewMidtransClient(MidtransConfig{
		ServerKey: "SB-Mid-server-test",
		APIURL:    server.URL,
	}, zaptest.NewLogger(t))

	tx, err := mc.CreateTransaction(context.Background(),
		"EVENT-1-USER-2-123-abcd1234", 150000,
		SnapCustomer{FirstName: "Budi"},
		[]SnapItem{{ID: "EVENT-1-USER-2-123-abcd1234", Price: 150000, Quantity: 1, Name: "Seminar"}})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.Token != "snap-token-123" {
		t.Fatalf("token = %q", tx.Token)
	}
	if tx.RedirectURL == "" {
		t.Fatal("missing redirect url")
	}
}

func TestCreateTransactionGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string][]string{
			"error_messages": {"Access denied due to unauthorized transaction"},
		})
	}))
	defer server.Close()

	mc := NewMidtransClient(MidtransConfig{
		ServerKey: "wrong-key",
		APIURL:    server.URL,
	}, zaptest.NewLogger(t))

	_, err := mc.CreateTransaction(context.Background(),
		"DONATION-123-abcd1234", 50000, SnapCustomer{FirstName: "Ani"}, nil)
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("err = %v, want ErrGateway", err)
	}
}
