package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB swaps the shared connection for a sqlmock-backed one.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	previous := utils.DB
	utils.DB = gormDB
	t.Cleanup(func() {
		utils.DB = previous
		db.Close()
	})

	return mock
}

func TestMapPaymentStatus(t *testing.T) {
	cases := []struct {
		transaction string
		fraud       string
		want        string
	}{
		{"capture", "accept", models.PaymentStatusCapture},
		{"capture", "challenge", models.PaymentStatusPending},
		{"settlement", "", models.PaymentStatusSettlement},
		{"cancel", "", models.PaymentStatusCancel},
		{"deny", "", models.PaymentStatusDeny},
		{"expire", "", models.PaymentStatusExpire},
		{"pending", "", models.PaymentStatusPending},
		{"unknown", "", models.PaymentStatusPending},
	}
	for _, tc := range cases {
		if got := MapPaymentStatus(tc.transaction, tc.fraud); got != tc.want {
			t.Errorf("MapPaymentStatus(%q, %q) = %q, want %q", tc.transaction, tc.fraud, got, tc.want)
		}
	}
}

func TestMapDonationStatus(t *testing.T) {
	cases := []struct {
		transaction string
		fraud       string
		want        string
	}{
		{"capture", "accept", models.DonationStatusSettlement},
		{"capture", "challenge", models.DonationStatusPending},
		{"settlement", "", models.DonationStatusSettlement},
		{"cancel", "", models.DonationStatusCancel},
		{"deny", "", models.DonationStatusCancel},
		{"expire", "", models.DonationStatusExpire},
		{"unknown", "", models.DonationStatusPending},
	}
	for _, tc := range cases {
		if got := MapDonationStatus(tc.transaction, tc.fraud); got != tc.want {
			t.Errorf("MapDonationStatus(%q, %q) = %q, want %q", tc.transaction, tc.fraud, got, tc.want)
		}
	}
}

func TestDonationSettlementIncrementsCampaign(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `donations` WHERE midtrans_order_id").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "campaign_id", "amount", "payment_status", "midtrans_order_id"}).
			AddRow(3, 9, "50000", "pending", "DONATION-1700000000000-abcd1234"))
	mock.ExpectExec("UPDATE `donations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `donation_campaigns` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var settled *models.Donation
	r := NewReconciler(zaptest.NewLogger(t), func(d models.Donation) {
		settled = &d
	})

	donation, err := r.ApplyDonationNotification(GatewayNotification{
		OrderID:           "DONATION-1700000000000-abcd1234",
		TransactionStatus: "settlement",
	})
	if err != nil {
		t.Fatalf("ApplyDonationNotification: %v", err)
	}
	if donation.PaymentStatus != models.DonationStatusSettlement {
		t.Fatalf("status = %q, want settlement", donation.PaymentStatus)
	}
	if settled == nil {
		t.Fatal("settlement callback did not fire")
	}
	if settled.PaidAt == nil {
		t.Fatal("callback donation is missing paid_at")
	}
	if donation.PaidAt == nil {
		t.Fatal("settled donation is missing paid_at")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDuplicateSettlementIsNoOp(t *testing.T) {
	mock := newMockDB(t)

	// Already settled: the transaction commits without touching any row.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `donations` WHERE midtrans_order_id").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "campaign_id", "amount", "payment_status", "midtrans_order_id"}).
			AddRow(3, 9, "50000", "settlement", "DONATION-1700000000000-abcd1234"))
	mock.ExpectCommit()

	callbackFired := false
	r := NewReconciler(zaptest.NewLogger(t), func(models.Donation) {
		callbackFired = true
	})

	donation, err := r.ApplyDonationNotification(GatewayNotification{
		OrderID:           "DONATION-1700000000000-abcd1234",
		TransactionStatus: "settlement",
	})
	if err != nil {
		t.Fatalf("ApplyDonationNotification: %v", err)
	}
	if donation.PaymentStatus != models.DonationStatusSettlement {
		t.Fatalf("status = %q, want settlement", donation.PaymentStatus)
	}
	if callbackFired {
		t.Fatal("callback must not fire on a duplicate notification")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpireAfterSettlementIsIgnored(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `donations` WHERE midtrans_order_id").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "campaign_id", "amount", "payment_status", "midtrans_order_id"}).
			AddRow(3, 9, "50000", "settlement", "DONATION-1700000000000-abcd1234"))
	mock.ExpectCommit()

	r := NewReconciler(zaptest.NewLogger(t), nil)
	donation, err := r.ApplyDonationNotification(GatewayNotification{
		OrderID:           "DONATION-1700000000000-abcd1234",
		TransactionStatus: "expire",
	})
	if err != nil {
		t.Fatalf("ApplyDonationNotification: %v", err)
	}
	if donation.PaymentStatus != models.DonationStatusSettlement {
		t.Fatalf("terminal status must not move, got %q", donation.PaymentStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnknownOrderIDReturnsNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `donations` WHERE midtrans_order_id").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	r := NewReconciler(zaptest.NewLogger(t), nil)
	_, err := r.ApplyDonationNotification(GatewayNotification{
		OrderID:           "DONATION-0-deadbeef",
		TransactionStatus: "settlement",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentSettlementStampsDate(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `payments` WHERE midtrans_order_id").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "event_id", "user_id", "amount", "payment_status", "midtrans_order_id"}).
			AddRow(5, 2, 8, "150000", "pending", "EVENT-2-USER-8-1700000000000-abcd1234"))
	mock.ExpectExec("UPDATE `payments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewReconciler(zaptest.NewLogger(t), nil)
	payment, err := r.ApplyPaymentNotification(GatewayNotification{
		OrderID:           "EVENT-2-USER-8-1700000000000-abcd1234",
		TransactionStatus: "settlement",
	})
	if err != nil {
		t.Fatalf("ApplyPaymentNotification: %v", err)
	}
	if payment.PaymentStatus != models.PaymentStatusSettlement {
		t.Fatalf("status = %q, want settlement", payment.PaymentStatus)
	}
	if payment.PaymentDate == nil {
		t.Fatal("settled payment is missing payment_date")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCaptureCannotRegressToCancel(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `payments` WHERE midtrans_order_id").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "event_id", "user_id", "amount", "payment_status", "midtrans_order_id"}).
			AddRow(5, 2, 8, "150000", "capture", "EVENT-2-USER-8-1700000000000-abcd1234"))
	mock.ExpectCommit()

	r := NewReconciler(zaptest.NewLogger(t), nil)
	payment, err := r.ApplyPaymentNotification(GatewayNotification{
		OrderID:           "EVENT-2-USER-8-1700000000000-abcd1234",
		TransactionStatus: "cancel",
	})
	if err != nil {
		t.Fatalf("ApplyPaymentNotification: %v", err)
	}
	if payment.PaymentStatus != models.PaymentStatusCapture {
		t.Fatalf("capture may only settle or be denied, got %q", payment.PaymentStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
