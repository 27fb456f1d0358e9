package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order ids are the external correlation keys sent to the gateway. The
// uuid suffix keeps concurrent checkouts from colliding; the unique index
// on midtrans_order_id is the store-level backstop.

func NewEventOrderID(eventID, userID uint) string {
	return fmt.Sprintf("EVENT-%d-USER-%d-%d-%s", eventID, userID, time.Now().UnixMilli(), orderSuffix())
}

func NewDonationOrderID() string {
	return fmt.Sprintf("DONATION-%d-%s", time.Now().UnixMilli(), orderSuffix())
}

func orderSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
