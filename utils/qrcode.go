package utils

import (
	"github.com/skip2/go-qrcode"
)

// GenerateQRCode renders text as a 256px PNG QR code.
func GenerateQRCode(text string) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, 256)
}
