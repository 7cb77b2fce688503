package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(refID string) ([]byte, error)
}

// DefaultQRGenerator encodes the order's tracking page URL; staff scan it
// at the counter instead of typing the ref id.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(refID string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/order/%s", g.BaseURL, refID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
