// Package qr builds UPI payment deep links and invoice verification
// payloads and renders them as QR code images.
package qr

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultImageSize is the QR PNG edge length in pixels.
const DefaultImageSize = 256

// PaymentRequest carries the fields encoded into a UPI deep link.
type PaymentRequest struct {
	UPIID     string
	PayeeName string
	Amount    decimal.Decimal
	Note      string
}

// BuildUPILink builds a upi://pay deep link. The parameter order
// (pa, pn, am, cu, tn) is fixed; several wallet apps reject links with
// reordered parameters.
func BuildUPILink(req PaymentRequest) (string, error) {
	if strings.TrimSpace(req.UPIID) == "" {
		return "", fmt.Errorf("UPI ID is required")
	}
	if req.Amount.IsNegative() {
		return "", fmt.Errorf("amount cannot be negative")
	}

	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(url.QueryEscape(req.UPIID))
	b.WriteString("&pn=")
	b.WriteString(url.QueryEscape(req.PayeeName))
	b.WriteString("&am=")
	b.WriteString(req.Amount.StringFixed(2))
	b.WriteString("&cu=INR")
	if req.Note != "" {
		b.WriteString("&tn=")
		b.WriteString(url.QueryEscape(req.Note))
	}

	return b.String(), nil
}

// BuildVerificationPayload builds the compact pipe-delimited payload
// printed on invoices so a scan can confirm the invoice details.
func BuildVerificationPayload(invoiceNumber, shopName string, grandTotal decimal.Decimal, dateISO string) string {
	return fmt.Sprintf("INV:%s|SHOP:%s|AMT:%s|DATE:%s",
		invoiceNumber, shopName, grandTotal.StringFixed(2), dateISO)
}

// EncodePNG renders the payload as a PNG image with medium error
// correction.
func EncodePNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultImageSize
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return png, nil
}
