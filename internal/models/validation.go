package models

import (
	"regexp"
	"strings"
)

// Email validation regex pattern
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Phone number validation regex (Indian format: optional +91, 10 digits
// starting 6-9)
var phoneRegex = regexp.MustCompile(`^(\+91)?[6-9]\d{9}$`)

// GSTIN validation regex: 2-digit state code, 10-char PAN, entity code,
// literal Z, check character
var gstinRegex = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][A-Z\d]Z[A-Z\d]$`)

// UPI virtual payment address: handle@psp
var upiRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

// IsValidEmail validates email format.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone validates Indian phone number format. Empty is accepted
// since phone is optional everywhere it appears.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	cleaned := strings.ReplaceAll(strings.ReplaceAll(phone, " ", ""), "-", "")
	return phoneRegex.MatchString(cleaned)
}

// IsValidGSTIN validates GST registration number format.
func IsValidGSTIN(gstin string) bool {
	return gstinRegex.MatchString(strings.ToUpper(strings.TrimSpace(gstin)))
}

// IsValidUPIID validates a UPI virtual payment address.
func IsValidUPIID(upiID string) bool {
	return upiRegex.MatchString(strings.TrimSpace(upiID))
}
