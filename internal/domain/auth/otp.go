package auth

import (
	"errors"
	"regexp"
)

// OTPPurpose scopes a one-time code to the flow that issued it.
type OTPPurpose string

const (
	// OTPPurposeActivate codes confirm account activation after registration.
	OTPPurposeActivate OTPPurpose = "activate"
	// OTPPurposeReset codes authorize a password reset.
	OTPPurposeReset OTPPurpose = "reset"
)

// OTPLength is the number of digits in issued codes.
const OTPLength = 4

var otpRe = regexp.MustCompile(`^\d{4}$`)

// ErrMalformedOTP rejects codes that are not exactly four digits, before
// any store lookup happens.
var ErrMalformedOTP = errors.New("Please enter a 4-digit code")

// ValidateOTPFormat checks the shape of a presented code.
func ValidateOTPFormat(code string) error {
	if !otpRe.MatchString(code) {
		return ErrMalformedOTP
	}
	return nil
}
