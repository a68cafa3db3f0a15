package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateAmount checks that a movement amount is strictly positive
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be greater than zero")
	}

	return nil
}

// ValidateAccountNumber checks that an account number is present
func ValidateAccountNumber(number string) error {
	if number == "" {
		return fmt.Errorf("account number cannot be empty")
	}

	return nil
}

// ValidateDifferentAccounts checks that a transfer does not reference the
// same account on both sides
func ValidateDifferentAccounts(source, target string) error {
	if source == target {
		return fmt.Errorf("source and target accounts must be different")
	}

	return nil
}
