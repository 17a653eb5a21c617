package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// AmountMaxDigits is the total number of digits an amount may carry.
	AmountMaxDigits = 10
	// AmountDecimalPlaces is the maximum number of fractional digits.
	AmountDecimalPlaces = 2
)

var (
	ErrAmountTooManyDigits   = errors.New("Ensure that there are no more than 10 digits in total.")
	ErrAmountTooManyDecimals = errors.New("Ensure that there are no more than 2 decimal places.")
	ErrAmountTooManyWhole    = errors.New("Ensure that there are no more than 8 digits before the decimal point.")
)

// Expense is a single spending record. UserID is the owner and never changes
// after creation.
type Expense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user"`
	CategoryID  int64           `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
}

// ValidateAmount checks the precision limits of an expense amount. It counts
// coefficient digits against the exponent and never rescales.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	digits := strings.TrimPrefix(amount.Coefficient().String(), "-")
	exp := int(amount.Exponent())
	// Trailing zeros beyond the allowed scale carry no information.
	for exp < -AmountDecimalPlaces && strings.HasSuffix(digits, "0") {
		digits = digits[:len(digits)-1]
		exp++
	}
	if exp < -AmountDecimalPlaces {
		return ErrAmountTooManyDecimals
	}

	places := 0
	if exp < 0 {
		places = -exp
	}
	integerDigits := len(digits) + exp
	if integerDigits < 0 {
		integerDigits = 0
	}
	if integerDigits+places > AmountMaxDigits {
		return ErrAmountTooManyDigits
	}
	if integerDigits > AmountMaxDigits-AmountDecimalPlaces {
		return ErrAmountTooManyWhole
	}
	return nil
}

// MarshalJSON writes the amount with exactly AmountDecimalPlaces places.
func (e Expense) MarshalJSON() ([]byte, error) {
	type plain Expense
	return json.Marshal(struct {
		plain
		Amount string `json:"amount"`
	}{
		plain:  plain(e),
		Amount: e.Amount.StringFixed(AmountDecimalPlaces),
	})
}
