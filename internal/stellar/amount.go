package stellar

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits in one token; one stroop is
// 10^-7 tokens.
const Decimals = 7

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountOverflow = errors.New("amount exceeds stroop precision")

	maxStroops = decimal.NewFromInt(math.MaxInt64)
	minStroops = decimal.NewFromInt(math.MinInt64)
)

// ParseAmount converts a decimal token amount to stroops. Digits beyond the
// seventh decimal place are truncated toward zero. Amounts whose stroop
// value does not fit in an int64 are rejected. Sign is preserved so the
// transfer gate can reject non-positive amounts itself.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	stroops := d.Shift(Decimals).Truncate(0)
	if stroops.GreaterThan(maxStroops) || stroops.LessThan(minStroops) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, s)
	}
	return stroops.IntPart(), nil
}

// FormatAmount renders stroops as a decimal token amount with all seven
// fractional digits.
func FormatAmount(stroops int64) string {
	return decimal.New(stroops, -Decimals).StringFixed(Decimals)
}

// BaseFee is the network's minimum per-operation fee in stroops.
const BaseFee int64 = 100

// EstimateFee returns the fee for a single-operation payment.
func EstimateFee() int64 {
	return BaseFee
}
