// Package amount provides exact conversion between base-unit (wei)
// integer amounts and decimal display amounts. Every comparison and sum
// happens on big.Int base units; binary floating point never enters the
// base-unit path.
package amount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// Decimals is the number of decimal places between base units and display
// units (wei to ether).
const Decimals = 18

// unit is the base-unit scale factor, 10^18.
var unit = new(big.Int).SetUint64(params.Ether)

// ToDisplay converts a base-unit amount to its exact decimal display
// string. Trailing fractional zeros are trimmed ("500000000000000000"
// becomes "0.5"). A nil amount renders as "0".
func ToDisplay(baseUnits *big.Int) string {
	if baseUnits == nil || baseUnits.Sign() == 0 {
		return "0"
	}

	abs := new(big.Int).Abs(baseUnits)
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, unit, frac)

	sign := ""
	if baseUnits.Sign() < 0 {
		sign = "-"
	}

	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return fmt.Sprintf("%s%s.%s", sign, whole.String(), fracStr)
}

// ToBaseUnits converts a non-negative decimal string ("0.3", "12",
// "1.000000000000000001") to an exact base-unit integer. It rejects
// malformed input and fractional parts longer than 18 digits, since those
// cannot be represented in base units.
func ToBaseUnits(decimal string) (*big.Int, error) {
	s := strings.TrimSpace(decimal)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount not allowed: %s", decimal)
	}

	wholePart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		wholePart, fracPart = s[:i], s[i+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return nil, fmt.Errorf("invalid amount: %s", decimal)
		}
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fracPart) > Decimals {
		return nil, fmt.Errorf("amount %s exceeds %d decimal places", decimal, Decimals)
	}

	whole, ok := new(big.Int).SetString(wholePart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", decimal)
	}

	result := new(big.Int).Mul(whole, unit)

	if fracPart != "" {
		// Right-pad the fraction to 18 digits so "3" means 0.3, not 3 wei.
		padded := fracPart + strings.Repeat("0", Decimals-len(fracPart))
		frac, ok := new(big.Int).SetString(padded, 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount: %s", decimal)
		}
		result.Add(result, frac)
	}

	return result, nil
}

// MustBaseUnits is ToBaseUnits for compile-time constants; it panics on
// malformed input.
func MustBaseUnits(decimal string) *big.Int {
	v, err := ToBaseUnits(decimal)
	if err != nil {
		panic(err)
	}
	return v
}

// Sum returns the exact base-unit sum of the given amounts. Nil entries
// count as zero.
func Sum(amounts ...*big.Int) *big.Int {
	total := new(big.Int)
	for _, a := range amounts {
		if a != nil {
			total.Add(total, a)
		}
	}
	return total
}

// ProgressPercent computes raised/target*100 for display purposes only.
// A zero or missing target degrades to 0 rather than dividing by zero.
// Never use this for equality checks; compare base units directly.
func ProgressPercent(raised, target *big.Int) float64 {
	if raised == nil || target == nil || target.Sign() <= 0 {
		return 0
	}
	ratio := new(big.Float).Quo(new(big.Float).SetInt(raised), new(big.Float).SetInt(target))
	pct, _ := new(big.Float).Mul(ratio, big.NewFloat(100)).Float64()
	return pct
}
