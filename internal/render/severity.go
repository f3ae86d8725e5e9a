package render

import (
	"math"
	"math/big"
	"strconv"
)

// Tier is the severity bucket derived from a score.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Lower bounds (inclusive) of the HIGH and MEDIUM tiers.
const (
	HighThreshold   = 7.0
	MediumThreshold = 4.0
)

// Classify maps a score to its tier.
func Classify(score float64) Tier {
	switch {
	case score >= HighThreshold:
		return TierHigh
	case score >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Label combines tier and score, e.g. "HIGH • 8.20".
func Label(score float64) string {
	return string(Classify(score)) + " • " + FormatScore(score)
}

// FormatScore formats a score with exactly two decimals. Values that sit exactly
// halfway between two hundredths round away from zero.
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return strconv.FormatFloat(score, 'f', 2, 64)
	}

	scaled := new(big.Rat).Mul(new(big.Rat).SetFloat64(score), big.NewRat(100, 1))
	whole := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	frac := new(big.Rat).Sub(scaled, new(big.Rat).SetInt(whole))
	if frac.Abs(frac).Cmp(big.NewRat(1, 2)) != 0 {
		return strconv.FormatFloat(score, 'f', 2, 64)
	}

	if scaled.Sign() < 0 {
		whole.Sub(whole, big.NewInt(1))
	} else {
		whole.Add(whole, big.NewInt(1))
	}
	return new(big.Rat).SetFrac(whole, big.NewInt(100)).FloatString(2)
}
