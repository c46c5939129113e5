package vesting

const (
	smallFundingLimit = 10000
	largeFundingLimit = 50000
)

// SizeOf buckets a funding amount: small < 10,000 ≤ medium ≤ 50,000 < large.
func SizeOf(fundingUSD float64) SizeBucket {
	if fundingUSD < smallFundingLimit {
		return SizeSmall
	}
	if fundingUSD <= largeFundingLimit {
		return SizeMedium
	}
	return SizeLarge
}

// Cumulative returns the running sum of values.
func Cumulative(values []float64) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}

// Percent returns part/whole on a 0-100 scale; a zero whole yields 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
