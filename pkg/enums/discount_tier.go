package enums

// DiscountTier buckets a discount percentage for badge styling.
type DiscountTier string

const (
	DiscountTierNone   DiscountTier = "none"
	DiscountTierLow    DiscountTier = "low"
	DiscountTierMedium DiscountTier = "medium"
	DiscountTierHigh   DiscountTier = "high"
)

// String implements fmt.Stringer.
func (d DiscountTier) String() string {
	return string(d)
}

// DiscountTierFor maps a nullable percentage onto its tier: above 30 is high,
// 20 through 30 is medium, anything else low.
func DiscountTierFor(pct *float64) DiscountTier {
	switch {
	case pct == nil:
		return DiscountTierNone
	case *pct > 30:
		return DiscountTierHigh
	case *pct >= 20:
		return DiscountTierMedium
	default:
		return DiscountTierLow
	}
}
