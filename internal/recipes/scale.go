package recipes

// Serving bounds for recipes and cart entries.
const (
	MinServings = 1
	MaxServings = 50
)

// ClampServings forces a requested serving count into [1, 50].
func ClampServings(n int) int {
	if n < MinServings {
		return MinServings
	}
	if n > MaxServings {
		return MaxServings
	}
	return n
}

// NormalizeBase substitutes 1 for a missing or non-positive base
// serving count.
func NormalizeBase(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ScaleAmount rescales an ingredient amount from base to target
// servings, rounding up. A zero amount stays zero.
func ScaleAmount(amount, base, target int) int {
	if amount <= 0 {
		return 0
	}
	base = NormalizeBase(base)
	target = ClampServings(target)
	return (amount*target + base - 1) / base
}

// ScaleLines returns a copy of lines with amounts rescaled from base to
// target servings.
func ScaleLines(lines []IngredientLine, base, target int) []IngredientLine {
	scaled := make([]IngredientLine, len(lines))
	for i, line := range lines {
		line.Amount = ScaleAmount(line.Amount, base, target)
		scaled[i] = line
	}
	return scaled
}
