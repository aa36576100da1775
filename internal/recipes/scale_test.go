package recipes

import "testing"

func TestClampServings(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{25, 25},
		{50, 50},
		{51, 50},
		{999, 50},
	}
	for _, tc := range cases {
		if got := ClampServings(tc.in); got != tc.want {
			t.Errorf("ClampServings(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeBaseDefaultsToOne(t *testing.T) {
	for _, in := range []int{-3, 0} {
		if got := NormalizeBase(in); got != 1 {
			t.Errorf("NormalizeBase(%d) = %d, want 1", in, got)
		}
	}
	if got := NormalizeBase(4); got != 4 {
		t.Errorf("NormalizeBase(4) = %d, want 4", got)
	}
}

func TestScaleAmountRoundsUp(t *testing.T) {
	cases := []struct {
		amount, base, target int
		want                 int
	}{
		{10, 2, 3, 15},  // factor 1.5, exact
		{10, 3, 4, 14},  // 13.33 rounds up
		{1, 2, 1, 1},    // 0.5 rounds up
		{0, 2, 10, 0},   // zero stays zero
		{100, 2, 4, 200},
		{7, 1, 1, 7},
	}
	for _, tc := range cases {
		got := ScaleAmount(tc.amount, tc.base, tc.target)
		if got != tc.want {
			t.Errorf("ScaleAmount(%d, %d, %d) = %d, want %d",
				tc.amount, tc.base, tc.target, got, tc.want)
		}
	}
}

func TestScaleAmountCoercesBadInputs(t *testing.T) {
	// Non-positive base is treated as 1, target is clamped.
	if got := ScaleAmount(10, 0, 2); got != 20 {
		t.Errorf("zero base: got %d, want 20", got)
	}
	if got := ScaleAmount(10, 2, -5); got != 5 {
		t.Errorf("negative target clamps to 1: got %d, want 5", got)
	}
	if got := ScaleAmount(1, 1, 999); got != 50 {
		t.Errorf("huge target clamps to 50: got %d, want 50", got)
	}
}

func TestScaleAmountNeverNegative(t *testing.T) {
	for amount := 0; amount <= 20; amount++ {
		for base := 1; base <= 10; base++ {
			for target := 1; target <= 50; target++ {
				got := ScaleAmount(amount, base, target)
				if got < 0 {
					t.Fatalf("negative result for (%d, %d, %d)", amount, base, target)
				}
				if amount == 0 && got != 0 {
					t.Fatalf("zero amount scaled to %d", got)
				}
				if amount > 0 && got == 0 {
					t.Fatalf("positive amount scaled to zero for (%d, %d, %d)", amount, base, target)
				}
			}
		}
	}
}

func TestScaleLinesKeepsOriginal(t *testing.T) {
	lines := []IngredientLine{
		{ID: 1, Name: "flour", MeasurementUnit: "g", Amount: 100},
		{ID: 2, Name: "salt", MeasurementUnit: "g", Amount: 0},
	}

	scaled := ScaleLines(lines, 2, 3)

	if lines[0].Amount != 100 {
		t.Fatalf("input mutated: %d", lines[0].Amount)
	}
	if scaled[0].Amount != 150 {
		t.Errorf("flour: got %d, want 150", scaled[0].Amount)
	}
	if scaled[1].Amount != 0 {
		t.Errorf("salt: got %d, want 0", scaled[1].Amount)
	}
}
