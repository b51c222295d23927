package demand

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func col(vals ...any) []*float64 {
	out := make([]*float64, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case int:
			out[i] = fp(float64(x))
		case float64:
			out[i] = fp(x)
		case nil:
			out[i] = nil
		}
	}
	return out
}

func TestClampColumn(t *testing.T) {
	got := ClampColumn(col(-5, 0, 50, 150, nil))
	want := []any{0.0, 0.0, 50.0, 100.0, nil}
	for i, w := range want {
		if w == nil {
			if got[i] != nil {
				t.Errorf("index %d = %v, want nil", i, *got[i])
			}
			continue
		}
		if got[i] == nil || *got[i] != w.(float64) {
			t.Errorf("index %d = %v, want %v", i, got[i], w)
		}
	}
}

func TestRatioColumn(t *testing.T) {
	got := RatioColumn(col(0.12, 1.0, 45, 150, nil))
	want := []float64{12, 100, 45, 100}
	for i, w := range want {
		if got[i] == nil || *got[i] != w {
			t.Errorf("index %d = %v, want %v", i, got[i], w)
		}
	}
	if got[4] != nil {
		t.Errorf("absent value should stay absent, got %v", *got[4])
	}
}

func TestPercentileScaleLinear(t *testing.T) {
	got := PercentileScale(col(10, 20, 30, nil), ScaleOptions{})
	want := []float64{0, 50, 100}
	for i, w := range want {
		if got[i] == nil || math.Abs(*got[i]-w) > 1e-9 {
			t.Errorf("index %d = %v, want %v", i, got[i], w)
		}
	}
	if got[3] != nil {
		t.Errorf("absent value should stay absent")
	}
}

func TestPercentileScaleBiasInvariant(t *testing.T) {
	base := PercentileScale(col(3, 9, 27), ScaleOptions{})
	shifted := PercentileScale(col(1003, 1009, 1027), ScaleOptions{})
	for i := range base {
		if math.Abs(*base[i]-*shifted[i]) > 1e-9 {
			t.Errorf("index %d: base %v != shifted %v", i, *base[i], *shifted[i])
		}
	}
}

func TestPercentileScaleLogMonotonic(t *testing.T) {
	raw := col(0, 5, 500, 100000, 2)
	got := PercentileScale(raw, ScaleOptions{Log: true})
	for i := range raw {
		for j := range raw {
			if *raw[i] < *raw[j] && *got[i] > *got[j] {
				t.Errorf("order violated: raw %v < %v but scaled %v > %v",
					*raw[i], *raw[j], *got[i], *got[j])
			}
		}
	}
	// Log compression keeps small values visible next to a huge outlier.
	if *got[1] <= 0 {
		t.Errorf("log scaling should keep 5 above the floor, got %v", *got[1])
	}
}

func TestPercentileScaleReverse(t *testing.T) {
	// Lower rank is better, so rank 1 maps high and rank 50 maps low.
	got := PercentileScale(col(1, 10, 50), ScaleOptions{Reverse: true})
	if *got[0] != 100 || *got[2] != 0 {
		t.Errorf("reverse scale = %v %v %v", *got[0], *got[1], *got[2])
	}
}

func TestPercentileScaleDegenerateRangeMapsToMidpoint(t *testing.T) {
	got := PercentileScale(col(500, 500, nil, 500), ScaleOptions{Log: true})
	for i := range got {
		if i == 2 {
			if got[i] != nil {
				t.Errorf("absent value should stay absent")
			}
			continue
		}
		if got[i] == nil || *got[i] != 50 {
			t.Errorf("index %d = %v, want 50", i, got[i])
		}
	}
}

func TestPercentileScaleSinglePresentValue(t *testing.T) {
	got := PercentileScale(col(nil, 42, nil), ScaleOptions{})
	if got[1] == nil || *got[1] != 50 {
		t.Errorf("single present value = %v, want 50", got[1])
	}
}

func TestPercentileScaleAllAbsent(t *testing.T) {
	got := PercentileScale(col(nil, nil), ScaleOptions{Log: true, Reverse: true})
	for i, v := range got {
		if v != nil {
			t.Errorf("index %d = %v, want nil", i, *v)
		}
	}
}

func TestPercentileScaleNegativeFlooredBeforeLog(t *testing.T) {
	// Negative counts are data glitches; they floor to 0 before log1p.
	got := PercentileScale(col(-10, 0, 100), ScaleOptions{Log: true})
	if *got[0] != *got[1] {
		t.Errorf("floored values should scale equally: %v vs %v", *got[0], *got[1])
	}
}

func TestPercentileScaleRangeBounds(t *testing.T) {
	got := PercentileScale(col(1, 7, 3, 9, 2, nil, 8), ScaleOptions{Log: true})
	for i, v := range got {
		if v == nil {
			continue
		}
		if *v < 0 || *v > 100 {
			t.Errorf("index %d = %v out of [0,100]", i, *v)
		}
	}
}
