package aggregate

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := Percentile(values, 50); got != 3 {
		t.Errorf("p50 = %v, want 3", got)
	}
	if got := Percentile(values, 0); got != 1 {
		t.Errorf("p0 = %v, want 1", got)
	}
	if got := Percentile(values, 100); got != 5 {
		t.Errorf("p100 = %v, want 5", got)
	}
}

func TestPercentile_Interpolates(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	// index = 0.25 * 3 = 0.75, between 1 and 2.
	if got := Percentile(values, 25); !almostEqual(got, 1.75) {
		t.Errorf("p25 = %v, want 1.75", got)
	}
}

func TestPercentile_Empty(t *testing.T) {
	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("p50(nil) = %v, want 0", got)
	}
}

func TestPercentile_DoesNotMutate(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 90)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input mutated: %v", values)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{5, 1, 3}); got != 3 {
		t.Errorf("odd median = %v, want 3", got)
	}
	if got := Median([]float64{4, 1, 2, 3}); got != 2.5 {
		t.Errorf("even median = %v, want 2.5", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("empty median = %v, want 0", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("mean = %v, want 2", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("empty mean = %v, want 0", got)
	}
}

func TestStdDev(t *testing.T) {
	got := StdDev([]float64{1, 2, 3, 4, 5})
	want := math.Sqrt(2.5) // sample variance 10/4
	if !almostEqual(got, want) {
		t.Errorf("stddev = %v, want %v", got, want)
	}
	if got := StdDev([]float64{7}); got != 0 {
		t.Errorf("single-value stddev = %v, want 0", got)
	}
}

func TestDurationHistogram(t *testing.T) {
	h := DurationHistogram([]float64{0.5, 1, 4.9, 5, 14, 15, 29, 30, 59, 60, 120})
	want := map[string]int{
		"<1min":    1,
		"1-5min":   2,
		"5-15min":  2,
		"15-30min": 2,
		"30-60min": 2,
		"60min+":   2,
	}
	for label, count := range want {
		if h[label] != count {
			t.Errorf("bucket %s = %d, want %d", label, h[label], count)
		}
	}
}

func TestDurationHistogram_AllBucketsPresent(t *testing.T) {
	h := DurationHistogram(nil)
	if len(h) != len(HistogramBuckets) {
		t.Fatalf("got %d buckets, want %d", len(h), len(HistogramBuckets))
	}
	for _, label := range HistogramBuckets {
		if count, ok := h[label]; !ok || count != 0 {
			t.Errorf("bucket %s = %d,%v, want present and zero", label, count, ok)
		}
	}
}
