package aggregate

import (
	"math"
	"sort"
)

// Percentile returns the pth percentile of values using linear interpolation
// between closest ranks. Returns 0 for an empty slice.
func Percentile(values []float64, p int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := float64(p) / 100 * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Median returns the middle value, averaging the two central values for
// even-length input.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, or 0 for fewer than two
// values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// Histogram bucket labels, shortest to longest, for rendering in order.
var HistogramBuckets = []string{"<1min", "1-5min", "5-15min", "15-30min", "30-60min", "60min+"}

// DurationHistogram buckets session durations into the fixed label set.
func DurationHistogram(durations []float64) map[string]int {
	buckets := make(map[string]int, len(HistogramBuckets))
	for _, label := range HistogramBuckets {
		buckets[label] = 0
	}
	for _, d := range durations {
		switch {
		case d < 1:
			buckets["<1min"]++
		case d < 5:
			buckets["1-5min"]++
		case d < 15:
			buckets["5-15min"]++
		case d < 30:
			buckets["15-30min"]++
		case d < 60:
			buckets["30-60min"]++
		default:
			buckets["60min+"]++
		}
	}
	return buckets
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
