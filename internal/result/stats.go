package result

import (
	"math"
	"strconv"

	"golang.org/x/text/width"
)

// ExtractNumber returns the first run of decimal digits in text. Full-width
// digits are folded to ASCII first, so "５件" yields 5. It returns nil when
// text holds no digits or the run does not fit in an int.
func ExtractNumber(text string) *int {
	folded := width.Fold.String(text)
	start := -1
	end := len(folded)
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		isDigit := c >= '0' && c <= '9'
		if start < 0 && isDigit {
			start = i
			continue
		}
		if start >= 0 && !isDigit {
			end = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	n, err := strconv.Atoi(folded[start:end])
	if err != nil {
		return nil
	}
	return &n
}

// ComputeStatistics summarises extracted values. It returns nil for no
// values; mean is set from one value, stdev (sample, n-1), min and max from
// two.
func ComputeStatistics(values []int) *Statistics {
	if len(values) == 0 {
		return nil
	}
	vals := append([]int(nil), values...)
	sum := 0.0
	for _, v := range vals {
		sum += float64(v)
	}
	mean := sum / float64(len(vals))
	stats := &Statistics{Mean: &mean, Values: vals}
	if len(vals) < 2 {
		return stats
	}

	var sq float64
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		d := float64(v) - mean
		sq += d * d
		lo = min(lo, v)
		hi = max(hi, v)
	}
	stdev := math.Sqrt(sq / float64(len(vals)-1))
	stats.Stdev = &stdev
	stats.Min = &lo
	stats.Max = &hi
	return stats
}

// ExtractedValues returns the non-nil extracted values of runs, in run order.
func ExtractedValues(runs []RunRecord) []int {
	var vals []int
	for _, r := range runs {
		if r.ExtractedValue != nil {
			vals = append(vals, *r.ExtractedValue)
		}
	}
	return vals
}
