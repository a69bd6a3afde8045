// Package scale maps data values onto pixel and color ranges.
package scale

import "math"

// Linear is a continuous linear mapping from Domain to Range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear returns a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map projects v into the range. Values outside the domain extrapolate.
func (s Linear) Map(v float64) float64 {
	d := s.Domain[1] - s.Domain[0]
	if d == 0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	return s.Range[0] + (v-s.Domain[0])/d*(s.Range[1]-s.Range[0])
}

// Invert maps a range value back into the domain.
func (s Linear) Invert(r float64) float64 {
	d := s.Range[1] - s.Range[0]
	if d == 0 {
		return (s.Domain[0] + s.Domain[1]) / 2
	}
	return s.Domain[0] + (r-s.Range[0])/d*(s.Domain[1]-s.Domain[0])
}

// Ticks returns roughly count round values spanning the domain.
func (s Linear) Ticks(count int) []float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if count <= 0 || lo == hi {
		return []float64{lo}
	}
	step := tickStep(lo, hi, count)
	var out []float64
	if step >= 1 {
		for i := math.Ceil(lo / step); i <= math.Floor(hi/step); i++ {
			out = append(out, i*step)
		}
		return out
	}
	inc := math.Round(1 / step)
	for i := math.Ceil(lo * inc); i <= math.Floor(hi*inc); i++ {
		out = append(out, i/inc)
	}
	return out
}

// tickStep picks 1, 2 or 5 times a power of ten.
func tickStep(lo, hi float64, count int) float64 {
	raw := (hi - lo) / float64(count)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	switch e := raw / power; {
	case e >= math.Sqrt(50):
		return power * 10
	case e >= math.Sqrt(10):
		return power * 5
	case e >= math.Sqrt(2):
		return power * 2
	}
	return power
}

// Mean returns the arithmetic mean, ignoring NaN. ok is false when no value
// contributed.
func Mean(values []float64) (mean float64, ok bool) {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Extent returns the minimum and maximum of values.
func Extent(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
