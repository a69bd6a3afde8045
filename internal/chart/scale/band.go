package scale

// Band divides a continuous range into uniform bands, one per domain value.
// A reversed range (r0 > r1) places the first domain value at the far end.
type Band struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
	reversed  bool
}

// NewBand returns a band scale with equal inner and outer padding, centered.
func NewBand(domain []string, r0, r1, padding float64) *Band {
	b := &Band{domain: append([]string(nil), domain...), index: make(map[string]int, len(domain))}
	for i, d := range b.domain {
		if _, dup := b.index[d]; !dup {
			b.index[d] = i
		}
	}
	lo, hi := r0, r1
	if r1 < r0 {
		lo, hi = r1, r0
		b.reversed = true
	}
	n := float64(len(b.domain))
	denom := n - padding + 2*padding
	if denom < 1 {
		denom = 1
	}
	b.step = (hi - lo) / denom
	b.bandwidth = b.step * (1 - padding)
	b.start = lo + (hi-lo-b.step*(n-padding))*0.5
	return b
}

// Map returns the band start for name; ok is false for unknown names.
func (b *Band) Map(name string) (float64, bool) {
	i, ok := b.index[name]
	if !ok {
		return 0, false
	}
	if b.reversed {
		i = len(b.domain) - 1 - i
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth is the width of each band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between consecutive band starts.
func (b *Band) Step() float64 { return b.step }

// Domain returns a copy of the domain.
func (b *Band) Domain() []string {
	return append([]string(nil), b.domain...)
}
