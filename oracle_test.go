package xsum

import "math/big"

// exactRatSum returns the correctly-rounded binary64 sum of vs, computed by
// accumulating every value as an exact big.Rat and rounding once at the end.
// This is slow but infallible, and serves as the independent reference used
// to check SmallAccumulator and LargeAccumulator against small and
// medium-sized inputs in the tests below.
func exactRatSum(vs []float64) float64 {
	total := new(big.Rat)
	for _, v := range vs {
		r := new(big.Rat).SetFloat64(v)
		if r == nil {
			// v is NaN or +/-Inf; big.Rat has no representation for it, and
			// callers of exactRatSum never pass such inputs.
			panic("exactRatSum: non-finite input")
		}
		total.Add(total, r)
	}
	f, _ := new(big.Float).SetRat(total).Float64()
	return f
}

// binnedAdder sums values by keeping one running big.Float per power-of-two
// exponent bin and re-inserting a bin's value into the next bin up whenever
// it outgrows its own, which keeps cancellation from losing precision the
// way plain left-to-right big.Float addition would. It's a good deal
// cheaper than exactRatSum for very long runs of repeated values, at the
// (here, irrelevant) cost of running entirely in big.Float's fixed
// precision rather than exactly.
type binnedAdder struct {
	nonneg []*big.Float // bin index == exponent
	neg    []*big.Float // bin index == -exponent+1
}

func (b *binnedAdder) add(v *big.Float) {
	exp := v.MantExp(nil)
	p := &b.nonneg
	bin := exp
	if exp < 0 {
		p = &b.neg
		bin = -bin + 1
	}
	for len(*p) < bin+1 {
		*p = append(*p, new(big.Float).SetPrec(200))
	}
	a := *p
	a[bin].Add(a[bin], v)
	if exp1 := a[bin].MantExp(nil); exp1 != exp {
		b.add(a[bin])
		a[bin].SetFloat64(0)
	}
}

func (b *binnedAdder) sum() *big.Float {
	var acc stableSum
	for i := range b.nonneg {
		acc.add(b.nonneg[len(b.nonneg)-i-1])
	}
	for _, x := range b.neg {
		acc.add(x)
	}
	return acc.total()
}

// stableSum is a big.Float Kahan-style compensated sum, used to combine
// binnedAdder's per-exponent bins without reintroducing the rounding error
// that motivated binning them in the first place.
type stableSum struct {
	s, c big.Float
}

func (k *stableSum) add(v *big.Float) {
	y := new(big.Float).Sub(v, &k.c)
	t := new(big.Float).Add(&k.s, y)
	k.c.Sub(t, &k.s)
	k.c.Sub(&k.c, y)
	k.s = *t
}

func (k *stableSum) total() *big.Float {
	return &k.s
}

// approxReferenceSum is the oracle for long, repetitive inputs (spec.md's
// "10^6 copies of 0.1" scenario): it still makes one big.Float addition per
// value, but at a fixed 200-bit precision instead of exactRatSum's exact
// big.Rat additions.
func approxReferenceSum(vs []float64) float64 {
	var b binnedAdder
	for _, v := range vs {
		b.add(new(big.Float).SetPrec(200).SetFloat64(v))
	}
	f, _ := b.sum().Float64()
	return f
}
