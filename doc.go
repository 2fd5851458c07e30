// Package xsum computes the exact, correctly-rounded sum of a sequence of
// binary64 values: bit-identical to summing with unbounded precision and
// rounding once, ties-to-even, independent of the order values are added in.
//
// It implements Radford M. Neal's superaccumulator summation as two
// alternative accumulators with identical arithmetic semantics:
// SmallAccumulator, a compact fixed-size accumulator suited to short or
// infrequent sums, and LargeAccumulator, a larger indexed table that
// amortizes per-value work for long sums. Both return the same bits for
// the same multiset of inputs.
package xsum
