package xsum

import "math"

// LargeAccumulator is a superaccumulator indexed directly by the 12-bit
// sign+exponent field of an addend's bit pattern. Each index owns a raw
// 64-bit chunk and a small add-budget counter; when the budget expires,
// the chunk is condensed into an embedded SmallAccumulator. This amortizes
// per-value work to a single decrement, compare, and (wrapping) add, at
// the cost of a much larger table than SmallAccumulator alone.
//
// The zero value is not ready to use; call NewLargeAccumulator.
type LargeAccumulator struct {
	chunk      [lchunks]uint64        // raw bit-pattern sums, indexed by sign+exponent
	count      [lchunks]int32         // remaining budget per chunk, or -1 if unused/special
	chunksUsed [lchunks / 64]uint64   // bitmap: bit set iff the corresponding chunk index is live
	usedUsed   uint64                 // bitmap of bitmap: bit set iff the corresponding chunksUsed word is non-zero
	sacc       SmallAccumulator       // accumulator that live chunks are condensed into
}

// NewLargeAccumulator returns an empty large accumulator.
func NewLargeAccumulator() *LargeAccumulator {
	a := &LargeAccumulator{}
	for i := range a.count {
		a.count[i] = -1
	}
	a.sacc = SmallAccumulator{addsUntilPropagate: smallCarryTerms}
	return a
}

// Clear restores the accumulator to its initial, empty state.
func (a *LargeAccumulator) Clear() {
	*a = LargeAccumulator{}
	for i := range a.count {
		a.count[i] = -1
	}
	a.sacc = SmallAccumulator{addsUntilPropagate: smallCarryTerms}
}

// Add folds a single value into the accumulator.
func (a *LargeAccumulator) Add(v float64) {
	a.sacc.incrementWhenValueAdded(v)

	uintv := math.Float64bits(v)
	ix := int(uintv >> uint(mantissaBits))

	count := a.count[ix] - 1
	if count < 0 {
		a.largeAddValueInfNaN(ix, uintv)
		return
	}
	a.count[ix] = count
	a.chunk[ix] += uintv
}

// AddList folds a slice of values into the accumulator.
func (a *LargeAccumulator) AddList(vs []float64) {
	for _, v := range vs {
		a.Add(v)
	}
}

// largeAddValueInfNaN handles a chunk whose budget has gone negative: it
// is either an Inf/NaN-exponent slot, an uninitialized slot, or one whose
// budget has just expired and needs condensing before it can be reused.
func (a *LargeAccumulator) largeAddValueInfNaN(ix int, uintv uint64) {
	if int64(ix)&expMask == expMask {
		a.sacc.addInfNaN(int64(uintv))
		return
	}
	a.addChunkToSmall(ix)
	a.count[ix]--
	a.chunk[ix] += uintv
}

// addChunkToSmall condenses chunk[ix], interpreted as a sum of raw binary64
// bit patterns sharing a sign+exponent index, into three adjacent chunks of
// the embedded SmallAccumulator, then reinitializes the slot.
func (a *LargeAccumulator) addChunkToSmall(ix int) {
	count := a.count[ix]
	if count >= 0 {
		if a.sacc.addsUntilPropagate == 0 {
			a.sacc.carryPropagate()
		}

		chunk := a.chunk[ix]

		// If the slot wasn't filled to its full budget, the sum of sign and
		// exponent bits (all identical, equal to ix) hasn't yet overflowed
		// out the top on its own; force that overflow by adding the count
		// of additional terms times the index, shifted into place.
		if count > 0 {
			chunk += uint64(count) * uint64(ix) << uint(mantissaBits)
		}

		exp := int64(ix) & expMask
		lowExp := exp & lowExpMask
		highExp := int(exp >> lowExpBits)
		if exp == 0 {
			lowExp = 1
			highExp = 0
		}

		lowChunk := int64(chunk<<uint(lowExp)) & lowMantissaMask
		mid := chunk >> uint(lowMantissaBits-lowExp)
		if exp != 0 {
			// Credit the implicit-1 bit of every normalized addend folded
			// into this slot; it was never stored as a mantissa bit.
			mid += uint64(int64(1)<<lcountBits-int64(count)) << uint(mantissaBits-lowMantissaBits+lowExp)
		}
		highChunk := int64(mid >> uint(lowMantissaBits))
		midChunk := int64(mid) & lowMantissaMask

		if ix&(1<<expBits) != 0 {
			a.sacc.chunk[highExp] -= lowChunk
			a.sacc.chunk[highExp+1] -= midChunk
			a.sacc.chunk[highExp+2] -= highChunk
		} else {
			a.sacc.chunk[highExp] += lowChunk
			a.sacc.chunk[highExp+1] += midChunk
			a.sacc.chunk[highExp+2] += highChunk
		}

		a.sacc.addsUntilPropagate--
	}

	a.chunk[ix] = 0
	a.count[ix] = 1 << lcountBits
	a.chunksUsed[ix>>6] |= uint64(1) << uint(ix&0x3f)
	a.usedUsed |= uint64(1) << uint(ix>>6)
}

// transferToSmall condenses every live chunk into the embedded
// SmallAccumulator, walking the used-chunk bitmap guided by the
// bitmap-of-bitmaps so the walk is proportional to chunks actually used.
func (a *LargeAccumulator) transferToSmall() {
	n := len(a.chunksUsed)
	p := 0

	uu := a.usedUsed
	if uu&0xffffffff == 0 {
		uu >>= 32
		p += 32
	}
	if uu&0xffff == 0 {
		uu >>= 16
		p += 16
	}
	if uu&0xff == 0 {
		p += 8
	}

	for {
		var u uint64
		for {
			if p == n {
				return
			}
			u = a.chunksUsed[p]
			if u != 0 {
				break
			}
			p++
		}

		ix := p << 6
		if u&0xffffffff == 0 {
			u >>= 32
			ix += 32
		}
		if u&0xffff == 0 {
			u >>= 16
			ix += 16
		}
		if u&0xff == 0 {
			u >>= 8
			ix += 8
		}

		for {
			if a.count[ix] >= 0 {
				a.addChunkToSmall(ix)
			}
			ix++
			u >>= 1
			if u == 0 {
				break
			}
		}
		p++
		if p >= n {
			return
		}
	}
}

// Sum returns the correctly-rounded binary64 sum of every value added so
// far, ties-to-even. Calling Sum repeatedly with no intervening Add
// returns identical bits.
func (a *LargeAccumulator) Sum() float64 {
	a.transferToSmall()
	return a.sacc.Sum()
}
