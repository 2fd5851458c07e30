package xsum

import "math"

// Bit layout of a binary64 (IEEE-754 double) value.
const (
	mantissaBits int64 = 52                    // mantissa bits, excluding the implicit 1
	expBits      int64 = 11                    // exponent bits
	mantissaMask int64 = 1<<mantissaBits - 1   // mask for the mantissa field
	expMask      int64 = 1<<expBits - 1        // mask for the exponent field
	expBias      int64 = 1<<(expBits-1) - 1    // bias added to the signed exponent
	signMask     int64 = math.MinInt64         // mask with only the sign bit set
)

// Layout of the small accumulator's chunk array.
const (
	schunkBits       int64 = 64                            // bits in one small-accumulator chunk
	lowExpBits       int64 = 5                              // low-order exponent bits indexing within a chunk pair
	lowExpMask       int64 = 1<<lowExpBits - 1              // mask for the low exponent bits
	highExpBits      int64 = expBits - lowExpBits           // high-order exponent bits, indexing chunks
	schunks          int  = 1<<highExpBits + 3              // number of chunks in the small accumulator
	lowMantissaBits  int64 = 1 << lowExpBits                // bits held in the low part of a split mantissa
	lowMantissaMask  int64 = 1<<lowMantissaBits - 1         // mask for the low mantissa bits
	smallCarryBits   int64 = schunkBits - 1 - mantissaBits  // bits available above the low-mantissa slot
	smallCarryTerms  int64 = 1<<smallCarryBits - 1          // adds permitted before carry propagation
)

// Layout of the large accumulator's chunk table.
const (
	lcountBits int64 = 64 - mantissaBits  // bits in a large-accumulator count
	lchunks    int   = 1 << (expBits + 1) // number of chunks in the large accumulator
)
