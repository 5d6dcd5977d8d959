package effects

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

const (
	// ln2 is the natural logarithm of 2, used for log base conversions.
	ln2 = 0.693147180559945309417232121458

	// log2Of10Div20 converts decibels to the log2 domain: log2(10) / 20.
	log2Of10Div20 = 0.166096404744
)

// mathLog2 computes log2(x) via the fixed approximation kernel. The gain
// computers run on this one code path so rendered output does not depend
// on the host libm.
func mathLog2(x float64) float64 {
	return approx.FastLog(x) / ln2
}

// mathPower2 computes 2^x via the fixed approximation kernel.
func mathPower2(x float64) float64 {
	return approx.FastExp(x * ln2)
}

// mathPower10 computes 10^x. Only used at construction time for gain
// constants, never per sample.
func mathPower10(x float64) float64 {
	return math.Pow(10, x)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
