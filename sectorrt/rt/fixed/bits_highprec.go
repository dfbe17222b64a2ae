//go:build fixedhighprec

package fixed

// Fixed16 is a signed 44.20 fixed point value. The wider layout trades the
// bit-exact DOS output for extra precision at high resolutions.
type Fixed16 = int64

const (
	FracBits      = 20
	One16         = Fixed16(0x100000)
	Half16        = Fixed16(0x80000)
	SubTexelShift = 10
	FloatScale    = 1048576.0
)
