//go:build !fixedhighprec

package fixed

// Fixed16 is a signed 16.16 fixed point value.
type Fixed16 = int32

const (
	FracBits      = 16
	One16         = Fixed16(0x10000)
	Half16        = Fixed16(0x8000)
	SubTexelShift = 6
	FloatScale    = 65536.0
)
