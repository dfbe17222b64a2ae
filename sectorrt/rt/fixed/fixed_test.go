package fixed

import "testing"

func TestIntRoundTrip(t *testing.T) {
	for _, n := range []int32{-32767, -4096, -1, 0, 1, 57, 4096, 32767} {
		if got := Floor16(IntToFixed16(n)); got != n {
			t.Errorf("Floor16(IntToFixed16(%d)) = %d", n, got)
		}
	}
}

func TestMulIdentity(t *testing.T) {
	values := []Fixed16{-One16 * 100, -Half16, -1, 0, 1, Half16, One16, One16 * 100, 0x12345678 >> 4}
	for _, a := range values {
		if got := Mul16(a, One16); got != a {
			t.Errorf("Mul16(%#x, ONE) = %#x", a, got)
		}
		if got := Div16(a, One16); got != a {
			t.Errorf("Div16(%#x, ONE) = %#x", a, got)
		}
	}
}

func TestMul16(t *testing.T) {
	tests := []struct {
		a, b, want Fixed16
	}{
		{IntToFixed16(3), IntToFixed16(4), IntToFixed16(12)},
		{IntToFixed16(-3), IntToFixed16(4), IntToFixed16(-12)},
		{Half16, Half16, One16 / 4},
		{IntToFixed16(1000), IntToFixed16(1000), IntToFixed16(1000000)},
	}
	for _, tc := range tests {
		if got := Mul16(tc.a, tc.b); got != tc.want {
			t.Errorf("Mul16(%#x, %#x) = %#x, want %#x", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDiv16(t *testing.T) {
	tests := []struct {
		num, denom, want Fixed16
	}{
		{IntToFixed16(12), IntToFixed16(4), IntToFixed16(3)},
		{IntToFixed16(-12), IntToFixed16(4), IntToFixed16(-3)},
		{One16, IntToFixed16(2), Half16},
		{IntToFixed16(1), IntToFixed16(3), 0x5555},
	}
	for _, tc := range tests {
		if got := Div16(tc.num, tc.denom); got != tc.want {
			t.Errorf("Div16(%#x, %#x) = %#x, want %#x", tc.num, tc.denom, got, tc.want)
		}
	}
}

func TestFusedMulDiv(t *testing.T) {
	// (a*b)/c with a*b far outside of 32 bit range.
	a := IntToFixed16(3000)
	b := IntToFixed16(5)
	c := IntToFixed16(3)
	want := Div16(Mul16(a, b), c)
	if got := FusedMulDiv(a, b, c); got != want {
		t.Errorf("FusedMulDiv = %#x, want %#x", got, want)
	}
}

func TestFloorRound(t *testing.T) {
	tests := []struct {
		x          Fixed16
		floor, rnd int32
	}{
		{0, 0, 0},
		{One16, 1, 1},
		{One16 + Half16, 1, 2},
		{One16 + Half16 - 1, 1, 1},
		{-One16, -1, -1},
		{-Half16, -1, 0},
		{-Half16 - 1, -1, -1},
	}
	for _, tc := range tests {
		if got := Floor16(tc.x); got != tc.floor {
			t.Errorf("Floor16(%#x) = %d, want %d", tc.x, got, tc.floor)
		}
		if got := Round16(tc.x); got != tc.rnd {
			t.Errorf("Round16(%#x) = %d, want %d", tc.x, got, tc.rnd)
		}
	}
}

func TestFloatAngleToFixed(t *testing.T) {
	if got := FloatAngleToFixed(0); got != 0 {
		t.Errorf("angle 0 = %d", got)
	}
	// Quarter turn maps to 4096 in the legacy unit.
	got := FloatAngleToFixed(3.14159265 / 2)
	if got < 4095 || got > 4096 {
		t.Errorf("quarter turn = %d, want ~4096", got)
	}
}

func TestAbs(t *testing.T) {
	if Abs(-One16) != One16 || Abs(One16) != One16 || Abs(0) != 0 {
		t.Error("Abs misbehaves")
	}
}
