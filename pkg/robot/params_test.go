package robot

import (
	"math"
	"testing"
)

func TestClampArgument(t *testing.T) {
	tests := []struct {
		raw      any
		min, max int
		def      int
		expected int
	}{
		{"70", 0, 100, 60, 70},
		{"abc", 0, 100, 60, 60},
		{"500", 0, 100, 60, 100},
		{"-10", -100, 100, 0, -10},
		{"-500", -100, 100, 0, -100},
		{"", 0, 100, 60, 60},
		{nil, 0, 100, 60, 60},
		{"  42 ", 0, 100, 60, 42},
		{"70abc", 0, 100, 60, 70},
		{"3.9", 0, 100, 60, 3},
		{"+8", 0, 100, 60, 8},
		{"-", 0, 100, 60, 60},
		{"0x1f", 0, 100, 60, 31},
		{"0x", 0, 100, 60, 60},
		{"99999999999999999999999", 0, 2550, 1200, 2550},
		{"-99999999999999999999999", -100, 100, 0, -100},
		{42, 0, 100, 60, 42},
		{int64(-3), -100, 100, 0, -3},
		{uint8(200), 0, 255, 10, 200},
		{7.8, 0, 100, 60, 7},
		{-7.8, -100, 100, 0, -7},
		{math.NaN(), 0, 100, 60, 60},
		{math.Inf(1), 0, 100, 60, 60},
		{1e30, 0, 100, 60, 100},
		{true, 0, 100, 60, 60},
		{[]byte("12"), 0, 100, 60, 12},
		// default outside the range is clamped too
		{"abc", 0, 100, 128, 100},
	}

	for _, tt := range tests {
		got := ClampArgument(tt.raw, tt.min, tt.max, tt.def)
		if got != tt.expected {
			t.Errorf("ClampArgument(%#v, %d, %d, %d) = %d, want %d", tt.raw, tt.min, tt.max, tt.def, got, tt.expected)
		}
	}
}

func TestClampArgument_AlwaysInRange(t *testing.T) {
	ranges := [][3]int{{0, 100, 60}, {-100, 100, 0}, {0, 255, 10}, {0, 2550, 1200}}
	for _, r := range ranges {
		for x := -5000; x <= 5000; x += 37 {
			got := ClampArgument(x, r[0], r[1], r[2])
			if got < r[0] || got > r[1] {
				t.Fatalf("ClampArgument(%d, %d, %d, %d) = %d out of range", x, r[0], r[1], r[2], got)
			}
		}
		if got := ClampArgument("not a number", r[0], r[1], r[2]); got != clamp(r[2], r[0], r[1]) {
			t.Errorf("non-numeric input gave %d, want clamped default %d", got, r[2])
		}
	}
}

func TestParam_Clamp(t *testing.T) {
	p := Param{Name: "height", Arg: "HEIGHT", Min: 0, Max: 100, Default: 60}

	if got := p.Clamp("101"); got != 100 {
		t.Errorf("Clamp(101) = %d, want 100", got)
	}
	if got := p.Clamp(nil); got != 60 {
		t.Errorf("Clamp(nil) = %d, want 60", got)
	}
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		params   []QueryParam
		expected string
	}{
		{nil, ""},
		{[]QueryParam{{"height", 60}}, "?height=60"},
		{[]QueryParam{{"forward", 100}, {"side", -100}, {"turn", 30}}, "?forward=100&side=-100&turn=30"},
	}

	for _, tt := range tests {
		if got := encodeQuery(tt.params); got != tt.expected {
			t.Errorf("encodeQuery(%v) = %q, want %q", tt.params, got, tt.expected)
		}
	}
}
