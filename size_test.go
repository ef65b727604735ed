package bench

import (
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in string
		v  int
	}{
		{"0", 0},
		{"82", 82},
		{"1024", 1024},
		{"8k", 8 * 1024},
		{"8K", 8 * 1024},
		{"2m", 2 * 1024 * 1024},
		{"1g", 1024 * 1024 * 1024},
	}
	for _, test := range tests {
		s, err := ParseSize(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if s != test.v {
			t.Errorf("%q: got %d, want %d", test.in, s, test.v)
		}
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, in := range []string{"", "-1", "1.5", "10_mean", "kb", "12 k", "x"} {
		if v, err := ParseSize(in); err == nil {
			t.Errorf("%q: expected error, got %d", in, v)
		}
	}
}
