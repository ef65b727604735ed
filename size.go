package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizeRE = regexp.MustCompile(`(?i)^([0-9]+)([kmg]?)$`)

// ParseSize parses a benchmark size argument. Google Benchmark prints range
// arguments either as plain integers or with a k, m, g suffix (powers of 1024).
func ParseSize(s string) (int, error) {
	m := sizeRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %v", s, err)
	}
	switch strings.ToLower(m[2]) {
	case "k":
		v *= 1024
	case "m":
		v *= 1024 * 1024
	case "g":
		v *= 1024 * 1024 * 1024
	}
	return v, nil
}
