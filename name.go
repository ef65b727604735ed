package bench

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrVariant is returned by ParseName for sub-benchmark identifiers such as
	// repetition aggregates ("BM_Sort/std/1024_mean").
	ErrVariant = errors.New("variant benchmark")

	// ErrMalformedName is wrapped by all ParseName errors for identifiers which
	// are not of the form "<case>/<implementation>/<size>".
	ErrMalformedName = errors.New("malformed benchmark name")
)

// Name is a parsed benchmark identifier.
type Name struct {
	Case string
	Impl string
	Size int
}

// IsVariant reports whether the last segment of id carries a variant marker.
func IsVariant(id string) bool {
	last := id[strings.LastIndexByte(id, '/')+1:]
	return strings.Contains(last, "_")
}

// ParseName splits a benchmark identifier into case, implementation and size.
func ParseName(id string) (Name, error) {
	if IsVariant(id) {
		return Name{}, fmt.Errorf("%q: %w", id, ErrVariant)
	}
	parts := strings.Split(id, "/")
	if len(parts) != 3 {
		return Name{}, fmt.Errorf("%q: %w: want 3 segments, have %d", id, ErrMalformedName, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return Name{}, fmt.Errorf("%q: %w: empty case or implementation", id, ErrMalformedName)
	}
	size, err := ParseSize(parts[2])
	if err != nil {
		return Name{}, fmt.Errorf("%q: %w: %v", id, ErrMalformedName, err)
	}
	return Name{Case: parts[0], Impl: parts[1], Size: size}, nil
}
