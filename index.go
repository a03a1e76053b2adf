package kukan

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedIndex is wrapped by every error returned when text cannot be
// decoded into an Index.
var ErrMalformedIndex = errors.New("kukan: malformed index")

// Index is a stable handle to a value stored in a Space. It pairs a slot
// position with the generation stamp the slot carried when the value was
// inserted, so a handle whose slot has since been reused is detected at
// lookup time instead of aliasing the new value.
//
// Index is a small comparable value: copy it, store it, use it as a map key.
// It is ordered by position, then generation.
type Index struct {
	position   uint32
	generation uint32
}

// invalidIndex is never returned by an allocation: capacity is capped below
// math.MaxUint32 slots.
var invalidIndex = Index{position: math.MaxUint32, generation: math.MaxUint32}

// InvalidIndex returns the sentinel handle that stands for "no value". It is
// distinguishable from every handle a Space hands out.
func InvalidIndex() Index {
	return invalidIndex
}

// FromRawParts rebuilds an Index from a position and generation previously
// obtained from RawParts.
//
// Parameters:
//   - position: The slot position.
//   - generation: The generation stamp of the slot.
//
// Returns:
//   - The reconstructed Index. Whether it refers to a live value is decided
//     by the Space it is looked up in.
func FromRawParts(position, generation uint32) Index {
	return Index{position: position, generation: generation}
}

// RawParts decomposes the Index into its position and generation, for
// boundaries that cannot carry the opaque type.
func (i Index) RawParts() (position, generation uint32) {
	return i.position, i.generation
}

// Position returns the slot position of the handle.
func (i Index) Position() uint32 {
	return i.position
}

// Generation returns the generation stamp of the handle.
func (i Index) Generation() uint32 {
	return i.generation
}

// IsInvalid reports whether i is the sentinel returned by InvalidIndex.
func (i Index) IsInvalid() bool {
	return i == invalidIndex
}

// Compare returns -1, 0 or +1 depending on whether i sorts before, equal to,
// or after other. Position is compared first, then generation.
func (i Index) Compare(other Index) int {
	if c := cmp.Compare(i.position, other.position); c != 0 {
		return c
	}
	return cmp.Compare(i.generation, other.generation)
}

// Less reports whether i sorts before other.
func (i Index) Less(other Index) bool {
	return i.Compare(other) < 0
}

// String formats the handle as "position:generation".
func (i Index) String() string {
	return string(i.appendText(make([]byte, 0, 21)))
}

func (i Index) appendText(b []byte) []byte {
	b = strconv.AppendUint(b, uint64(i.position), 10)
	b = append(b, ':')
	return strconv.AppendUint(b, uint64(i.generation), 10)
}

// MarshalText implements encoding.TextMarshaler.
func (i Index) MarshalText() ([]byte, error) {
	return i.appendText(nil), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Index) UnmarshalText(text []byte) error {
	idx, err := ParseIndex(string(text))
	if err != nil {
		return err
	}
	*i = idx
	return nil
}

// ParseIndex parses the "position:generation" form produced by String.
//
// Parameters:
//   - s: The text to parse.
//
// Returns:
//   - The parsed Index.
//   - An error wrapping ErrMalformedIndex if s is not two base-10 uint32
//     values separated by a colon.
func ParseIndex(s string) (Index, error) {
	pos, gen, ok := strings.Cut(s, ":")
	if !ok {
		return Index{}, fmt.Errorf("%w: %q: missing separator", ErrMalformedIndex, s)
	}
	p, err := strconv.ParseUint(pos, 10, 32)
	if err != nil {
		return Index{}, fmt.Errorf("%w: %q: position: %w", ErrMalformedIndex, s, err)
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil {
		return Index{}, fmt.Errorf("%w: %q: generation: %w", ErrMalformedIndex, s, err)
	}
	return FromRawParts(uint32(p), uint32(g)), nil
}
