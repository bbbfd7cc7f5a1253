package permission

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrInvalidArgument is the base sentinel for caller input errors. The
	// root package aliases it, so subtypes match across package boundaries.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange is returned when a raw bitset value is negative or exceeds
	// the raw value of [All]. Values are never clamped.
	ErrOutOfRange = errors.New("permission bits out of range")
	// ErrInvalidPermission is returned when a permission list contains an
	// undefined permission value. Matches ErrInvalidArgument under errors.Is.
	ErrInvalidPermission = fmt.Errorf("%w: invalid permission", ErrInvalidArgument)
)

// Set is a 64-bit permission bitset. The zero value is the empty set.
//
// Set values are immutable; every operation returns a new Set.
type Set uint64

// FromPermissions builds a Set from named permissions. Order is irrelevant and
// duplicates collapse. An undefined permission value fails with
// [ErrInvalidPermission].
func FromPermissions(perms ...Permission) (Set, error) {
	var s Set
	for _, p := range perms {
		if !p.Valid() {
			return 0, ErrInvalidPermission
		}
		s |= Set(p.Raw())
	}
	return s, nil
}

// FromRaw validates a raw bitset value. Negative values and values above the
// raw value of [All] fail with [ErrOutOfRange]. The comparison is numeric,
// matching the protocol's ALL_PERMISSIONS bound, so reserved offsets below
// the bound pass through untouched.
func FromRaw(raw int64) (Set, error) {
	if raw < 0 {
		return 0, ErrOutOfRange
	}
	if uint64(raw) > uint64(All) {
		return 0, ErrOutOfRange
	}
	return Set(raw), nil
}

// Raw returns the bitwise representation of the set.
func (s Set) Raw() uint64 {
	return uint64(s)
}

// Union returns s | o.
func (s Set) Union(o Set) Set {
	return s | o
}

// Remove returns s with every bit of o cleared.
func (s Set) Remove(o Set) Set {
	return s &^ o
}

// Intersect returns s & o.
func (s Set) Intersect(o Set) Set {
	return s & o
}

// Contains reports whether the named permission bit is present.
func (s Set) Contains(p Permission) bool {
	return p.Valid() && s&Set(p.Raw()) != 0
}

// ContainsAll reports whether every bit of o is present in s.
func (s Set) ContainsAll(o Set) bool {
	return s&o == o
}

// IsEmpty reports whether no bit is set.
func (s Set) IsEmpty() bool {
	return s == 0
}

// Count returns the number of set bits, counting only defined permissions.
func (s Set) Count() int {
	return bits.OnesCount64(uint64(s & All))
}

// List returns the defined permissions present in s, in ascending bit order.
// The result never contains duplicates and is deterministic for a given set.
func (s Set) List() []Permission {
	out := make([]Permission, 0, s.Count())
	for bit := 0; bit < maxBit; bit++ {
		p := Permission(bit)
		if defs[bit] != nil && s&Set(p.Raw()) != 0 {
			out = append(out, p)
		}
	}
	return out
}

// Complement returns the defined permissions NOT present in s: the bitwise
// complement restricted to the valid permission range.
func (s Set) Complement() Set {
	return ^s & All
}
