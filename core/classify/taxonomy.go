package classify

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a taxonomy or part type is malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// PartType is a user-defined classification bucket. Name is the matching token.
type PartType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Taxonomy is an ordered, read-only set of part types.
// It is safe to share between goroutines.
type Taxonomy struct {
	types []PartType
}

// NewTaxonomy validates and copies a provider's part types.
// A nil entry fails with ErrInvalidArgument. Entries with an empty name are
// kept but never match.
func NewTaxonomy(types []*PartType) (Taxonomy, error) {
	out := make([]PartType, 0, len(types))
	for i, pt := range types {
		if pt == nil {
			return Taxonomy{}, fmt.Errorf("%w: part type at index %d is nil", ErrInvalidArgument, i)
		}
		out = append(out, *pt)
	}
	return Taxonomy{types: out}, nil
}

// MustTaxonomy builds a Taxonomy from values, which cannot be nil.
func MustTaxonomy(types ...PartType) Taxonomy {
	out := make([]PartType, len(types))
	copy(out, types)
	return Taxonomy{types: out}
}

// PartTypes returns a copy of the part types in taxonomy order.
func (t Taxonomy) PartTypes() []PartType {
	out := make([]PartType, len(t.types))
	copy(out, t.types)
	return out
}

// Len returns the number of part types.
func (t Taxonomy) Len() int {
	return len(t.types)
}
