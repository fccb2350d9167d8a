package service

import (
	"fmt"

	appErrors "github.com/noah-isme/admission-offer-api/pkg/errors"
)

// ReferenceAssigner derives per-record reference numbers from a batch offset
// and record position. Stateless and deterministic: regenerating a letter for
// the same batch and index always yields the same reference.
type ReferenceAssigner struct {
	prefix string
}

// NewReferenceAssigner constructs an assigner with the configured prefix.
func NewReferenceAssigner(prefix string) ReferenceAssigner {
	return ReferenceAssigner{prefix: prefix}
}

// For formats the reference number for the record at index within a batch
// starting at offset. The offset must be a four-digit integer and the sum
// must stay within four digits; overflow is rejected, never truncated.
func (a ReferenceAssigner) For(offset, index int) (string, error) {
	if offset < 1000 || offset > 9999 {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("reference offset %d outside 1000..9999", offset))
	}
	if index < 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("record index %d negative", index))
	}
	sum := offset + index
	if sum > 9999 {
		return "", appErrors.Clone(appErrors.ErrReferenceOverflow,
			fmt.Sprintf("reference %d+%d exceeds four digits", offset, index))
	}
	return fmt.Sprintf("%s%04d", a.prefix, sum), nil
}

// Fits reports whether a batch of n records starting at offset stays within
// the four-digit reference space. Callers validate this before generation.
func (a ReferenceAssigner) Fits(offset, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := a.For(offset, n-1)
	return err
}
