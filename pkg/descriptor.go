package pkg

import (
	"fmt"
	"strings"
)

// DescriptorSeparator is the reserved token between descriptor segments.
// It is multi-character on purpose so it cannot collide with entity text.
const DescriptorSeparator = "|SEP|"

// descriptorSegments is the fixed segment count: quantity, stock, price.
const descriptorSegments = 3

// OrderDescriptor is the canonical, normalized trade order for one turn.
// Fields are already unit-stripped and canonicalized by the entity
// normalizer; an empty string means the field is absent. The value is
// stack-local to a turn and never persisted.
type OrderDescriptor struct {
	Quantity string `json:"quantity,omitempty"`
	Stock    string `json:"stock,omitempty"`
	Price    string `json:"price,omitempty"`
}

// Complete reports whether all three fields are present. This is the
// completeness invariant for emitting any downstream trade event: no
// partial order ever leaves the core.
func (d OrderDescriptor) Complete() bool {
	return d.Quantity != "" && d.Stock != "" && d.Price != ""
}

// Serialize joins the three fields in fixed order with the reserved
// separator. Absent fields serialize to empty segments, never to
// placeholder words.
func (d OrderDescriptor) Serialize() string {
	return strings.Join([]string{d.Quantity, d.Stock, d.Price}, DescriptorSeparator)
}

// ParseDescriptor splits a serialized descriptor back into its three
// (possibly empty) fields.
func ParseDescriptor(s string) (OrderDescriptor, error) {
	parts := strings.Split(s, DescriptorSeparator)
	if len(parts) != descriptorSegments {
		return OrderDescriptor{}, fmt.Errorf("malformed order descriptor: expected %d segments, got %d", descriptorSegments, len(parts))
	}
	return OrderDescriptor{
		Quantity: parts[0],
		Stock:    parts[1],
		Price:    parts[2],
	}, nil
}
