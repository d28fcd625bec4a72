package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDescriptor_Serialize(t *testing.T) {
	tests := []struct {
		name       string
		descriptor OrderDescriptor
		want       string
	}{
		{
			name:       "all fields present",
			descriptor: OrderDescriptor{Quantity: "1", Stock: "신한지주", Price: "cp"},
			want:       "1|SEP|신한지주|SEP|cp",
		},
		{
			name:       "missing price serializes to empty segment",
			descriptor: OrderDescriptor{Quantity: "10", Stock: "삼성전자"},
			want:       "10|SEP|삼성전자|SEP|",
		},
		{
			name:       "missing quantity serializes to empty segment",
			descriptor: OrderDescriptor{Stock: "삼성전자", Price: "mp"},
			want:       "|SEP|삼성전자|SEP|mp",
		},
		{
			name:       "empty descriptor is two bare separators",
			descriptor: OrderDescriptor{},
			want:       "|SEP||SEP|",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.descriptor.Serialize())
		})
	}
}

func TestParseDescriptor_RoundTrip(t *testing.T) {
	descriptors := []OrderDescriptor{
		{Quantity: "1", Stock: "신한지주", Price: "cp"},
		{Quantity: "100", Stock: "카카오"},
		{Price: "50000"},
		{},
	}

	for _, want := range descriptors {
		got, err := ParseDescriptor(want.Serialize())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseDescriptor_Malformed(t *testing.T) {
	_, err := ParseDescriptor("only-one-segment")
	assert.Error(t, err)

	_, err = ParseDescriptor("a|SEP|b|SEP|c|SEP|d")
	assert.Error(t, err)
}

func TestOrderDescriptor_Complete(t *testing.T) {
	assert.True(t, OrderDescriptor{Quantity: "1", Stock: "신한지주", Price: "cp"}.Complete())
	assert.False(t, OrderDescriptor{Quantity: "1", Stock: "신한지주"}.Complete())
	assert.False(t, OrderDescriptor{Stock: "신한지주", Price: "cp"}.Complete())
	assert.False(t, OrderDescriptor{}.Complete())
}
