package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlueprintCeilings(t *testing.T) {
	bp := NewStandardBlueprint(1, 4, 2, 3, 14, 2, 7)

	assert.Equal(t, 4, bp.Ceiling(Ore), "ore ceiling is the most expensive ore recipe")
	assert.Equal(t, 14, bp.Ceiling(Clay))
	assert.Equal(t, 7, bp.Ceiling(Obsidian))
	assert.Equal(t, -1, bp.Ceiling(Geode), "target resource is never capped")

	assert.Equal(t, Vector{3, 14, 0, 0}, bp.Cost(Obsidian))
	assert.Equal(t, Vector{2, 0, 7, 0}, bp.Cost(Geode))
}

func TestBlueprintValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Blueprint)
		wantErr bool
	}{
		{"standard", func(*Blueprint) {}, false},
		{"negative cost", func(b *Blueprint) { b.Costs[Clay][Ore] = -1 }, true},
		{"ore robot needs clay", func(b *Blueprint) { b.Costs[Ore][Clay] = 1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bp := NewStandardBlueprint(7, 2, 3, 3, 8, 3, 12)
			tc.mutate(bp)
			err := bp.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBlueprint))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, 2, 3, 4}
	b := Vector{1, 1, 1, 1}

	assert.Equal(t, Vector{2, 3, 4, 5}, a.Add(b))
	assert.Equal(t, Vector{0, 1, 2, 3}, a.Sub(b))
	assert.Equal(t, Vector{3, 6, 9, 12}, a.Scale(3))
	assert.True(t, a.Covers(b))
	assert.False(t, b.Covers(a))
	assert.False(t, b.Sub(a).NonNegative())
	assert.Equal(t, Vector{1, 2, 9, 4}, a.With(Obsidian, 9))
	assert.Equal(t, Vector{1, 2, 3, 4}, a, "vectors are values")
	assert.Equal(t, "3 ore, 14 clay", Vector{3, 14, 0, 0}.String())
	assert.Equal(t, "nothing", Vector{}.String())
}

func TestParseResource(t *testing.T) {
	for _, r := range AllResources() {
		got, err := ParseResource(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseResource("diamond")
	assert.Error(t, err)
}
