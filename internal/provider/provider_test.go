package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	t.Run("bits are distinct", func(t *testing.T) {
		seen := Mask(0)
		for _, p := range All() {
			assert.Zero(t, seen&p.Bit(), "bit of %s overlaps", p)
			seen |= p.Bit()
		}
		assert.Equal(t, MaskAll, seen)
	})

	t.Run("providers of mask", func(t *testing.T) {
		m := MaskOf(KUL, Artportalen)
		assert.Equal(t, []DataProvider{Artportalen, KUL}, m.Providers())
		assert.True(t, m.Has(KUL))
		assert.False(t, m.Has(SHARK))
		assert.False(t, m.Has(DataProvider(42)))
	})
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		in   string
		want Mask
	}{
		{"all", MaskAll},
		{"", MaskAll},
		{"1", MaskOf(Artportalen)},
		{"0x5", MaskOf(Artportalen, KUL)},
		{"Artportalen,kul", MaskOf(Artportalen, KUL)},
		{" shark ", MaskOf(SHARK)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMask(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseMask("Artportalen,Nope")
		assert.Error(t, err)
	})

	t.Run("unknown bits", func(t *testing.T) {
		_, err := ParseMask("1024")
		assert.Error(t, err)
	})
}

func TestProviderAttributes(t *testing.T) {
	assert.Equal(t, StrategyPartitioned, Artportalen.Strategy())
	assert.Equal(t, StrategySequential, KUL.Strategy())
	assert.False(t, Artportalen.RequiresAreaHarvest())
	assert.True(t, ClamPortal.RequiresAreaHarvest())
	assert.Equal(t, "SERSObservationVerbatim", SERS.HarvestInfoID())
}
