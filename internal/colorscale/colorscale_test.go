package colorscale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	s, err := New(30.0, 60.2, DefaultLow, DefaultHigh)
	require.NoError(t, err)
	assert.Equal(t, "#9b87db", s.Hex(30.0))
	assert.Equal(t, "#fec84d", s.Hex(60.2))
	assert.Equal(t, "#9b87db", s.Hex(10))
	assert.Equal(t, "#fec84d", s.Hex(99))
}

func TestMidpointBlends(t *testing.T) {
	s, err := New(0, 10, "#000000", "#ffffff")
	require.NoError(t, err)
	c := s.Color(5)
	assert.InDelta(t, 0.5, c.R, 1e-9)
	assert.InDelta(t, 0.5, c.G, 1e-9)
	assert.InDelta(t, 0.5, c.B, 1e-9)
	assert.InDelta(t, 0.25, s.Position(2.5), 1e-9)
}

func TestDegenerateRange(t *testing.T) {
	s, err := New(42, 42, DefaultLow, DefaultHigh)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Position(42))
	assert.Equal(t, "#9b87db", s.Hex(42))
	assert.Equal(t, [5]float64{42, 42, 42, 42, 42}, s.Ticks())
}

func TestTicksUseGlobalRange(t *testing.T) {
	s, err := New(30, 70, DefaultLow, DefaultHigh)
	require.NoError(t, err)
	assert.Equal(t, [5]float64{30, 40, 50, 60, 70}, s.Ticks())
}

func TestInvalidInput(t *testing.T) {
	_, err := New(1, 0, DefaultLow, DefaultHigh)
	assert.Error(t, err)
	_, err = New(0, 1, "purple", DefaultHigh)
	assert.Error(t, err)
	_, err = New(0, 1, DefaultLow, "#12")
	assert.Error(t, err)
}

func TestCSSGradient(t *testing.T) {
	s, err := New(0, 1, DefaultLow, DefaultHigh)
	require.NoError(t, err)
	assert.Equal(t, "linear-gradient(90deg, #9b87db 0%, #fec84d 100%)", s.CSSGradient())
}
