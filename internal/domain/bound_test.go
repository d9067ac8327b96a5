package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinBound_IgnoresUnbounded(t *testing.T) {
	m := MinBound(Bounded(5), Unbounded(), Bounded(3), Unbounded())
	v, ok := m.Value()
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestMinBound_AllUnbounded(t *testing.T) {
	assert.False(t, MinBound(Unbounded(), Unbounded()).IsBounded())
	assert.False(t, MinBound().IsBounded())
}

func TestBound_ZeroValueIsBoundedZero(t *testing.T) {
	var b Bound
	v, ok := b.Value()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestBound_Covers(t *testing.T) {
	assert.True(t, Unbounded().Covers(1e12))
	assert.True(t, Bounded(15).Covers(15))
	assert.False(t, Bounded(14.9).Covers(15))
}

func TestParseBound(t *testing.T) {
	assert.False(t, ParseBound("Infinity").IsBounded())
	assert.False(t, ParseBound("inf").IsBounded())
	assert.False(t, ParseBound("lots").IsBounded())

	v, ok := ParseBound("250.5").Value()
	assert.True(t, ok)
	assert.Equal(t, 250.5, v)
}

func TestBound_String(t *testing.T) {
	assert.Equal(t, "Infinity", Unbounded().String())
	assert.Equal(t, "1000", Bounded(1000).String())
}
