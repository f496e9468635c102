package geost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalDomain_Basics(t *testing.T) {
	d := NewIntervalDomain(3, 7)
	assert.Equal(t, 3, d.Min())
	assert.Equal(t, 7, d.Max())
	assert.Equal(t, 5, d.Count())
	assert.True(t, d.Has(5))
	assert.False(t, d.Has(8))
	assert.Equal(t, "{3..7}", d.String())

	assert.True(t, NewIntervalDomain(4, 3).IsEmpty())
	assert.Panics(t, func() { NewIntervalDomain(4, 3).Min() })
}

func TestIntervalDomain_FromValues(t *testing.T) {
	d := NewDomainFromValues(5, 1, 3, 4, 1)
	assert.Equal(t, "{1,3..5}", d.String())
	assert.Equal(t, []int{1, 3, 4, 5}, d.Values())
	assert.Equal(t, 4, d.Count())
	assert.True(t, NewDomainFromValues().IsEmpty())
	assert.True(t, NewDomainFromValues(2).IsSingleton())
	assert.Equal(t, 2, NewDomainFromValues(2).SingletonValue())
}

func TestIntervalDomain_Narrowing(t *testing.T) {
	d := NewDomainFromValues(1, 2, 3, 7, 8, 9)
	tests := []struct {
		name string
		got  IntervalDomain
		want string
	}{
		{"remove below inside span", d.RemoveBelow(2), "{2..3,7..9}"},
		{"remove below into gap", d.RemoveBelow(5), "{7..9}"},
		{"remove below nothing", d.RemoveBelow(-4), "{1..3,7..9}"},
		{"remove above inside span", d.RemoveAbove(8), "{1..3,7..8}"},
		{"remove above into gap", d.RemoveAbove(6), "{1..3}"},
		{"remove splits span", d.Remove(2), "{1,3,7..9}"},
		{"remove absent", d.Remove(5), "{1..3,7..9}"},
		{"remove everything", d.RemoveAbove(0), "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.String())
		})
	}
	assert.Equal(t, "{1..3,7..9}", d.String(), "receiver must not change")
}

func TestIntervalDomain_Next(t *testing.T) {
	d := NewDomainFromValues(1, 2, 7)
	v, ok := d.Next(2)
	require.True(t, ok)
	assert.Equal(t, 7, v)
	v, ok = d.Next(-10)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = d.Next(7)
	assert.False(t, ok)
}

func TestIntervalDomain_Equal(t *testing.T) {
	assert.True(t, NewDomainFromValues(1, 2, 3).Equal(NewIntervalDomain(1, 3)))
	assert.False(t, NewDomainFromValues(1, 3).Equal(NewIntervalDomain(1, 3)))
}
