package geost

// domain.go: immutable integer interval domains used by the Store.

import (
	"sort"
	"strconv"
	"strings"
)

// span is a closed interval [lo, hi].
type span struct{ lo, hi int }

// IntervalDomain is an immutable set of integers kept as sorted, disjoint,
// non-adjacent closed intervals. Unlike a bitset it represents negative
// values and wide coordinate ranges in constant space.
//
// All operations return new domains; the receiver is never modified, so
// domains may be shared freely between store nodes.
type IntervalDomain struct {
	spans []span
}

// NewIntervalDomain returns the domain {lo..hi}. It is empty when lo > hi.
func NewIntervalDomain(lo, hi int) IntervalDomain {
	if lo > hi {
		return IntervalDomain{}
	}
	return IntervalDomain{spans: []span{{lo, hi}}}
}

// NewDomainFromValues returns the domain containing exactly the given values.
func NewDomainFromValues(values ...int) IntervalDomain {
	if len(values) == 0 {
		return IntervalDomain{}
	}
	vs := append([]int(nil), values...)
	sort.Ints(vs)
	spans := []span{{vs[0], vs[0]}}
	for _, v := range vs[1:] {
		last := &spans[len(spans)-1]
		if v <= last.hi+1 {
			last.hi = max(last.hi, v)
			continue
		}
		spans = append(spans, span{v, v})
	}
	return IntervalDomain{spans: spans}
}

// IsEmpty reports whether the domain has no values.
func (d IntervalDomain) IsEmpty() bool { return len(d.spans) == 0 }

// Min returns the smallest value. Panics on an empty domain.
func (d IntervalDomain) Min() int {
	if d.IsEmpty() {
		panic("IntervalDomain.Min: empty domain")
	}
	return d.spans[0].lo
}

// Max returns the largest value. Panics on an empty domain.
func (d IntervalDomain) Max() int {
	if d.IsEmpty() {
		panic("IntervalDomain.Max: empty domain")
	}
	return d.spans[len(d.spans)-1].hi
}

// Count returns the number of values in the domain.
func (d IntervalDomain) Count() int {
	n := 0
	for _, s := range d.spans {
		n += s.hi - s.lo + 1
	}
	return n
}

// IsSingleton reports whether the domain holds exactly one value.
func (d IntervalDomain) IsSingleton() bool {
	return len(d.spans) == 1 && d.spans[0].lo == d.spans[0].hi
}

// SingletonValue returns the only value. Panics if d is not a singleton.
func (d IntervalDomain) SingletonValue() int {
	if !d.IsSingleton() {
		panic("IntervalDomain.SingletonValue: domain is not a singleton")
	}
	return d.spans[0].lo
}

// Has reports whether v belongs to the domain.
func (d IntervalDomain) Has(v int) bool {
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].hi >= v })
	return i < len(d.spans) && d.spans[i].lo <= v
}

// Next returns the smallest value strictly greater than v.
func (d IntervalDomain) Next(v int) (int, bool) {
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].hi > v })
	if i == len(d.spans) {
		return 0, false
	}
	return max(d.spans[i].lo, v+1), true
}

// RemoveBelow returns the domain without the values < t.
func (d IntervalDomain) RemoveBelow(t int) IntervalDomain {
	if d.IsEmpty() || t <= d.Min() {
		return d
	}
	out := make([]span, 0, len(d.spans))
	for _, s := range d.spans {
		if s.hi < t {
			continue
		}
		out = append(out, span{max(s.lo, t), s.hi})
	}
	return IntervalDomain{spans: out}
}

// RemoveAbove returns the domain without the values > t.
func (d IntervalDomain) RemoveAbove(t int) IntervalDomain {
	if d.IsEmpty() || t >= d.Max() {
		return d
	}
	out := make([]span, 0, len(d.spans))
	for _, s := range d.spans {
		if s.lo > t {
			break
		}
		out = append(out, span{s.lo, min(s.hi, t)})
	}
	return IntervalDomain{spans: out}
}

// Remove returns the domain without v.
func (d IntervalDomain) Remove(v int) IntervalDomain {
	if !d.Has(v) {
		return d
	}
	out := make([]span, 0, len(d.spans)+1)
	for _, s := range d.spans {
		if v < s.lo || v > s.hi {
			out = append(out, s)
			continue
		}
		if s.lo < v {
			out = append(out, span{s.lo, v - 1})
		}
		if v < s.hi {
			out = append(out, span{v + 1, s.hi})
		}
	}
	return IntervalDomain{spans: out}
}

// Values lists every value in ascending order.
func (d IntervalDomain) Values() []int {
	out := make([]int, 0, d.Count())
	for _, s := range d.spans {
		for v := s.lo; v <= s.hi; v++ {
			out = append(out, v)
		}
	}
	return out
}

// Equal reports whether both domains hold the same values.
func (d IntervalDomain) Equal(o IntervalDomain) bool {
	if len(d.spans) != len(o.spans) {
		return false
	}
	for i := range d.spans {
		if d.spans[i] != o.spans[i] {
			return false
		}
	}
	return true
}

// String renders the domain as {1,3..5}.
func (d IntervalDomain) String() string {
	parts := make([]string, len(d.spans))
	for i, s := range d.spans {
		if s.lo == s.hi {
			parts[i] = strconv.Itoa(s.lo)
		} else {
			parts[i] = strconv.Itoa(s.lo) + ".." + strconv.Itoa(s.hi)
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}
