package stats

import "math"

// Moments accumulates the count, mean, variance, root mean square and maximum
// of a stream of values, using Welford's update for mean and variance.
type Moments struct {
	n     uint64
	mean  float64
	m2    float64
	sumSq float64
	max   float64
}

// Add adds x to the stream.
func (m *Moments) Add(x float64) {
	m.n++
	d := x - m.mean
	m.mean += d / float64(m.n)
	m.m2 += d * (x - m.mean)
	m.sumSq += x * x
	if m.n == 1 || x > m.max {
		m.max = x
	}
}

// Count returns the number of values added.
func (m *Moments) Count() uint64 {
	return m.n
}

// Mean returns the arithmetic mean, undefined for an empty stream.
func (m *Moments) Mean() Value {
	if m.n == 0 {
		return Value{}
	}
	return Some(m.mean)
}

// Std returns the population standard deviation.
func (m *Moments) Std() Value {
	if m.n == 0 {
		return Value{}
	}
	return Some(math.Sqrt(m.m2 / float64(m.n)))
}

// RMS returns the root mean square.
func (m *Moments) RMS() Value {
	if m.n == 0 {
		return Value{}
	}
	return Some(math.Sqrt(m.sumSq / float64(m.n)))
}

// Max returns the largest value added.
func (m *Moments) Max() Value {
	if m.n == 0 {
		return Value{}
	}
	return Some(m.max)
}

// Reset empties m.
func (m *Moments) Reset() {
	*m = Moments{}
}
