// SPDX-License-Identifier: MIT
package analysis

import "math"

// sampleRing is a fixed-capacity FIFO window of normalized audio
// samples. Appending past capacity evicts the oldest samples, so the
// ring always holds the most recent window of the input stream. Not
// safe for concurrent use; the owning Analyzer serializes access.
type sampleRing struct {
	data []float64
	head int // Index of the oldest sample
	fill int // Number of valid samples, 0..len(data)
}

func newSampleRing(capacity int) *sampleRing {
	return &sampleRing{data: make([]float64, capacity)}
}

// Append adds samples in order, evicting the oldest on overflow.
// An empty input is a no-op. Chunks larger than the capacity keep only
// their trailing window.
func (r *sampleRing) Append(samples []float64) {
	capacity := len(r.data)
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}
	for _, s := range samples {
		tail := (r.head + r.fill) % capacity
		r.data[tail] = s
		if r.fill < capacity {
			r.fill++
		} else {
			r.head = (r.head + 1) % capacity // Overwrote the oldest
		}
	}
}

// CopyTo writes the buffered samples oldest-first into dest and returns
// the number copied. Remaining dest entries are left untouched.
func (r *sampleRing) CopyTo(dest []float64) int {
	n := r.fill
	if n > len(dest) {
		n = len(dest)
	}
	for i := 0; i < n; i++ {
		dest[i] = r.data[(r.head+i)%len(r.data)]
	}
	return n
}

// rms returns the root mean square of the buffered samples, or 0.0
// when the ring is empty.
func (r *sampleRing) rms() float64 {
	if r.fill == 0 {
		return 0.0
	}
	var sumSquare float64
	for i := 0; i < r.fill; i++ {
		s := r.data[(r.head+i)%len(r.data)]
		sumSquare += s * s
	}
	return math.Sqrt(sumSquare / float64(r.fill))
}

// Clear empties the ring. Idempotent.
func (r *sampleRing) Clear() {
	r.head = 0
	r.fill = 0
}

func (r *sampleRing) Len() int { return r.fill }

func (r *sampleRing) Cap() int { return len(r.data) }
