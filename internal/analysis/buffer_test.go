// SPDX-License-Identifier: MIT
package analysis

import "testing"

func TestRingNeverExceedsCapacity(t *testing.T) {
	ring := newSampleRing(8)

	chunks := [][]float64{
		{1, 2, 3},
		{},
		{4, 5, 6, 7, 8},
		{9, 10},
		{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, // Larger than capacity
	}

	for _, chunk := range chunks {
		ring.Append(chunk)
		if ring.Len() > ring.Cap() {
			t.Fatalf("fill %d exceeds capacity %d", ring.Len(), ring.Cap())
		}
	}
}

func TestRingEvictsOldestFirst(t *testing.T) {
	ring := newSampleRing(4)
	ring.Append([]float64{1, 2, 3, 4})
	ring.Append([]float64{5, 6})

	dest := make([]float64, 4)
	n := ring.CopyTo(dest)
	if n != 4 {
		t.Fatalf("CopyTo returned %d, expected 4", n)
	}

	expected := []float64{3, 4, 5, 6}
	for i, want := range expected {
		if dest[i] != want {
			t.Errorf("dest[%d] = %v, expected %v (oldest samples must be evicted first)", i, dest[i], want)
		}
	}
}

func TestRingOversizedChunkKeepsTail(t *testing.T) {
	ring := newSampleRing(3)
	ring.Append([]float64{1, 2, 3, 4, 5, 6, 7})

	dest := make([]float64, 3)
	ring.CopyTo(dest)

	expected := []float64{5, 6, 7}
	for i, want := range expected {
		if dest[i] != want {
			t.Errorf("dest[%d] = %v, expected %v", i, dest[i], want)
		}
	}
}

func TestRingClearIdempotent(t *testing.T) {
	ring := newSampleRing(4)
	ring.Append([]float64{1, 2, 3})

	ring.Clear()
	if ring.Len() != 0 {
		t.Errorf("fill after Clear = %d, expected 0", ring.Len())
	}

	ring.Clear() // Second clear must be harmless
	if ring.Len() != 0 {
		t.Errorf("fill after second Clear = %d, expected 0", ring.Len())
	}

	ring.Append([]float64{9})
	dest := make([]float64, 1)
	if n := ring.CopyTo(dest); n != 1 || dest[0] != 9 {
		t.Errorf("ring unusable after Clear: n=%d dest=%v", n, dest)
	}
}

func TestRingEmptyAppendNoOp(t *testing.T) {
	ring := newSampleRing(4)
	ring.Append(nil)
	ring.Append([]float64{})
	if ring.Len() != 0 {
		t.Errorf("fill = %d after empty appends, expected 0", ring.Len())
	}
}
