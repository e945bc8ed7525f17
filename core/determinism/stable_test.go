package determinism

import (
	"math"
	"testing"
)

func TestHashTableIgnoresInsertionOrder(t *testing.T) {
	a := map[string]float64{}
	a["mtpl"] = 400
	a["casco_basic_100"] = 900

	b := map[string]float64{}
	b["casco_basic_100"] = 900
	b["mtpl"] = 400

	if HashTable(a) != HashTable(b) {
		t.Error("equal tables must hash equally")
	}

	b["mtpl"] = 400.0000001
	if HashTable(a) == HashTable(b) {
		t.Error("different tables must hash differently")
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   string
	}{
		{400, 6, "400.000000"},
		{2571.4285714285716, 6, "2571.428571"},
		{0.125, 2, "0.13"},
		{math.Inf(1), 2, "+Inf"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in, tt.places); got != tt.want {
			t.Errorf("FormatPrice(%v, %d) = %s, want %s", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("unexpected order %v", keys)
	}

	var seen []string
	RangeMapSorted(map[string]int{"y": 1, "x": 2}, func(k string, _ int) bool {
		seen = append(seen, k)
		return true
	})
	if len(seen) != 2 || seen[0] != "x" {
		t.Errorf("unexpected iteration %v", seen)
	}
}
