//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"slices"
	"testing"
)

func TestFakerSeed(t *testing.T) {
	if got := NewFakerWithSeed(42).Seed(); got != 42 {
		t.Errorf("Seed() = %d, want 42", got)
	}
	if NewFaker().Seed() == 0 {
		t.Error("NewFaker should pick a non-zero seed")
	}
}

func TestFakerReplay(t *testing.T) {
	original := NewFaker()
	replay := NewFakerWithSeed(original.Seed())

	for i := 0; i < 10; i++ {
		if a, b := original.Float64(), replay.Float64(); a != b {
			t.Fatalf("Draw %d differs on replay: %f != %f", i, a, b)
		}
		if a, b := original.LastName(), replay.LastName(); a != b {
			t.Fatalf("Name %d differs on replay: %s != %s", i, a, b)
		}
	}
}

func TestFakerLastName(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 20; i++ {
		if f.LastName() == "" {
			t.Fatal("LastName returned empty string")
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(10, 20)
		if v < 10 || v > 20 {
			t.Errorf("Int %d not in range [10, 20]", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64()
		if v < 0 || v >= 1 {
			t.Errorf("Float64 %f not in range [0, 1)", v)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(7)
	items := []string{"Finance", "Police", "Fire", "Health"}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		chosen := Choose(f, items)
		if !slices.Contains(items, chosen) {
			t.Fatalf("Choose returned item not in slice: %s", chosen)
		}
		seen[chosen] = true
	}
	if len(seen) != len(items) {
		t.Errorf("Expected every item to be chosen at least once, saw %d", len(seen))
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	if chosen := Choose(f, []string(nil)); chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func BenchmarkChoose(b *testing.B) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < b.N; i++ {
		Choose(f, items)
	}
}
