//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides the random sources used to synthesize warehouse
// data.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker is the random source of one load. It draws surnames from gofakeit
// and the uniform values behind monthly splits. The seed is always known, so
// a load can be replayed even when it was not given one.
type Faker struct {
	seed  uint64
	faker *gofakeit.Faker
}

// NewFaker creates a Faker seeded from the clock.
func NewFaker() *Faker {
	return NewFakerWithSeed(uint64(time.Now().UnixNano()))
}

// NewFakerWithSeed creates a Faker that replays the sequence of seed.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		seed:  seed,
		faker: gofakeit.New(seed),
	}
}

// Seed returns the seed the Faker was created with.
func (f *Faker) Seed() uint64 {
	return f.seed
}

// LastName returns a random surname.
func (f *Faker) LastName() string {
	return f.faker.LastName()
}

// Float64 returns a uniform value in [0, 1).
func (f *Faker) Float64() float64 {
	return f.faker.Float64()
}

// Int returns a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Choose returns a random element of items, or the zero value when items is
// empty.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}
