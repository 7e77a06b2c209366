//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package identity synthesizes gender-consistent employee names.
//
// The source data carries no names, so each employee receives a random
// first and last name drawn to match the recorded gender. A Synthesizer can
// additionally guarantee that no (first, last) pair is issued twice within a
// run by consulting an Issued set.
package identity

import (
	"strings"

	"github.com/pgEdge/pgedge-salarywh/internal/datagen"
	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
)

// DefaultMaxAttempts bounds the draws SynthesizeUnique makes before giving up.
const DefaultMaxAttempts = 100

// Gender is the normalized gender code of an employee.
type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender normalizes a source gender code. Only M and F are accepted.
func ParseGender(code string) (Gender, error) {
	switch g := Gender(strings.TrimSpace(code)); g {
	case Male, Female:
		return g, nil
	default:
		return "", etlerr.New(etlerr.ErrInputValue, "unknown gender code %q", code)
	}
}

// Identity is a synthesized person.
type Identity struct {
	Gender Gender
	First  string
	Last   string
}

// Key identifies an issued name pair.
type Key struct {
	First string
	Last  string
}

// Key returns the (first, last) pair of the identity.
func (id Identity) Key() Key {
	return Key{First: id.First, Last: id.Last}
}

// NameSource draws random names.
type NameSource interface {
	FirstName(g Gender) string
	LastName() string
}

// FakerSource draws names from curated first name lists and gofakeit last
// names.
type FakerSource struct {
	faker *datagen.Faker
}

// NewFakerSource returns a NameSource backed by faker.
func NewFakerSource(faker *datagen.Faker) *FakerSource {
	return &FakerSource{faker: faker}
}

// FirstName returns a first name matching g.
func (s *FakerSource) FirstName(g Gender) string {
	if g == Female {
		return datagen.Choose(s.faker, femaleFirstNames)
	}
	return datagen.Choose(s.faker, maleFirstNames)
}

// LastName returns a random last name.
func (s *FakerSource) LastName() string {
	return s.faker.LastName()
}

// Issued is the set of name pairs handed out during a run.
type Issued struct {
	keys map[Key]struct{}
}

// NewIssued returns an empty set.
func NewIssued() *Issued {
	return &Issued{keys: make(map[Key]struct{})}
}

// Contains reports whether k has been issued.
func (i *Issued) Contains(k Key) bool {
	_, ok := i.keys[k]
	return ok
}

// Add records k as issued.
func (i *Issued) Add(k Key) {
	i.keys[k] = struct{}{}
}

// Len returns the number of issued pairs.
func (i *Issued) Len() int {
	return len(i.keys)
}

// Synthesizer draws identities from a NameSource.
type Synthesizer struct {
	src         NameSource
	maxAttempts int
}

// NewSynthesizer returns a Synthesizer. A non-positive maxAttempts selects
// DefaultMaxAttempts.
func NewSynthesizer(src NameSource, maxAttempts int) *Synthesizer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Synthesizer{src: src, maxAttempts: maxAttempts}
}

// Synthesize draws one identity for g. Collisions with earlier draws are
// possible.
func (s *Synthesizer) Synthesize(g Gender) Identity {
	return Identity{
		Gender: g,
		First:  s.src.FirstName(g),
		Last:   s.src.LastName(),
	}
}

// SynthesizeUnique draws identities until one is not yet in issued, records
// it, and returns it. It fails with ErrNamespaceExhausted once maxAttempts
// draws have all collided.
func (s *Synthesizer) SynthesizeUnique(g Gender, issued *Issued) (Identity, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		id := s.Synthesize(g)
		if issued.Contains(id.Key()) {
			continue
		}
		issued.Add(id.Key())
		return id, nil
	}
	return Identity{}, etlerr.New(etlerr.ErrNamespaceExhausted,
		"no unused %s name after %d attempts (%d issued)", g, s.maxAttempts, issued.Len())
}
