//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package etlerr defines the failure kinds a warehouse load can abort with.
//
// Every error produced by the loader carries exactly one kind, so callers can
// branch with errors.Is regardless of how deeply the error was wrapped:
//
//	if errors.Is(err, etlerr.ErrInputValue) { ... }
package etlerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInputSchema reports a missing or misnamed input column.
	ErrInputSchema = errors.New("input schema error")

	// ErrInputValue reports a field that cannot be interpreted, such as a
	// non-numeric salary or an unknown gender code.
	ErrInputValue = errors.New("input value error")

	// ErrNamespaceExhausted reports that no unused synthetic name could be
	// found within the configured number of attempts.
	ErrNamespaceExhausted = errors.New("identity namespace exhausted")

	// ErrConstraintViolation reports a uniqueness or foreign key violation
	// raised by the store.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStoreIO reports any other failure talking to the store or writing
	// export files.
	ErrStoreIO = errors.New("store i/o error")
)

var kinds = []error{
	ErrInputSchema,
	ErrInputValue,
	ErrNamespaceExhausted,
	ErrConstraintViolation,
	ErrStoreIO,
}

// Error is a classified failure.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	s := e.Kind.Error()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns a classified error with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. A nil err yields nil. An err that already carries a
// kind keeps it and only gains the message.
func Wrap(kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if existing := KindOf(err); existing != nil {
		kind = existing
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind carried by err, or nil if err is unclassified.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
