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
	"math"
)

// MonthsPerYear is the number of fragments an annual amount is split into.
const MonthsPerYear = 12

// Rand is a source of uniform draws in [0, 1). *Faker satisfies it.
type Rand interface {
	Float64() float64
}

// Allocate splits total into n non-negative parts using a random
// proportional split: n uniform draws are normalized to sum to one and
// scaled by total. The parts sum to total up to floating point error.
func Allocate(r Rand, total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)
	var sum float64
	for i := range weights {
		weights[i] = r.Float64()
		sum += weights[i]
	}

	parts := make([]float64, n)
	if sum == 0 {
		for i := range parts {
			parts[i] = total / float64(n)
		}
		return parts
	}
	for i, w := range weights {
		parts[i] = w / sum * total
	}
	return parts
}

// AllocateRounded is Allocate with every part rounded to cents. The rounded
// parts may differ from total by up to n * 0.005; that drift is kept.
func AllocateRounded(r Rand, total float64, n int) []float64 {
	parts := Allocate(r, total, n)
	for i := range parts {
		parts[i] = Round2(parts[i])
	}
	return parts
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundingTolerance is the largest drift AllocateRounded can introduce for n parts.
func RoundingTolerance(n int) float64 {
	return float64(n) * 0.005
}

// Summary holds the spread of a set of monthly fragments.
type Summary struct {
	Min  float64
	Mean float64
	Max  float64
}

// Summarize returns min, mean and max of values. An empty slice yields zeros.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		sum += v
	}
	s.Mean = sum / float64(len(values))
	return s
}

// Rounded returns the summary with each statistic rounded to cents.
func (s Summary) Rounded() Summary {
	return Summary{Min: Round2(s.Min), Mean: Round2(s.Mean), Max: Round2(s.Max)}
}
