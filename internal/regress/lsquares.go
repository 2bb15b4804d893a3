// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regress fits least squares polynomials to table columns.
package regress

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// ErrSingular is returned when the data does not determine a unique
// fit, for example when there are fewer distinct X values than
// coefficients.
var ErrSingular = errors.New("regress: singular system")

// LinearLeastSquares computes the least squares fit for the function
//
//	f(x) = Β₀terms₀(x) + Β₁terms₁(x) + ...
//
// to the data (xs[i], ys[i]). It returns the parameters Β₀, Β₁, ...
// that minimize the sum of the squares of the residuals of f:
//
//	∑ (ys[i] - f(xs[i]))²
//
// If weights is non-nil, it is used to weight these residuals:
//
//	∑ weights[i] × (ys[i] - f(xs[i]))²
//
// Each term is vectorized: it is passed the x values in xs and must
// fill termOut with the value of the term at each x.
func LinearLeastSquares(xs, ys, weights []float64, terms ...func(xs, termOut []float64)) (params []float64, err error) {
	// Solve the normal equations
	//
	//    (𝐗ᵀ𝐖𝐗)Β̂ = 𝐗ᵀ𝐖𝐲
	//
	// where 𝐖 is a diagonal weight matrix (or the identity matrix
	// for the unweighted case).

	if len(xs) != len(ys) {
		panic("len(xs) != len(ys)")
	}
	if weights != nil && len(xs) != len(weights) {
		panic("len(xs) != len(weights)")
	}
	if distinct(xs) < len(terms) {
		return nil, ErrSingular
	}

	xTVals := make([]float64, len(terms)*len(xs))
	for i, term := range terms {
		term(xs, xTVals[i*len(xs):i*len(xs)+len(xs)])
	}
	XT := mat64.NewDense(len(terms), len(xs), xTVals)
	X := XT.T()

	var XTW *mat64.Dense
	if weights == nil {
		XTW = XT
	} else {
		// 𝐖 is diagonal, so scale the rows of 𝐗ᵀ directly.
		XTW = mat64.DenseCopyOf(XT)
		WDiag := mat64.NewVector(len(weights), weights)
		for row := 0; row < len(terms); row++ {
			rowView := XTW.RowView(row)
			rowView.MulElemVec(rowView, WDiag)
		}
	}

	y := mat64.NewVector(len(ys), ys)

	lhs := mat64.NewDense(len(terms), len(terms), nil)
	lhs.Mul(XTW, X)

	rhs := mat64.NewVector(len(terms), nil)
	rhs.MulVec(XTW, y)

	BVals := make([]float64, len(terms))
	B := mat64.NewVector(len(terms), BVals)
	if err := B.SolveVec(lhs, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for _, b := range BVals {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, ErrSingular
		}
	}
	return BVals, nil
}

func distinct(xs []float64) int {
	seen := make(map[float64]bool)
	for _, x := range xs {
		seen[x] = true
	}
	return len(seen)
}

// PolynomialFit performs a least squares regression with a polynomial
// of the given degree. It returns the coefficients of the best-fit
// polynomial, starting with the constant term.
func PolynomialFit(xs, ys, weights []float64, degree int) (coefficients []float64, err error) {
	terms := make([]func(xs, termOut []float64), degree+1)
	terms[0] = func(xs, termsOut []float64) {
		for i := range termsOut {
			termsOut[i] = 1
		}
	}
	if degree >= 1 {
		terms[1] = func(xs, termOut []float64) {
			copy(termOut, xs)
		}
	}
	for d := 2; d < len(terms); d++ {
		d := d
		terms[d] = func(xs, termOut []float64) {
			for i, x := range xs {
				termOut[i] = math.Pow(x, float64(d))
			}
		}
	}

	return LinearLeastSquares(xs, ys, weights, terms...)
}

// Eval evaluates the polynomial with the given coefficients at x.
func Eval(coefficients []float64, x float64) float64 {
	y := 0.0
	for i := len(coefficients) - 1; i >= 0; i-- {
		y = y*x + coefficients[i]
	}
	return y
}

// RSquared returns the coefficient of determination of the polynomial
// with the given coefficients over (xs, ys).
func RSquared(coefficients, xs, ys []float64) float64 {
	mean := 0.0
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))
	var ssRes, ssTot float64
	for i, x := range xs {
		r := ys[i] - Eval(coefficients, x)
		ssRes += r * r
		d := ys[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}
