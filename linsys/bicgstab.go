// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BiCGStab implements the stabilised bi-conjugate gradient method with right block-Jacobi
// preconditioning; i.e. M = blockdiag(A)
type BiCGStab struct {
	prms params // parameters

	// preconditioner
	minv [][]float64 // [nb][bs・bs] inverse of diagonal blocks

	// workspace
	r, rhat, p, v, s, t, phat, shat []float64
}

// add backend to factory
func init() {
	allocators["bicgstab"] = func() Backend { return new(BiCGStab) }
}

// Init initialises backend
func (o *BiCGStab) Init(prms fun.Prms) error { return o.prms.set(prms) }

// Solve solves the system
func (o *BiCGStab) Solve(A *BlockMatrix, b, x []float64) (iters int, err error) {

	// workspace
	n := A.N()
	if len(b) != n || len(x) != n {
		return 0, chk.Err("bicgstab: vectors must have length %d. len(b)=%d len(x)=%d", n, len(b), len(x))
	}
	if len(o.r) != n {
		o.r, o.rhat, o.p, o.v = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
		o.s, o.t, o.phat, o.shat = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	}

	// preconditioner
	err = o.factorise(A)
	if err != nil {
		return
	}

	// initial residual: r = b - A・x
	A.MulVec(o.r, x)
	floats.SubTo(o.r, b, o.r)
	copy(o.rhat, o.r)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		for k := range x {
			x[k] = 0
		}
		return 0, nil
	}
	tol := o.prms.Tol * bnorm
	if floats.Norm(o.r, 2) <= tol {
		return 0, nil
	}

	// iterations
	rho, alpha, omega := 1.0, 1.0, 1.0
	for k := range o.p {
		o.p[k], o.v[k] = 0, 0
	}
	for iters = 1; iters <= o.prms.MaxIt; iters++ {

		// direction
		rho1 := floats.Dot(o.rhat, o.r)
		if rho1 == 0 {
			return iters, chk.Err("bicgstab: breakdown with ρ = 0 at iteration %d", iters)
		}
		beta := (rho1 / rho) * (alpha / omega)
		for k := range o.p {
			o.p[k] = o.r[k] + beta*(o.p[k]-omega*o.v[k])
		}
		o.precond(A, o.phat, o.p)
		A.MulVec(o.v, o.phat)
		den := floats.Dot(o.rhat, o.v)
		if den == 0 {
			return iters, chk.Err("bicgstab: breakdown with (r̂,v) = 0 at iteration %d", iters)
		}
		alpha = rho1 / den

		// half step
		floats.AddScaledTo(o.s, o.r, -alpha, o.v)
		if floats.Norm(o.s, 2) <= tol {
			floats.AddScaled(x, alpha, o.phat)
			return
		}

		// stabilisation
		o.precond(A, o.shat, o.s)
		A.MulVec(o.t, o.shat)
		tt := floats.Dot(o.t, o.t)
		if tt == 0 {
			return iters, chk.Err("bicgstab: breakdown with (t,t) = 0 at iteration %d", iters)
		}
		omega = floats.Dot(o.t, o.s) / tt
		floats.AddScaled(x, alpha, o.phat)
		floats.AddScaled(x, omega, o.shat)
		floats.AddScaledTo(o.r, o.s, -omega, o.t)

		// convergence
		rnorm := floats.Norm(o.r, 2)
		if o.prms.Verbose {
			io.Pf("bicgstab: %4d  |r|/|b| = %13.6e\n", iters, rnorm/bnorm)
		}
		if math.IsNaN(rnorm) {
			return iters, chk.Err("bicgstab: residual became NaN at iteration %d", iters)
		}
		if rnorm <= tol {
			return
		}
		if omega == 0 {
			return iters, chk.Err("bicgstab: breakdown with ω = 0 at iteration %d", iters)
		}
		rho = rho1
	}
	return o.prms.MaxIt, chk.Err("bicgstab: did not converge after %d iterations", o.prms.MaxIt)
}

// Clean releases resources
func (o *BiCGStab) Clean() {}

// factorise computes the inverse of all diagonal blocks
func (o *BiCGStab) factorise(A *BlockMatrix) (err error) {
	bs := A.Bs
	if len(o.minv) != A.Nb {
		o.minv = make([][]float64, A.Nb)
		for i := range o.minv {
			o.minv[i] = make([]float64, bs*bs)
		}
	}
	var inv mat.Dense
	for i := 0; i < A.Nb; i++ {
		blk := mat.NewDense(bs, bs, append([]float64(nil), A.Block(i, i)...))
		err = inv.Inverse(blk)
		if err != nil {
			if c, ok := err.(mat.Condition); !ok || math.IsInf(float64(c), 0) {
				return chk.Err("bicgstab: diagonal block %d is singular:\n%v", i, err)
			}
			err = nil
		}
		for r := 0; r < bs; r++ {
			for c := 0; c < bs; c++ {
				o.minv[i][r*bs+c] = inv.At(r, c)
			}
		}
	}
	return
}

// precond computes y = M⁻¹・x
func (o *BiCGStab) precond(A *BlockMatrix, y, x []float64) {
	bs := A.Bs
	for i := 0; i < A.Nb; i++ {
		m := o.minv[i]
		for r := 0; r < bs; r++ {
			sum := 0.0
			for c := 0; c < bs; c++ {
				sum += m[r*bs+c] * x[i*bs+c]
			}
			y[i*bs+r] = sum
		}
	}
}
