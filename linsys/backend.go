// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Backend defines linear solvers: A・x = b
//  Note: x holds the initial guess on input
type Backend interface {

	// Init initialises backend
	Init(prms fun.Prms) error

	// Solve solves the system and returns the number of iterations
	Solve(A *BlockMatrix, b, x []float64) (iters int, err error)

	// Clean releases resources
	Clean()
}

// New returns a new linear solver backend
func New(name string) (backend Backend, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("linear solver %q is not available", name)
	}
	return allocator(), nil
}

// allocators holds all available backends
var allocators = map[string]func() Backend{}

// params holds parameters shared by all backends
type params struct {
	Tol       float64 // tolerance of iterative solvers
	MaxIt     int     // max number of iterations of iterative solvers
	Symmetric bool    // matrix is symmetric
	Verbose   bool    // show messages
	Timing    bool    // show timing
}

// set reads parameters
func (o *params) set(prms fun.Prms) (err error) {
	o.Tol, o.MaxIt = 1e-10, 500
	for _, p := range prms {
		switch p.N {
		case "tol":
			o.Tol = p.V
		case "maxit":
			o.MaxIt = int(p.V)
		case "symmetric":
			o.Symmetric = p.V > 0
		case "verbose":
			o.Verbose = p.V > 0
		case "timing":
			o.Timing = p.V > 0
		default:
			return chk.Err("linear solver: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Tol <= 0 || o.MaxIt < 1 {
		return chk.Err("linear solver: tol and maxit must be positive. tol=%g maxit=%d", o.Tol, o.MaxIt)
	}
	return
}
