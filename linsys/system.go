// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// System holds the linear system of one Newton-Raphson iteration
//
//   J・u = -R
//
type System struct {
	J       *BlockMatrix // Jacobian matrix
	Rhs     []float64    // right-hand side: -R
	U       []float64    // solution: update of primary variables
	Backend Backend      // linear solver
	Iters   int          // iterations of last solution
}

// NewSystem allocates a new linear system
func NewSystem(nb, bs int, pattern [][]int, backend Backend) (o *System, err error) {
	if backend == nil {
		return nil, chk.Err("linear system requires a backend")
	}
	o = new(System)
	o.J, err = NewBlockMatrix(nb, bs, pattern)
	if err != nil {
		return
	}
	o.Rhs = make([]float64, nb*bs)
	o.U = make([]float64, nb*bs)
	o.Backend = backend
	return
}

// SetResidual sets the right-hand side from the residual vector
func (o *System) SetResidual(res []float64) {
	for k, r := range res {
		o.Rhs[k] = -r
	}
}

// Solve solves the system starting from u = 0
func (o *System) Solve() (iters int, err error) {
	la.VecFill(o.U, 0)
	o.Iters, err = o.Backend.Solve(o.J, o.Rhs, o.U)
	return o.Iters, err
}
