// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// Dense implements a direct solver with LU factorisation of the dense matrix.
// Suitable for small systems and for checking other solvers
type Dense struct {
	prms params // parameters
	lu   mat.LU // factorisation
}

// add backend to factory
func init() {
	allocators["dense"] = func() Backend { return new(Dense) }
}

// Init initialises backend
func (o *Dense) Init(prms fun.Prms) error { return o.prms.set(prms) }

// Solve solves the system
func (o *Dense) Solve(A *BlockMatrix, b, x []float64) (iters int, err error) {
	n := A.N()
	if len(b) != n || len(x) != n {
		return 0, chk.Err("dense: vectors must have length %d. len(b)=%d len(x)=%d", n, len(b), len(x))
	}
	o.lu.Factorize(A.ToDense())
	if o.prms.Verbose {
		io.Pf("dense: condition number = %g\n", o.lu.Cond())
	}
	xv := mat.NewVecDense(n, x)
	err = o.lu.SolveVecTo(xv, false, mat.NewVecDense(n, b))
	if c, ok := err.(mat.Condition); ok && !math.IsInf(float64(c), 0) {
		if o.prms.Verbose {
			io.Pfyel("dense: matrix is ill-conditioned: %v\n", err)
		}
		err = nil
	}
	if err != nil {
		return 0, chk.Err("dense: solution failed:\n%v", err)
	}
	return 1, nil
}

// Clean releases resources
func (o *Dense) Clean() {}
