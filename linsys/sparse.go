// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
)

// Sparse implements a direct sparse solver (umfpack) using the triplet format.
// The factorisation is recomputed at every call; the symbolic analysis only once
type Sparse struct {
	prms   params     // parameters
	name   string     // solver name in gosl/la
	sol    la.LinSol  // linear solver
	tri    la.Triplet // values of matrix
	initLS bool       // linear solver must be initialised
	nrow   int        // number of rows used in the initialisation
	bkp    []float64  // copy of b
}

// add backend to factory
func init() {
	allocators["umfpack"] = func() Backend { return &Sparse{name: "umfpack"} }
}

// Init initialises backend
func (o *Sparse) Init(prms fun.Prms) (err error) {
	err = o.prms.set(prms)
	if err != nil {
		return
	}
	o.sol = la.GetSolver(o.name)
	o.initLS = true
	return
}

// Solve solves the system
func (o *Sparse) Solve(A *BlockMatrix, b, x []float64) (iters int, err error) {
	if o.sol == nil {
		return 0, chk.Err("%s: backend must be initialised first", o.name)
	}
	if !o.initLS && o.nrow != A.N() {
		o.sol.Clean()
		o.tri = la.Triplet{}
		o.initLS = true
	}
	A.ToTriplet(&o.tri)
	if o.initLS {
		err = o.sol.InitR(&o.tri, o.prms.Symmetric, o.prms.Verbose, o.prms.Timing)
		if err != nil {
			return 0, chk.Err("%s: cannot initialise solver:\n%v", o.name, err)
		}
		o.nrow = A.N()
		o.initLS = false
	}
	err = o.sol.Fact()
	if err != nil {
		return 0, chk.Err("%s: factorisation failed:\n%v", o.name, err)
	}
	if len(o.bkp) != len(b) {
		o.bkp = make([]float64, len(b))
	}
	copy(o.bkp, b)
	err = o.sol.SolveR(x, o.bkp, false)
	if err != nil {
		return 0, chk.Err("%s: solution failed:\n%v", o.name, err)
	}
	return 1, nil
}

// Clean releases resources
func (o *Sparse) Clean() {
	if o.sol != nil && !o.initLS {
		o.sol.Clean()
	}
}
