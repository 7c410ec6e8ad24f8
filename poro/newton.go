// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"math"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Newton solves the nonlinear problem of one time step with the Newton-Raphson method
type Newton struct {

	// input
	Dom  *Domain         // domain
	Asm  Assembler       // assembles residual and Jacobian
	Upd  Updater         // applies linear solutions
	Prms *inp.SolverData // solver parameters

	// results of last call to Solve
	Iters  int       // number of iterations
	ResV   float64   // largest relative volume residual
	ResN   float64   // largest relative mass residual
	Resids []float64 // largest absolute residual at each iteration
	LinIts int       // total number of iterations of linear solver
}

// NewNewton returns a new Newton-Raphson solver using the assembler and updater given in prms
func NewNewton(dom *Domain, prms *inp.SolverData) (o *Newton, err error) {
	o = &Newton{Dom: dom, Prms: prms}
	o.Asm, err = NewAssembler(prms.Assembler)
	if err != nil {
		return nil, err
	}
	o.Upd, err = NewUpdater(prms.Updater, prms.DSmaxLim)
	if err != nil {
		return nil, err
	}
	return
}

// Solve runs the iterations of one time step starting from the current state. The domain must
// have been prepared already. It returns false and the reason if the iterations failed; the
// state is then left as is and must be restored by the caller
func (o *Newton) Solve(t, dt float64) (converged bool, reason string) {

	// auxiliary
	d := o.Dom
	bk := d.Bulk
	prms := o.Prms
	bk.ResetNR()
	o.Resids = o.Resids[:0]
	o.LinIts = 0
	var res0V, res0N float64

	// message
	if prms.ShowR {
		io.Pf("\n%13s%4s%23s%23s%13s%13s\n", "t", "it", "resV", "resN", "dPmax", "dSmax")
	}

	// iterations
	for o.Iters = 0; ; o.Iters++ {

		// residual
		o.Asm.Residual(d, dt)
		o.calcNorms()
		o.Resids = append(o.Resids, la.VecLargest(d.Res, 1))
		if prms.ShowR {
			dPmax, dSmax := bk.MaxNR()
			io.Pf("%13.6e%4d%23.15e%23.15e%13.6e%13.6e\n", t, o.Iters, o.ResV, o.ResN, dPmax, dSmax)
		}

		// check convergence
		if o.Iters == 0 {
			res0V, res0N = o.ResV, o.ResN
		}
		if o.converged(res0V, res0N) {
			return true, ""
		}
		if o.Iters >= prms.NmaxIt {
			if prms.ShowR {
				io.PfMag("max number of iterations reached\n")
			}
			return false, io.Sf("max number of iterations (%d) reached", prms.NmaxIt)
		}

		// Jacobian
		if o.Iters == 0 || !prms.CteTg {
			d.Sys.J.Zero()
			o.Asm.Jacobian(d, dt, d.Sys.J)
		}

		// solve
		d.Sys.SetResidual(d.Res)
		its, err := d.Sys.Solve()
		o.LinIts += its
		if err != nil && io.Verbose {
			io.PfRed("linear solver: %v\n", err)
		}

		// update
		o.Upd.Update(d, d.Sys.U)
		if !bk.IsFinite() || !d.wellsFinite() {
			return false, "primary variables are not finite"
		}
		err = bk.Update()
		if err != nil {
			return false, io.Sf("cannot update secondary variables:\n%v", err)
		}
	}
}

// calcNorms computes the largest relative residuals
//   resV = max |Vp - Vf| / Vp
//   resN = max |R[1+i]| / Nt
func (o *Newton) calcNorms() {
	bk := o.Dom.Bulk
	c, lay := bk.Cur, bk.Lay
	bs := lay.Block()
	o.ResV, o.ResN = 0, 0
	for n := 0; n < lay.Nb; n++ {
		o.ResV = math.Max(o.ResV, math.Abs(o.Dom.Res[n*bs])/c.Vp[n])
		if c.Nt[n] <= 0 {
			continue
		}
		for i := 0; i < lay.Nc; i++ {
			o.ResN = math.Max(o.ResN, math.Abs(o.Dom.Res[n*bs+1+i])/c.Nt[n])
		}
	}
}

// converged checks the residuals and the last updates
func (o *Newton) converged(res0V, res0N float64) bool {
	tol := o.Prms.Tol
	okV := o.ResV <= tol*res0V || o.ResV <= tol
	okN := o.ResN <= tol*res0N || o.ResN <= tol
	if okV && okN {
		return true
	}
	if o.Iters > 0 {
		dPmax, dSmax := o.Dom.Bulk.MaxNR()
		return dPmax <= o.Prms.DPmin && dSmax <= o.Prms.DSmin
	}
	return false
}
