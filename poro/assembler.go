// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/linsys"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Assembler assembles the residual and the Jacobian of one time step
type Assembler interface {
	Residual(d *Domain, dt float64)                  // computes d.Res at the current iterate
	Jacobian(d *Domain, dt float64, J linsys.Adder) // adds all derivatives into J; Residual must be called first
}

// NewAssembler returns a new assembler
func NewAssembler(name string) (Assembler, error) {
	allocator, ok := assemblers[name]
	if !ok {
		return nil, chk.Err("assembler %q is not available", name)
	}
	return allocator(), nil
}

// assemblers holds all available assemblers
var assemblers = map[string]func() Assembler{
	"fim": func() Assembler { return new(FIM) },
}

// FIM implements the fully implicit method with unknowns {P, N0 ... N(nc-1)} in each cell
// and the bottom-hole pressure of each well.
//
//   volume balance:  R[0]   = Vp(P) - Vf(P, N)
//   mass balances:   R[1+i] = Ni - Ni_last + dt・Σ flux_i - dt・Q_i
//
type FIM struct{}

// Residual computes the residual vector
func (o FIM) Residual(d *Domain, dt float64) {
	bk := d.Bulk
	c, l, lay := bk.Cur, bk.Last, bk.Lay
	bs := lay.Block()
	la.VecFill(d.Res, 0)
	for n := 0; n < lay.Nb; n++ {
		d.Res[n*bs] = c.Vp[n] - c.Vf[n]
		for i := 0; i < lay.Nc; i++ {
			k := lay.Comp(n, i)
			d.Res[n*bs+1+i] = c.Ni[k] - l.Ni[k]
		}
	}
	d.Graph.CalcUpwind(bk)
	d.Graph.AddToRes(d.Res, bk, dt)
	d.Wells.CalcFlux(bk)
	d.Wells.AddToRes(d.Res, dt)
}

// Jacobian assembles the Jacobian matrix
//
//   ∂R[0]/∂P  = ∂Vp/∂P - ∂Vf/∂P
//   ∂R[0]/∂Nk = -∂Vf/∂Nk
//   ∂R[1+i]/∂Nk = δik + flux and well terms
//
func (o FIM) Jacobian(d *Domain, dt float64, J linsys.Adder) {
	bk := d.Bulk
	c, lay := bk.Cur, bk.Lay
	for n := 0; n < lay.Nb; n++ {
		J.Add(n, n, 0, 0, c.VpP[n]-c.VfP[n])
		for i := 0; i < lay.Nc; i++ {
			J.Add(n, n, 0, 1+i, -c.Vfi[lay.Comp(n, i)])
			J.Add(n, n, 1+i, 1+i, 1)
		}
	}
	d.Graph.AddToJac(J, bk, dt)
	d.Wells.AddToJac(J, dt)
}
