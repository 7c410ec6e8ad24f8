// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bulk

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// CheckP returns false if any pressure is non-positive or not finite
func (o *Bulk) CheckP() (ok bool) {
	for n, p := range o.Cur.P {
		if !(p > 0) || math.IsInf(p, 0) {
			if io.Verbose {
				io.Pfyel("bulk: negative pressure in cell %d: P = %g\n", n, p)
			}
			return false
		}
	}
	return true
}

// CheckNi returns false if any component moles are too negative. Slightly negative values
// are reset to a tiny positive number; fixed indicates that this happened and that the
// secondary variables must be updated
func (o *Bulk) CheckNi() (ok, fixed bool) {
	c, lay := o.Cur, o.Lay
	for n := 0; n < lay.Nb; n++ {
		nt := c.Nt[n]
		for i := 0; i < lay.Nc; i++ {
			k := lay.Comp(n, i)
			if c.Ni[k] >= 0 {
				continue
			}
			if c.Ni[k] < -o.NiNegTol*nt {
				if io.Verbose {
					io.Pfyel("bulk: negative moles in cell %d: N%d = %g (Nt = %g)\n", n, i, c.Ni[k], nt)
				}
				return false, fixed
			}
			c.Ni[k] = 1e-20 * nt
			fixed = true
		}
	}
	return true, fixed
}

// CheckVe returns false if the relative volume error |Vf - Vp|/Vp of any cell exceeds tol
func (o *Bulk) CheckVe(tol float64) (ok bool, eVmax float64) {
	c := o.Cur
	for n := 0; n < o.Lay.Nb; n++ {
		ev := math.Abs(c.Vf[n]-c.Vp[n]) / c.Vp[n]
		if ev > eVmax {
			eVmax = ev
		}
	}
	if eVmax > tol {
		if io.Verbose {
			io.Pfyel("bulk: volume error is too large: %g > %g\n", eVmax, tol)
		}
		return false, eVmax
	}
	return true, eVmax
}

// ResetCFL clears the throughput accumulators
func (o *Bulk) ResetCFL() {
	for k := range o.cfl {
		o.cfl[k] = 0
	}
}

// AddCFL accumulates the volume of phase j leaving cell n during one time step
func (o *Bulk) AddCFL(n, j int, vol float64) {
	o.cfl[o.Lay.Phase(n, j)] += math.Abs(vol)
}

// MaxCFL returns the largest ratio between throughput and phase volume over existing phases
func (o *Bulk) MaxCFL() (cflmax float64) {
	c := o.Cur
	for k, vol := range o.cfl {
		if !c.Exist[k] || vol == 0 {
			continue
		}
		if c.Vj[k] <= 0 {
			continue
		}
		r := vol / c.Vj[k]
		if r > cflmax {
			cflmax = r
		}
	}
	return
}

// StepChanges returns the largest changes over the current time step (current minus last
// accepted state). dNmax is relative to the total moles of the cell; eVmax is the largest
// relative volume error
func (o *Bulk) StepChanges() (dPmax, dSmax, dNmax, eVmax float64) {
	c, l, lay := o.Cur, o.Last, o.Lay
	for n := 0; n < lay.Nb; n++ {
		dPmax = math.Max(dPmax, math.Abs(c.P[n]-l.P[n]))
		for i := 0; i < lay.Nc; i++ {
			k := lay.Comp(n, i)
			if l.Nt[n] > 0 {
				dNmax = math.Max(dNmax, math.Abs(c.Ni[k]-l.Ni[k])/l.Nt[n])
			}
		}
		eVmax = math.Max(eVmax, math.Abs(c.Vf[n]-c.Vp[n])/c.Vp[n])
	}
	for k := range c.S {
		dSmax = math.Max(dSmax, math.Abs(c.S[k]-l.S[k]))
	}
	return
}
