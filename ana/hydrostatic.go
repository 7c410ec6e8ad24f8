// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// HydroColumn implements the pressure along a static column of one fluid with exponential
// compressibility
//
//    ρ(p)  = ρ0・exp(c・(p - p0))
//    dp/dD = γ・ρ(p)
//
//  Solution:
//
//    p(D) = p0 - ln(exp(-c・(pd - p0)) - c・γ・ρ0・(D - Dd)) / c
//
//  where pd is the pressure at the datum depth Dd
type HydroColumn struct {
	Rho0  float64 // density at p0
	C     float64 // compressibility c
	P0    float64 // reference pressure of density
	Gamma float64 // γ: converts density to pressure gradient
	Dd    float64 // datum depth
	Pd    float64 // pressure at datum depth
}

// Init initialises this structure
func (o *HydroColumn) Init(prms fun.Prms) (err error) {
	o.Gamma = 1
	for _, p := range prms {
		switch p.N {
		case "rho0":
			o.Rho0 = p.V
		case "c":
			o.C = p.V
		case "p0":
			o.P0 = p.V
		case "gamma":
			o.Gamma = p.V
		case "dd":
			o.Dd = p.V
		case "pd":
			o.Pd = p.V
		default:
			return chk.Err("HydroColumn: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Rho0 <= 0 || o.C < 0 {
		return chk.Err("HydroColumn: density must be positive and compressibility non-negative; rho0=%g c=%g", o.Rho0, o.C)
	}
	return
}

// Calc computes the pressure at depth d
func (o HydroColumn) Calc(d float64) (p float64, err error) {
	ΔD := d - o.Dd
	if o.C == 0 {
		return o.Pd + o.Gamma*o.Rho0*ΔD, nil
	}
	a := math.Exp(-o.C*(o.Pd-o.P0)) - o.C*o.Gamma*o.Rho0*ΔD
	if a <= 0 {
		return 0, chk.Err("HydroColumn: pressure is unbounded at depth %g", d)
	}
	return o.P0 - math.Log(a)/o.C, nil
}

// Density computes the density at pressure p
func (o HydroColumn) Density(p float64) float64 {
	return o.Rho0 * math.Exp(o.C*(p-o.P0))
}

// Plot plots pressure versus depth from dmin to dmax
func (o HydroColumn) Plot(dmin, dmax float64, npts int, args string) {
	D := utl.LinSpace(dmin, dmax, npts)
	P := make([]float64, npts)
	for i, d := range D {
		P[i], _ = o.Calc(d)
	}
	plt.Plot(P, D, args)
	plt.Gll("$p$", "$D$", "")
}
