// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/conn"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/pvt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/gosl/ode"
)

// HydroStatic computes pressures in equilibrium with a column of fluid with composition z
// based on the following model
//
//    dp/dD = γ・ρ(p)
//
//    D(T) = Dref + T・(D - Dref)   with 0 ≤ T ≤ 1
//    dp/dT = γ・ρ(p)・(D - Dref)
//
type HydroStatic struct {
	Dref  float64   // datum depth
	Pref  float64   // pressure at datum
	Temp  float64   // temperature
	Z     []float64 // composition of fluid
	model pvt.Model
	fcn   ode.Cb_fcn
	Jac   ode.Cb_jac
	sol   ode.ODE
}

// Init initialises this structure
func (o *HydroStatic) Init(model pvt.Model, dref, pref, temp float64, z []float64) {

	// basic data
	o.model = model
	o.Dref, o.Pref, o.Temp = dref, pref, temp
	o.Z = z

	// y := {p}
	o.fcn = func(f []float64, x float64, y []float64, args ...interface{}) error {
		ΔD := args[0].(float64)
		f[0] = conn.GAMMA * o.model.Density(y[0], o.Temp, o.Z) * ΔD
		return nil
	}

	o.Jac = func(dfdy *la.Triplet, x float64, y []float64, args ...interface{}) error {
		if dfdy.Max() == 0 {
			dfdy.Init(1, 1, 1)
		}
		ΔD := args[0].(float64)
		dρdp, _ := num.DerivCentral(func(p float64, args ...interface{}) float64 {
			return o.model.Density(p, o.Temp, o.Z)
		}, y[0], 1e-3)
		dfdy.Start()
		dfdy.Put(0, 0, conn.GAMMA*dρdp*ΔD)
		return nil
	}

	silent := true
	o.sol.Init("Radau5", 1, o.fcn, o.Jac, nil, nil, silent)
	o.sol.Distr = false
}

// Calc computes the pressure at depth d
func (o *HydroStatic) Calc(d float64) (p float64, err error) {
	ΔD := d - o.Dref
	if ΔD == 0 {
		return o.Pref, nil
	}
	y := []float64{o.Pref}
	err = o.sol.Solve(y, 0, 1, 1, false, ΔD)
	if err != nil {
		err = chk.Err("HydroStatic failed when calculating pressure using ODE solver: %v", err)
		return
	}
	return y[0], nil
}
