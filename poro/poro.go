// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package poro implements the fully implicit solution of multiphase flow in porous media:
// residual and Jacobian assembly, Newton-Raphson iterations and time step control
package poro

import (
	"time"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"

	"github.com/cpmech/gosl/io"
)

// Poro holds all data for a reservoir simulation
type Poro struct {
	Sim     *inp.Simulation // simulation data
	Dom     *Domain         // reservoir
	Newton  *Newton         // nonlinear solver
	Ctrl    *Controller     // time step controller
	Verbose bool            // show messages
}

// NewPoro returns a new simulation with its initial state set
//  Input:
//   sim     -- simulation data
//   verbose -- show messages
//   obs     -- observers of time steps; e.g. summary
func NewPoro(sim *inp.Simulation, verbose bool, obs ...Observer) (o *Poro, err error) {
	o = &Poro{Sim: sim, Verbose: verbose}
	o.Dom, err = NewDomain(sim)
	if err != nil {
		return nil, err
	}
	o.Newton, err = NewNewton(o.Dom, &sim.Solver)
	if err != nil {
		return nil, err
	}
	o.Ctrl = NewController(o.Dom, o.Newton, &sim.Solver, obs...)
	return
}

// Run runs all stages
func (o *Poro) Run() (err error) {

	// loop over stages
	cputime := time.Now()
	for stgidx, stg := range o.Sim.Stages {

		// skip stage?
		if stg.Skip {
			continue
		}

		// set stage
		if o.Verbose {
			io.Pfcyan("\nstage %d: %s\n", stgidx, stg.Desc)
		}
		err = o.Dom.SetStage(stg)
		if err != nil {
			return
		}

		// time loop
		for _, tout := range Stops(o.Ctrl.T, o.Ctrl.T+stg.Tf, stg.DtOut) {
			err = o.Ctrl.Advance(tout, true)
			if err != nil {
				return
			}
		}
	}

	// message
	if o.Verbose {
		c := o.Ctrl
		io.Pf("\n\n")
		io.Pf("final time     = %v\n", c.T)
		io.Pf("accepted steps = %d\n", c.Step)
		io.Pf("iterations     = %d (%d wasted)\n", c.NRtotal, c.NRwasted)
		io.Pf("cuts, retries  = %d, %d\n", c.Ncuts, c.Nretries)
		io.Pflmag("cpu time       = %v\n", time.Now().Sub(cputime))
	}
	return
}

// Stops returns the output times within (t0, tf]. The last one is always tf
//  dtout -- interval between outputs; 0 means tf only
func Stops(t0, tf, dtout float64) (stops []float64) {
	if dtout > 0 {
		eps := 1e-10 * dtout
		for k := 1; ; k++ {
			t := t0 + float64(k)*dtout
			if t >= tf-eps {
				break
			}
			stops = append(stops, t)
		}
	}
	return append(stops, tf)
}
