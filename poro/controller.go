// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"math"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Controller advances time: it runs the Newton solver, checks accepted states, cuts time
// steps of rejected states and chooses the size of the next time step
type Controller struct {

	// input
	Dom    *Domain         // domain
	Newton *Newton         // nonlinear solver
	Prms   *inp.SolverData // solver parameters
	Obs    []Observer      // observers of accepted and rejected steps

	// state
	T    float64 // time of last accepted state
	Dt   float64 // size of next time step
	Step int     // number of accepted steps

	// statistics
	NRtotal  int // total number of Newton iterations
	NRwasted int // Newton iterations of rejected steps
	Ncuts    int // number of time step cuts
	Nretries int // number of same-dt retries due to changes of well controls
}

// NewController returns a new controller
func NewController(dom *Domain, newton *Newton, prms *inp.SolverData, obs ...Observer) (o *Controller) {
	o = &Controller{Dom: dom, Newton: newton, Prms: prms, Obs: obs}
	o.Dt = utl.Max(prms.DtMin, utl.Min(prms.Dt0, prms.DtMax))
	return
}

// Advance runs time steps until tstop is reached. The last step is reported with the output
// flag set to output
func (o *Controller) Advance(tstop float64, output bool) (err error) {
	for !o.reached(tstop) {
		err = o.step(tstop, output)
		if err != nil {
			return
		}
	}
	return
}

// step runs one accepted time step, possibly after several retries
func (o *Controller) step(tstop float64, output bool) (err error) {
	d := o.Dom
	prms := o.Prms
	retries := 0
	cuts := 0
	for {

		// time increment
		dt, last := o.increment(tstop, cuts > 0)

		// message
		if io.Verbose && !prms.ShowR {
			io.PfWhite("%30.15f\r", o.T+dt)
		}

		// iterations
		d.Prepare()
		converged, reason := o.Newton.Solve(o.T+dt, dt)
		o.NRtotal += o.Newton.Iters

		// checks
		if converged {
			optmode := d.Wells.CheckOptMode()
			crossflow := d.Wells.CheckCrossFlow(d.Bulk)
			if optmode || crossflow {
				if retries < prms.WellRetryMax {
					retries++
					o.Nretries++
					o.NRwasted += o.Newton.Iters
					d.restore()
					o.notifyRejected(dt, "well controls changed", false)
					continue
				}
				converged, reason = false, "well controls keep changing"
			}
		}
		var cfl float64
		if converged {
			reason, cfl = o.checkState(dt)
			converged = reason == ""
		}

		// cut time step
		if !converged {
			o.Ncuts++
			cuts++
			o.NRwasted += o.Newton.Iters
			d.restore()
			o.notifyRejected(dt, reason, true)
			o.Dt = dt * prms.CutFac
			if o.Dt < prms.DtMin {
				return &FatalError{T: o.T, Dt: dt, Err: ErrStepTooSmall}
			}
			retries = 0
			continue
		}

		// accept
		rep := o.report(dt, cfl, cuts, output && last)
		o.Dt = o.nextDt(dt)
		d.backup()
		if last {
			o.T = tstop
		} else {
			o.T += dt
		}
		o.Step++
		rep.T = o.T
		for _, obs := range o.Obs {
			obs.Accepted(rep)
		}
		return
	}
}

// increment returns the size of the next time step such that tstop is not overshot and the
// step is not larger than Dt. If the remaining time after the step would be smaller than DtMin:
//   rem ≥ 2・DtMin         ⇒  the remainder is split into two halves
//   rem ≤ DtMax and !cut   ⇒  the step is stretched up to tstop
//  cut -- the step has been cut already; the step is then never stretched
func (o *Controller) increment(tstop float64, cut bool) (dt float64, last bool) {
	dt = o.Dt
	rem := tstop - o.T
	switch {
	case dt >= rem:
		return rem, true
	case rem-dt >= o.Prms.DtMin:
		return dt, false
	case rem >= 2*o.Prms.DtMin:
		return rem / 2, false
	case !cut && rem <= o.Prms.DtMax:
		return rem, true
	}
	return dt, false
}

// reached returns whether time tstop has been reached
func (o *Controller) reached(tstop float64) bool {
	return tstop-o.T <= 1e-10*math.Max(1, math.Abs(tstop))
}

// checkState checks the converged state and returns the reason of rejection or "" if the
// state is acceptable
func (o *Controller) checkState(dt float64) (reason string, cfl float64) {
	d := o.Dom
	bk := d.Bulk
	prms := o.Prms
	if !bk.CheckP() {
		return "negative pressure", 0
	}
	ok, fixed := bk.CheckNi()
	if !ok {
		return "negative moles", 0
	}
	if fixed {
		if err := bk.Update(); err != nil {
			return io.Sf("cannot update secondary variables:\n%v", err), 0
		}
	}
	if ok, eVmax := bk.CheckVe(prms.VolTol); !ok {
		return io.Sf("volume error %g is larger than %g", eVmax, prms.VolTol), 0
	}
	bk.ResetCFL()
	d.Graph.CalcUpwind(bk)
	d.Graph.AddCFL(bk, dt)
	d.Wells.AddCFL(bk, dt)
	cfl = bk.MaxCFL()
	if cfl > prms.CFLMax {
		return io.Sf("CFL number %g is larger than %g", cfl, prms.CFLMax), cfl
	}
	return
}

// nextDt computes the size of the next time step from the changes over the accepted step
//   c = min(MaxIncrease, DPlim/dPmax, DSlim/dSmax, DNlim/dNmax, EVlim/eVmax)
//   c = min(c, 1) if iterations > NRiterLow; min(c, 0.5) if iterations ≥ NRiterHigh
//   c = max(c, MinChange)
//   dt = clamp(c・dt, DtMin, DtMax)
func (o *Controller) nextDt(dt float64) float64 {
	prms := o.Prms
	dPmax, dSmax, dNmax, eVmax := o.Dom.Bulk.StepChanges()
	c := prms.MaxIncrease
	for _, r := range [][2]float64{
		{prms.DPlim, dPmax},
		{prms.DSlim, dSmax},
		{prms.DNlim, dNmax},
		{prms.EVlim, eVmax},
	} {
		if r[1] > 0 {
			c = utl.Min(c, r[0]/r[1])
		}
	}
	switch {
	case o.Newton.Iters >= prms.NRiterHigh:
		c = utl.Min(c, 0.5)
	case o.Newton.Iters > prms.NRiterLow:
		c = utl.Min(c, 1)
	}
	c = utl.Max(c, prms.MinChange)
	return utl.Max(prms.DtMin, utl.Min(c*dt, prms.DtMax))
}

// report collects the results of an accepted step
func (o *Controller) report(dt, cfl float64, cuts int, output bool) (rep *Report) {
	d := o.Dom
	c := d.Bulk.Cur
	rep = &Report{Step: o.Step + 1, Dt: dt, Iters: o.Newton.Iters, LinIts: o.Newton.LinIts, Cuts: cuts, Output: output}
	rep.Resids = append([]float64(nil), o.Newton.Resids...)
	rep.DPmax, rep.DSmax, rep.DNmax, rep.EVmax = d.Bulk.StepChanges()
	rep.CFL = cfl
	rep.P = append([]float64(nil), c.P...)
	rep.S = append([]float64(nil), c.S...)
	rep.Ni = append([]float64(nil), c.Ni...)
	for _, w := range d.Wells.Wells {
		rep.Wells = append(rep.Wells, &WellReport{
			Name: w.Name,
			Open: w.Ctrl.Open,
			Mode: w.Ctrl.Mode.String(),
			BHP:  w.BHP,
			Rate: w.Rate,
			Qt:   append([]float64(nil), w.Qt...),
		})
	}
	return
}

// notifyRejected informs observers about a rejected step
func (o *Controller) notifyRejected(dt float64, reason string, cut bool) {
	if io.Verbose {
		if cut {
			io.Pfred(". . . time step %g rejected: %s . . .\n", dt, reason)
		} else {
			io.Pfyel(". . . time step %g repeated: %s . . .\n", dt, reason)
		}
	}
	for _, obs := range o.Obs {
		obs.Rejected(o.T, dt, reason)
	}
}
