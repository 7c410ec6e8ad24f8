// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"errors"
	"math"
	"testing"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

// twocell holds two cells with 3000 and 2900 psi filled with one slightly compressible fluid
const twocell = `{
  "grid" : {
    "nx" : 2, "ny" : 1, "nz" : 1,
    "dx" : [100], "dy" : [100], "dz" : [20], "tops" : 5000,
    "kx" : [100], "ky" : [100], "kz" : [10], "poro" : [0.2]
  },
  "rock" : { "name" : "lin", "prms" : [ {"n":"pref", "v":14.7}, {"n":"cr", "v":3e-6} ] },
  "fluid" : { "comps" : ["oil"], "prms" : [ {"n":"nc", "v":1}, {"n":"cxi", "v":1e-5} ] },
  "init" : { "p" : [3000, 2900], "s" : [1] },
  "linsol" : { "name" : "dense" },
  "solver" : { %s },
  "stages" : [ { "tf" : %g, "dtout" : %g } ]
}`

// onewell holds one large cell with one producer whose rate target cannot be reached
// without violating its BHP bound
const onewell = `{
  "grid" : {
    "nx" : 1, "ny" : 1, "nz" : 1,
    "dx" : [1000], "dy" : [1000], "dz" : [100], "tops" : 5000,
    "kx" : [100], "ky" : [100], "kz" : [10], "poro" : [0.2]
  },
  "rock" : { "name" : "lin", "prms" : [ {"n":"pref", "v":14.7}, {"n":"cr", "v":3e-6} ] },
  "fluid" : { "comps" : ["oil"], "prms" : [ {"n":"nc", "v":1}, {"n":"cxi", "v":1e-5} ] },
  "init" : { "p" : [3000], "s" : [1] },
  "wells" : [
    { "name" : "P1", "type" : "prod", "perfs" : [ {"i":0, "j":0, "k":0, "wi":1} ],
      "ctrl" : { "mode" : "rate", "kind" : "orate", "rate" : 1000, "bhp" : 2500 } }
  ],
  "linsol" : { "name" : "dense" },
  "solver" : { "dt0" : 1, "dtmax" : 1 },
  "stages" : [ { "tf" : 6 } ]
}`

// threecell holds three cells with water and oil, one injector and one producer
const threecell = `{
  "grid" : {
    "nx" : 3, "ny" : 1, "nz" : 1,
    "dx" : [100], "dy" : [100], "dz" : [20], "tops" : 5000,
    "kx" : [200], "ky" : [200], "kz" : [20], "poro" : [0.25]
  },
  "rock" : { "name" : "lin", "prms" : [ {"n":"pref", "v":14.7}, {"n":"cr", "v":5e-6} ] },
  "fluid" : {
    "comps" : ["water", "oil"],
    "prms" : [
      {"n":"nc", "v":2}, {"n":"cxi", "v":1e-5}, {"n":"mu0", "v":0.5}, {"n":"cmu", "v":2e-5},
      {"n":"xi1", "v":2.5}, {"n":"mw1", "v":25}, {"n":"mu1", "v":3}, {"n":"pc1", "v":4}
    ]
  },
  "init" : { "p" : [3000, 2950, 2900], "s" : [0.3, 0.7] },
  "wells" : [
    { "name" : "INJ", "type" : "inj", "perfs" : [ {"i":0, "j":0, "k":0, "wi":20} ],
      "ctrl" : { "mode" : "rate", "kind" : "rate", "rate" : 300, "bhp" : 6000, "zinj" : [1, 0] } },
    { "name" : "PROD", "type" : "prod", "perfs" : [ {"i":2, "j":0, "k":0, "wi":2} ],
      "ctrl" : { "mode" : "bhp", "bhp" : 2000 } }
  ],
  "linsol" : { "name" : "dense" },
  "solver" : { "dt0" : 0.5, "dtmax" : 5 },
  "stages" : [ { "tf" : 20, "dtout" : 5 } ]
}`

// recorder records time steps
type recorder struct {
	reps     []*Report
	rejected []string
	dts      []float64 // rejected time steps
}

func (o *recorder) Accepted(rep *Report) { o.reps = append(o.reps, rep) }
func (o *recorder) Rejected(t, dt float64, reason string) {
	o.rejected = append(o.rejected, reason)
	o.dts = append(o.dts, dt)
}

// get_poro decodes txt and allocates a simulation
func get_poro(tst *testing.T, txt string, obs ...Observer) *Poro {
	sim, err := inp.Decode([]byte(txt))
	if err != nil {
		tst.Fatalf("Decode failed: %v\n", err)
	}
	p, err := NewPoro(sim, chk.Verbose, obs...)
	if err != nil {
		tst.Fatalf("NewPoro failed: %v\n", err)
	}
	return p
}

func sum(v []float64) (s float64) {
	for _, x := range v {
		s += x
	}
	return
}

func Test_poro01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro01. two cells: one short step")

	dt := 1e-3
	p := get_poro(tst, io.Sf(twocell, io.Sf(`"dt0" : %g, "tol" : 1e-9`, dt), dt, 0.0))
	d := p.Dom
	bk := d.Bulk
	n0 := sum(d.TotalMoles())

	err := p.Run()
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	chk.IntAssert(p.Ctrl.Step, 1)
	chk.IntAssert(p.Ctrl.Ncuts, 0)
	chk.Scalar(tst, "t", 1e-15, p.Ctrl.T, dt)

	c := bk.Cur
	io.Pforan("P = %v  iterations = %d\n", c.P, p.Newton.Iters)
	if !(c.P[0] < 3000) || !(c.P[1] > 2900) {
		tst.Errorf("pressures must approach each other: P = %v\n", c.P)
	}
	chk.Scalar(tst, "chop0", 1e-15, bk.Chop[0], 1)
	chk.Scalar(tst, "chop1", 1e-15, bk.Chop[1], 1)
	n1 := sum(d.TotalMoles())
	chk.Scalar(tst, "ΔN/N", 1e-8, (n1-n0)/n0, 0)

	// flow is symmetric and pressures change by a few psi
	dp0, dp1 := 3000-c.P[0], c.P[1]-2900
	if dp0 <= 0 || dp0 > 10 || dp1 <= 0 || dp1 > 10 {
		tst.Errorf("pressure changes are incorrect: %g, %g\n", dp0, dp1)
	}
}

func Test_poro02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro02. two cells: mass conservation, stops and bounds of time steps")

	rec := new(recorder)
	p := get_poro(tst, io.Sf(twocell, `"dt0" : 0.01, "dtmax" : 2, "tol" : 1e-8`, 10.0, 3.0), rec)
	d := p.Dom
	n0 := sum(d.TotalMoles())

	err := p.Run()
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "tf", 1e-15, p.Ctrl.T, 10)
	chk.IntAssert(len(rec.reps), p.Ctrl.Step)

	// time steps
	prms := &p.Sim.Solver
	var touts []float64
	var tsum float64
	for _, rep := range rec.reps {
		tsum += rep.Dt
		if rep.Dt < prms.DtMin || rep.Dt > prms.DtMax {
			tst.Errorf("step %d: dt = %g is out of bounds\n", rep.Step, rep.Dt)
		}
		if rep.Output {
			touts = append(touts, rep.T)
		}
		chk.Scalar(tst, "ΔN/N", 1e-8, (sum(rep.Ni)-n0)/n0, 0)
	}
	chk.Scalar(tst, "Σdt", 1e-12, tsum, 10)
	chk.Vector(tst, "touts", 1e-12, touts, []float64{3, 6, 9, 10})

	// equilibrium
	c := d.Bulk.Cur
	chk.Scalar(tst, "P0 - P1", 1e-3, c.P[0]-c.P[1], 0)
	chk.Scalar(tst, "ΔN/N", 1e-8, (sum(d.TotalMoles())-n0)/n0, 0)
}

func Test_poro03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro03. stops and increments")

	chk.Vector(tst, "stops", 1e-15, Stops(0, 10, 3), []float64{3, 6, 9, 10})
	chk.Vector(tst, "stops", 1e-15, Stops(0, 10, 5), []float64{5, 10})
	chk.Vector(tst, "stops", 1e-15, Stops(2, 10, 0), []float64{10})
	chk.Vector(tst, "stops", 1e-15, Stops(0, 1, 2), []float64{1})

	p := get_poro(tst, io.Sf(twocell, `"dtmin" : 0.01, "dtmax" : 5`, 10.0, 0.0))
	c := p.Ctrl

	c.T, c.Dt = 0, 4
	dt, last := c.increment(10, false)
	chk.Scalar(tst, "dt", 1e-15, dt, 4)
	if last {
		tst.Errorf("step must not be the last one\n")
	}

	c.T, c.Dt = 8, 1.995
	dt, last = c.increment(10, false)
	chk.Scalar(tst, "dt (halved remainder)", 1e-15, dt, 1)
	if last {
		tst.Errorf("step must not be the last one\n")
	}

	c.T, c.Dt = 8.995, 5
	dt, _ = c.increment(14, false)
	if dt > p.Sim.Solver.DtMax {
		tst.Errorf("dt = %g must not be larger than dtmax\n", dt)
	}
	chk.Scalar(tst, "dt (halved remainder at dtmax)", 1e-12, dt, 2.5025)

	c.T, c.Dt = 9.985, 0.01
	dt, last = c.increment(10, false)
	chk.Scalar(tst, "dt (stretched)", 1e-12, dt, 0.015)
	if !last {
		tst.Errorf("step must be the last one\n")
	}
	dt, last = c.increment(10, true)
	chk.Scalar(tst, "dt (cut: not stretched)", 1e-15, dt, 0.01)
	if last {
		tst.Errorf("cut step must not be the last one\n")
	}

	c.T, c.Dt = 9, 3
	dt, last = c.increment(10, false)
	chk.Scalar(tst, "dt (shortened)", 1e-15, dt, 1)
	if !last {
		tst.Errorf("step must be the last one\n")
	}

	// growth and limits
	prms := &p.Sim.Solver
	p.Newton.Iters = 1
	chk.Scalar(tst, "dtnew (no changes)", 1e-15, c.nextDt(0.1), 0.1*prms.MaxIncrease)
	chk.Scalar(tst, "dtnew (dtmax)", 1e-15, c.nextDt(4), prms.DtMax)
	p.Newton.Iters = prms.NRiterHigh
	chk.Scalar(tst, "dtnew (many iterations)", 1e-15, c.nextDt(1), 0.5)
	p.Newton.Iters = prms.NRiterLow + 1
	chk.Scalar(tst, "dtnew (some iterations)", 1e-15, c.nextDt(1), 1)
	p.Dom.Bulk.Cur.P[0] += 600
	chk.Scalar(tst, "dtnew (dP)", 1e-15, c.nextDt(1), 0.5)
	p.Dom.Bulk.Cur.P[0] += 6000
	chk.Scalar(tst, "dtnew (min change)", 1e-15, c.nextDt(1), prms.MinChange)
	p.Dom.Bulk.Restore()
}

func Test_poro04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro04. chop factor")

	dSmaxLim := 0.2
	s := []float64{0.05, 0.35, 0.6}
	exist := []bool{true, true, true}
	for _, ds := range [][]float64{
		{0, 0, 0},
		{0.01, -0.02, 0.01},
		{-0.04, 0.02, 0.02},
		{-0.5, 0.2, 0.3},
		{-0.06, 0.03, 0.03},
		{10, -30, 20},
		{1e-3, 5, -5.001},
		{-1e6, 1e6, 0},
	} {
		chop := Chop(s, ds, exist, dSmaxLim)
		if !(chop > 0) || chop > 1 {
			tst.Errorf("chop = %g must be in (0,1]\n", chop)
			continue
		}
		violated := false
		var snew float64
		for j := range s {
			if math.Abs(ds[j]) > dSmaxLim || s[j]+ds[j] < 0 {
				violated = true
			}
			v := s[j] + chop*ds[j]
			if v < 0 {
				tst.Errorf("saturation %d becomes negative: %g\n", j, v)
			}
			if math.Abs(chop*ds[j]) > dSmaxLim*(1+1e-14) {
				tst.Errorf("saturation change %d is too large: %g\n", j, chop*ds[j])
			}
			snew += v
		}
		if !violated {
			chk.Scalar(tst, "chop", 1e-15, chop, 1)
		} else if chop == 1 {
			tst.Errorf("chop must be smaller than 1 for ds = %v\n", ds)
		}
		chk.Scalar(tst, "Σs", 1e-12, snew, 1+chop*sum(ds))
		io.Pforan("ds = %v  chop = %g\n", ds, chop)
	}

	// phases that do not exist are ignored
	chk.Scalar(tst, "chop", 1e-15, Chop(s, []float64{-1, 0.5, 0.5}, []bool{false, true, true}, 1), 1)

	// updaters
	_, err := NewUpdater("chop", 0)
	if err == nil {
		tst.Errorf("chop updater with zero limit must fail\n")
	}
	_, err = NewUpdater("none", 1)
	if err == nil {
		tst.Errorf("unknown updater must fail\n")
	}
	_, err = NewAssembler("impes")
	if err == nil {
		tst.Errorf("unknown assembler must fail\n")
	}
}

func Test_poro05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro05. Jacobian of fully implicit method")

	p := get_poro(tst, threecell)
	d := p.Dom
	bk, ws := d.Bulk, d.Wells
	lay := bk.Lay
	nb, bs := lay.Nb, lay.Block()
	nw := ws.Nwells()
	dt := 0.5

	// analytical
	asm := p.Newton.Asm
	d.Prepare()
	asm.Residual(d, dt)
	J := d.Sys.J
	J.Zero()
	asm.Jacobian(d, dt, J)

	// numerical
	residual := func(m, col int, x float64) []float64 {
		d.restore()
		switch {
		case m >= nb:
			ws.Wells[m-nb].BHP = x
		case col == 0:
			bk.Cur.P[m] = x
			bk.Update()
		default:
			bk.Cur.Ni[lay.Comp(m, col-1)] = x
			bk.Update()
		}
		asm.Residual(d, dt)
		return d.Res
	}
	for n := 0; n < nb+nw; n++ {
		for _, m := range J.Cols[n] {
			for col := 0; col < bs; col++ {
				var x0 float64
				switch {
				case m >= nb:
					if col > 0 {
						continue
					}
					x0 = ws.Wells[m-nb].LastBHP()
				case col == 0:
					x0 = bk.Last.P[m]
				default:
					x0 = bk.Last.Ni[lay.Comp(m, col-1)]
				}
				h := 1e-6 * math.Abs(x0)
				rows := []int{0}
				if n < nb {
					rows = []int{0, 1, 2}
				}
				for _, r := range rows {
					dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
						return residual(m, col, x)[n*bs+r]
					}, x0, h)
					ana := J.Get(n, m, r, col)
					tol := 1e-6 * math.Max(1, math.Abs(ana))
					chk.AnaNum(tst, io.Sf("dR%d(%d)/dpri%d(%d)", r, n, col, m), tol, ana, dnum, chk.Verbose)
				}
			}
		}
	}
	d.restore()
}

func Test_poro06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro06. rollback is exact")

	p := get_poro(tst, threecell)
	d := p.Dom
	bk := d.Bulk
	saved := bulk.NewState(bk.Lay)
	saved.CopyFrom(bk.Cur)
	var bhps []float64
	for _, w := range d.Wells.Wells {
		bhps = append(bhps, w.BHP)
	}

	d.Prepare()
	converged, reason := p.Newton.Solve(2, 2)
	io.Pforan("converged = %v (%s) after %d iterations\n", converged, reason, p.Newton.Iters)
	if bk.Cur.Equal(saved) {
		tst.Errorf("state must have changed\n")
		return
	}

	d.restore()
	if !bk.Cur.Equal(saved) {
		tst.Errorf("restored state must be identical to the initial state\n")
	}
	for k, w := range d.Wells.Wells {
		if w.BHP != bhps[k] {
			tst.Errorf("BHP of well %q must be restored: %g != %g\n", w.Name, w.BHP, bhps[k])
		}
	}
}

func Test_poro07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro07. producer switches to bhp mode and stays there")

	rec := new(recorder)
	p := get_poro(tst, onewell, rec)
	err := p.Run()
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	chk.IntAssert(len(rec.reps), 6)
	chk.IntAssert(p.Ctrl.Nretries, 1)
	chk.IntAssert(p.Ctrl.Ncuts, 0)
	for _, rep := range rec.reps {
		w := rep.Wells[0]
		io.Pforan("t = %g  mode = %s  BHP = %g  rate = %g  P = %g\n", rep.T, w.Mode, w.BHP, w.Rate, rep.P[0])
		chk.StrAssert(w.Mode, "bhp")
		chk.Scalar(tst, "bhp", 1e-8, w.BHP, 2500)
		if w.Rate <= 400 || w.Rate >= 600 {
			tst.Errorf("rate at BHP bound is incorrect: %g\n", w.Rate)
		}
		if w.Qt[0] >= 0 {
			tst.Errorf("producer must remove moles: Qt = %v\n", w.Qt)
		}
	}
	chk.StrAssert(rec.rejected[0], "well controls changed")
}

func Test_poro08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro08. time step becomes too small")

	rec := new(recorder)
	p := get_poro(tst, io.Sf(twocell, `"cflmax" : 1e-12`, 1.0, 0.0), rec)
	err := p.Run()
	if err == nil {
		tst.Errorf("Run must fail\n")
		return
	}
	io.Pforan("%v\n", err)
	if !errors.Is(err, ErrStepTooSmall) {
		tst.Errorf("error must wrap ErrStepTooSmall\n")
	}
	var fe *FatalError
	if !errors.As(err, &fe) {
		tst.Errorf("error must be a FatalError\n")
		return
	}
	chk.Scalar(tst, "t", 1e-15, fe.T, 0)
	if fe.Dt*p.Sim.Solver.CutFac >= p.Sim.Solver.DtMin {
		tst.Errorf("last time step must be the one that could not be cut: %g\n", fe.Dt)
	}
	chk.IntAssert(len(rec.reps), 0)
	chk.IntAssert(len(rec.rejected), p.Ctrl.Ncuts)

	// state is the initial one
	c := p.Dom.Bulk.Cur
	chk.Vector(tst, "P", 1e-15, c.P, []float64{3000, 2900})
}

func Test_poro09(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro09. water flooding with two wells")

	rec := new(recorder)
	p := get_poro(tst, threecell, rec)
	err := p.Run()
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "tf", 1e-15, p.Ctrl.T, 20)

	np := p.Dom.Bulk.Lay.Np
	for _, rep := range rec.reps {
		for n := 0; n < p.Dom.Bulk.Lay.Nb; n++ {
			var ssum float64
			for j := 0; j < np; j++ {
				s := rep.S[n*np+j]
				if s < 0 || s > 1 {
					tst.Errorf("saturation out of bounds: %g\n", s)
				}
				ssum += s
			}
			chk.Scalar(tst, "Σs", 1e-12, ssum, 1)
		}
	}

	last := rec.reps[len(rec.reps)-1]
	inj, prd := last.Wells[0], last.Wells[1]
	io.Pforan("INJ:  mode = %s  BHP = %g  rate = %g\n", inj.Mode, inj.BHP, inj.Rate)
	io.Pforan("PROD: mode = %s  BHP = %g  rate = %g\n", prd.Mode, prd.BHP, prd.Rate)
	chk.StrAssert(inj.Mode, "rate")
	chk.Scalar(tst, "injection rate", 1e-2*300, inj.Rate, 300)
	chk.Scalar(tst, "production bhp", 1e-8, prd.BHP, 2000)
	if inj.Qt[0] <= 0 || inj.Qt[1] != 0 {
		tst.Errorf("injector must inject water only: %v\n", inj.Qt)
	}
	if prd.Qt[1] >= 0 {
		tst.Errorf("producer must produce oil: %v\n", prd.Qt)
	}

	// water saturation increases near the injector
	s0 := p.Dom.Bulk.Cur.S[0]
	if s0 <= 0.3 {
		tst.Errorf("water saturation near the injector must increase: %g\n", s0)
	}
}

func Test_poro10(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro10. persistent failures near the stop time")

	for _, cutfac := range []float64{0.3, 0.5, 0.8, 0.95} {
		io.Pf("cutfac = %g\n", cutfac)
		rec := new(recorder)
		solver := io.Sf(`"dt0" : 1, "dtmin" : 0.3, "dtmax" : 1, "cutfac" : %g, "cflmax" : 1e-12`, cutfac)
		p := get_poro(tst, io.Sf(twocell, solver, 1.0, 0.0), rec)
		err := p.Run()
		if !errors.Is(err, ErrStepTooSmall) {
			tst.Errorf("Run must fail with ErrStepTooSmall; got %v\n", err)
			return
		}
		chk.IntAssert(len(rec.reps), 0)
		if len(rec.dts) < 2 {
			tst.Errorf("there must be at least two rejected steps: %v\n", rec.dts)
			return
		}
		prms := &p.Sim.Solver
		for k, dt := range rec.dts {
			if dt < prms.DtMin || dt > prms.DtMax {
				tst.Errorf("dt = %g is out of [dtmin, dtmax]\n", dt)
			}
			if k > 0 && dt >= rec.dts[k-1] {
				tst.Errorf("time steps must decrease after cuts: %v\n", rec.dts)
				return
			}
		}
	}
}

func Test_poro11(tst *testing.T) {

	//verbose()
	chk.PrintTitle("poro11. chopped updates keep saturations bounded")

	p := get_poro(tst, threecell)
	bk := p.Dom.Bulk
	lay := bk.Lay
	bs := lay.Block()

	// large update: water is removed from odd cells and added to even cells
	u := make([]float64, len(p.Dom.Sys.U))
	for n := 0; n < lay.Nb; n++ {
		sgn := 1.0
		if n%2 == 1 {
			sgn = -1
		}
		u[n*bs] = sgn * 1000
		for i := 0; i < lay.Nc; i++ {
			u[n*bs+1+i] = float64(1-2*i) * sgn * 0.8 * bk.Cur.Ni[lay.Comp(n, i)]
		}
	}

	bk.ResetNR()
	p.Newton.Upd.Update(p.Dom, u)
	err := bk.Update()
	if err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}

	chopped := false
	for n := 0; n < lay.Nb; n++ {
		if bk.Chop[n] < 1 {
			chopped = true
		}
		var ssum float64
		for j := 0; j < lay.Np; j++ {
			s := bk.Cur.S[lay.Phase(n, j)]
			if s < 0 || s > 1 {
				tst.Errorf("saturation of phase %d in cell %d out of bounds: %g\n", j, n, s)
			}
			ssum += s
		}
		chk.Scalar(tst, io.Sf("Σs @ %d", n), 1e-12, ssum, 1)
	}
	if !chopped {
		tst.Errorf("update must be chopped\n")
	}

	// restore
	bk.Restore()
	chk.Vector(tst, "P", 1e-15, bk.Cur.P, []float64{3000, 2950, 2900})
}
