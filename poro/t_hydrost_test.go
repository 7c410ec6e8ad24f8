// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"testing"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/ana"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/conn"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/pvt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// column holds a vertical column of three cells in hydrostatic equilibrium
const column = `{
  "grid" : {
    "nx" : 1, "ny" : 1, "nz" : 3,
    "dx" : [100], "dy" : [100], "dz" : [100], "tops" : 8000,
    "kx" : [100], "ky" : [100], "kz" : [10], "poro" : [0.2]
  },
  "rock" : { "name" : "lin", "prms" : [ {"n":"pref", "v":14.7}, {"n":"cr", "v":3e-6} ] },
  "fluid" : {
    "comps" : ["oil"],
    "prms" : [ {"n":"nc", "v":1}, {"n":"exp", "v":1}, {"n":"xi", "v":2.5}, {"n":"mw", "v":20}, {"n":"cxi", "v":1e-5} ]
  },
  "init" : { "hydrost" : true, "dref" : 8000, "pref" : 3500, "s" : [1] },
  "linsol" : { "name" : "dense" },
  "stages" : [ { "tf" : 1 } ]
}`

// get_column returns the analytical solution of column
func get_column(tst *testing.T) (sol ana.HydroColumn) {
	err := sol.Init(fun.Prms{
		&fun.Prm{N: "rho0", V: 50},
		&fun.Prm{N: "c", V: 1e-5},
		&fun.Prm{N: "p0", V: 14.7},
		&fun.Prm{N: "gamma", V: conn.GAMMA},
		&fun.Prm{N: "dd", V: 8000},
		&fun.Prm{N: "pd", V: 3500},
	})
	if err != nil {
		tst.Fatalf("HydroColumn.Init failed: %v\n", err)
	}
	return
}

func Test_hydrost01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydrost01. hydrostatic pressures versus analytical solution")

	model, err := pvt.New("immiscible")
	if err != nil {
		tst.Errorf("pvt.New failed: %v\n", err)
		return
	}
	err = model.Init(fun.Prms{
		&fun.Prm{N: "nc", V: 1},
		&fun.Prm{N: "exp", V: 1},
		&fun.Prm{N: "xi", V: 2.5},
		&fun.Prm{N: "mw", V: 20},
		&fun.Prm{N: "cxi", V: 1e-5},
	})
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	var hs HydroStatic
	hs.Init(model, 8000, 3500, 0, []float64{1})
	sol := get_column(tst)
	for _, d := range []float64{7000, 7900, 8000, 8050, 9000, 12000} {
		p, err := hs.Calc(d)
		if err != nil {
			tst.Errorf("Calc failed: %v\n", err)
			return
		}
		pana, _ := sol.Calc(d)
		io.Pforan("D = %6g  p = %.8f  ana = %.8f\n", d, p, pana)
		chk.Scalar(tst, io.Sf("p @ %g", d), 1e-2, p, pana)
	}
}

func Test_hydrost02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydrost02. initial state of column")

	p := get_poro(tst, column)
	bk := p.Dom.Bulk
	if p.Dom.HydSta == nil {
		tst.Errorf("hydrostatic condition must be allocated\n")
		return
	}
	sol := get_column(tst)
	for n, d := range bk.Depth {
		pana, _ := sol.Calc(d)
		chk.Scalar(tst, io.Sf("p%d", n), 1e-2, bk.Cur.P[n], pana)
	}
	if !(bk.Cur.P[0] < bk.Cur.P[1] && bk.Cur.P[1] < bk.Cur.P[2]) {
		tst.Errorf("pressures must increase with depth: %v\n", bk.Cur.P)
	}

	// the column is at rest
	err := p.Run()
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	for n, d := range bk.Depth {
		pana, _ := sol.Calc(d)
		chk.Scalar(tst, io.Sf("p%d(tf)", n), 1e-2, bk.Cur.P[n], pana)
	}
}
