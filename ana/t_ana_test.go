// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/gosl/plt"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_hydrocol01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydrocol01")

	var sol HydroColumn
	err := sol.Init(fun.Prms{
		&fun.Prm{N: "rho0", V: 50},
		&fun.Prm{N: "c", V: 1e-5},
		&fun.Prm{N: "p0", V: 14.7},
		&fun.Prm{N: "gamma", V: 1.0 / 144},
		&fun.Prm{N: "dd", V: 8000},
		&fun.Prm{N: "pd", V: 3500},
	})
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	// datum
	p, err := sol.Calc(8000)
	if err != nil {
		tst.Errorf("Calc failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "p(Dd)", 1e-10, p, 3500)

	// dp/dD = γ・ρ(p)
	for _, d := range []float64{7000, 7900, 8000, 8100, 9500} {
		dpdD, err := num.DerivCentral(func(x float64, args ...interface{}) float64 {
			res, _ := sol.Calc(x)
			return res
		}, d, 1e-1)
		if err != nil {
			tst.Errorf("DerivCentral failed: %v\n", err)
			return
		}
		p, _ := sol.Calc(d)
		chk.AnaNum(tst, io.Sf("dp/dD @ %g", d), 1e-8, sol.Gamma*sol.Density(p), dpdD, chk.Verbose)
	}

	// incompressible
	sol.C = 0
	p, _ = sol.Calc(8144)
	chk.Scalar(tst, "p(incompressible)", 1e-10, p, 3550)

	// errors
	err = sol.Init(fun.Prms{&fun.Prm{N: "rho", V: 1}})
	if err == nil {
		tst.Errorf("Init should have failed\n")
	}

	if chk.Verbose {
		sol.C = 1e-5
		sol.Plot(7000, 9000, 41, "'b-'")
		plt.SaveD("/tmp/goporo", "ana_hydrocol01.eps")
	}
}
