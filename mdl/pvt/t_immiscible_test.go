// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

func get_model(tst *testing.T, exp bool) Model {
	mdl, err := New("immiscible")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return nil
	}
	prms := mdl.GetPrms(true)
	if exp {
		prms = append(prms, &fun.Prm{N: "exp", V: 1})
	}
	err = mdl.Init(prms)
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return nil
	}
	return mdl
}

func Test_immisc01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("immisc01. flash and volumes")

	mdl := get_model(tst, false)
	if mdl == nil {
		return
	}
	chk.IntAssert(mdl.Nphases(), 2)
	chk.IntAssert(mdl.Ncomps(), 2)

	// moles filling 1000 ft³ with sw = 0.3 at 3000 psi
	p, vp := 3000.0, 1000.0
	ni := make([]float64, 2)
	err := mdl.InitMoles(ni, p, 0, vp, []float64{0.3, 0.7})
	if err != nil {
		tst.Errorf("InitMoles failed: %v\n", err)
		return
	}
	res := NewResult(2, 2)
	err = mdl.Flash(res, p, 0, ni, nil)
	if err != nil {
		tst.Errorf("Flash failed: %v\n", err)
		return
	}
	io.Pforan("ni = %v\n", ni)
	io.Pforan("S  = %v\n", res.S)
	chk.Scalar(tst, "Vf", 1e-10, res.Vf, vp)
	chk.Vector(tst, "S", 1e-14, res.S, []float64{0.3, 0.7})
	chk.Scalar(tst, "Pc1", 1e-12, res.Pc[1], 5*0.3)
	chk.Scalar(tst, "Nt", 1e-12, res.Nt, ni[0]+ni[1])
	if !res.Exist[0] || !res.Exist[1] {
		tst.Errorf("both phases must exist")
	}

	// absent phase
	err = mdl.Flash(res, p, 0, []float64{ni[0], 0}, nil)
	if err != nil {
		tst.Errorf("Flash failed: %v\n", err)
		return
	}
	chk.Vector(tst, "S (single)", 1e-15, res.S, []float64{1, 0})
	if res.Exist[1] {
		tst.Errorf("phase 1 must not exist")
	}

	// errors
	if err = mdl.Flash(res, p, 0, []float64{0, 0}, nil); err == nil {
		tst.Errorf("Flash must fail with zero moles")
	}
	if err = mdl.Flash(res, p, 0, []float64{-1, 0.5}, nil); err == nil {
		tst.Errorf("Flash must fail with negative total moles")
	}
}

func Test_immisc02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("immisc02. sensitivities")

	for _, exp := range []bool{false, true} {
		mdl := get_model(tst, exp)
		if mdl == nil {
			return
		}
		p, ni := 2500.0, []float64{400, 1800}
		res := NewResult(2, 2)
		err := mdl.Flash(res, p, 0, ni, nil)
		if err != nil {
			tst.Errorf("Flash failed: %v\n", err)
			return
		}

		// secondary variable from a new flash
		sec := func(x []float64, col, j, k int) float64 {
			r := NewResult(2, 2)
			pp, nn := p, []float64{ni[0], ni[1]}
			if col == 0 {
				pp = x[0]
			} else {
				nn[col-1] = x[0]
			}
			mdl.Flash(r, pp, 0, nn, nil)
			switch k {
			case SecS:
				return r.S[j]
			case SecXi:
				return r.Xi[j]
			case SecRho:
				return r.Rho[j]
			case SecMu:
				return r.Mu[j]
			case SecPc:
				return r.Pc[j]
			}
			return r.X[j][k-SecX]
		}
		pri := []float64{p, ni[0], ni[1]}
		for col := 0; col < 3; col++ {
			h := 1e-3
			if col == 0 {
				h = 1e-1
			}
			for j := 0; j < 2; j++ {
				for k := 0; k < res.Nsec(); k++ {
					dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
						return sec([]float64{x}, col, j, k)
					}, pri[col], h)
					chk.AnaNum(tst, io.Sf("exp=%v d(sec%d of phase %d)/d(pri%d)", exp, k, j, col), 1e-8, res.Dsec(j, k, col), dnum, chk.Verbose)
				}
			}
		}

		// fluid volume
		dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
			r := NewResult(2, 2)
			mdl.Flash(r, x, 0, ni, nil)
			return r.Vf
		}, p, 1e-1)
		chk.AnaNum(tst, "VfP", 1e-8, res.VfP, dnum, chk.Verbose)
		for i := 0; i < 2; i++ {
			dnum, _ = num.DerivCentral(func(x float64, args ...interface{}) float64 {
				r := NewResult(2, 2)
				nn := []float64{ni[0], ni[1]}
				nn[i] = x
				mdl.Flash(r, p, 0, nn, nil)
				return r.Vf
			}, ni[i], 1e-3)
			chk.AnaNum(tst, io.Sf("Vf%d", i), 1e-8, res.Vfi[i], dnum, chk.Verbose)
		}
	}
}

func Test_immisc03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("immisc03. mixture densities")

	mdl := get_model(tst, false)
	if mdl == nil {
		return
	}
	z := []float64{0.25, 0.75}
	p := 2000.0
	xi, dxi := mdl.MolarDensity(p, 0, z)
	dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
		v, _ := mdl.MolarDensity(x, 0, z)
		return v
	}, p, 1e-1)
	chk.AnaNum(tst, "dξ/dp", 1e-10, dxi, dnum, chk.Verbose)

	// pure component
	res := NewResult(2, 2)
	mdl.Flash(res, p, 0, []float64{1, 0}, nil)
	xi0, _ := mdl.MolarDensity(p, 0, []float64{1, 0})
	chk.Scalar(tst, "ξ pure", 1e-14, xi0, res.Xi[0])
	chk.Scalar(tst, "ρ pure", 1e-12, mdl.Density(p, 0, []float64{1, 0}), res.Rho[0])

	// mixture density is mass over volume
	mdl.Flash(res, p, 0, z, nil)
	mass := z[0]*18.015 + z[1]*18.23
	chk.Scalar(tst, "ρ mix", 1e-12, mdl.Density(p, 0, z), mass/res.Vf)
	chk.Scalar(tst, "ξ mix", 1e-12, xi, 1.0/res.Vf)

	// standard conditions
	chk.Scalar(tst, "std vol 0", 1e-14, mdl.StdMolarVolume(0), 1.0/3.466)
}
