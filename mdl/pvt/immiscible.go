// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Immiscible implements a model with slightly compressible immiscible phases.
// Each component i forms its own phase i (np = nc).
//
//   linear:       ξ(p) = ξref・(1 + Cξ・(p - pref))
//   exponential:  ξ(p) = ξref・exp(Cξ・(p - pref))
//   ρ = Mw・ξ
//   μ = μref・(1 + Cμ・(p - pref))
//   Pc[j] = pc[j]・(1 - S[j])
//
type Immiscible struct {

	// parameters
	Nc   int       // number of components/phases
	Pref float64   // reference pressure [psi]
	Pstd float64   // standard pressure [psi]
	Exp  bool      // exponential ξ(p) instead of linear
	Xi0  []float64 // [nc] reference molar densities [lbmol/ft³]
	Cxi  []float64 // [nc] compressibilities [1/psi]
	Mw   []float64 // [nc] molecular weights [lbm/lbmol]
	Mu0  []float64 // [nc] reference viscosities [cp]
	Cmu  []float64 // [nc] viscosibilities [1/psi]
	Cpc  []float64 // [nc] capillary coefficients [psi]

	// scratch
	dvdp []float64 // [nc] ∂Vj/∂p
}

// add model to factory
func init() {
	allocators["immiscible"] = func() Model { return new(Immiscible) }
}

// Init initialises model
func (o *Immiscible) Init(prms fun.Prms) (err error) {

	// number of components
	for _, p := range prms {
		if p.N == "nc" {
			o.Nc = int(p.V)
		}
	}
	if o.Nc < 1 {
		return chk.Err("immiscible: parameter \"nc\" must be given and positive")
	}

	// defaults
	nc := o.Nc
	o.Pref, o.Pstd = 14.7, 14.7
	o.Xi0 = make([]float64, nc)
	o.Cxi = make([]float64, nc)
	o.Mw = make([]float64, nc)
	o.Mu0 = make([]float64, nc)
	o.Cmu = make([]float64, nc)
	o.Cpc = make([]float64, nc)
	o.dvdp = make([]float64, nc)
	for i := 0; i < nc; i++ {
		o.Xi0[i] = 3.466 // water at standard conditions
		o.Mw[i] = 18.015
		o.Mu0[i] = 1
	}

	// parameters
	for _, p := range prms {
		key, idx := splitKey(p.N)
		var arr []float64
		switch key {
		case "nc":
			continue
		case "pref":
			o.Pref = p.V
			continue
		case "pstd":
			o.Pstd = p.V
			continue
		case "exp":
			o.Exp = p.V > 0
			continue
		case "xi":
			arr = o.Xi0
		case "cxi":
			arr = o.Cxi
		case "mw":
			arr = o.Mw
		case "mu":
			arr = o.Mu0
		case "cmu":
			arr = o.Cmu
		case "pc":
			arr = o.Cpc
		default:
			return chk.Err("immiscible: parameter named %q is incorrect\n", p.N)
		}
		if idx < 0 {
			for i := range arr {
				arr[i] = p.V
			}
			continue
		}
		if idx >= nc {
			return chk.Err("immiscible: parameter %q refers to component %d but nc = %d", p.N, idx, nc)
		}
		arr[idx] = p.V
	}

	// check
	for i := 0; i < nc; i++ {
		if o.Xi0[i] <= 0 || o.Mw[i] <= 0 || o.Mu0[i] <= 0 || o.Cxi[i] < 0 {
			return chk.Err("immiscible: invalid data for component %d: xi=%g mw=%g mu=%g cxi=%g", i, o.Xi0[i], o.Mw[i], o.Mu0[i], o.Cxi[i])
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Immiscible) GetPrms(example bool) fun.Prms {
	if example {
		return fun.Prms{
			&fun.Prm{N: "nc", V: 2},
			&fun.Prm{N: "pref", V: 14.7},
			&fun.Prm{N: "xi0", V: 3.466},
			&fun.Prm{N: "xi1", V: 2.8},
			&fun.Prm{N: "cxi0", V: 3e-6},
			&fun.Prm{N: "cxi1", V: 1e-5},
			&fun.Prm{N: "mw0", V: 18.015},
			&fun.Prm{N: "mw1", V: 18.23},
			&fun.Prm{N: "mu0", V: 0.5},
			&fun.Prm{N: "mu1", V: 2},
			&fun.Prm{N: "cmu1", V: 1e-5},
			&fun.Prm{N: "pc1", V: 5},
		}
	}
	prms := fun.Prms{
		&fun.Prm{N: "nc", V: float64(o.Nc)},
		&fun.Prm{N: "pref", V: o.Pref},
		&fun.Prm{N: "pstd", V: o.Pstd},
	}
	if o.Exp {
		prms = append(prms, &fun.Prm{N: "exp", V: 1})
	}
	for i := 0; i < o.Nc; i++ {
		s := strconv.Itoa(i)
		prms = append(prms,
			&fun.Prm{N: "xi" + s, V: o.Xi0[i]},
			&fun.Prm{N: "cxi" + s, V: o.Cxi[i]},
			&fun.Prm{N: "mw" + s, V: o.Mw[i]},
			&fun.Prm{N: "mu" + s, V: o.Mu0[i]},
			&fun.Prm{N: "cmu" + s, V: o.Cmu[i]},
			&fun.Prm{N: "pc" + s, V: o.Cpc[i]},
		)
	}
	return prms
}

// Nphases returns the number of phases
func (o Immiscible) Nphases() int { return o.Nc }

// Ncomps returns the number of components
func (o Immiscible) Ncomps() int { return o.Nc }

// Flash computes phase equilibrium and sensitivities
func (o *Immiscible) Flash(res *Result, p, t float64, ni, shint []float64) (err error) {

	// check input
	nc := o.Nc
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return chk.Err("immiscible: pressure must be finite. p = %v", p)
	}
	res.Zero()
	for i := 0; i < nc; i++ {
		if math.IsNaN(ni[i]) || math.IsInf(ni[i], 0) {
			return chk.Err("immiscible: moles must be finite. n[%d] = %v", i, ni[i])
		}
		res.Nt += ni[i]
	}
	if res.Nt <= 0 {
		return chk.Err("immiscible: total number of moles must be positive. Nt = %g", res.Nt)
	}

	// phase volumes
	dvjdp := o.dvdp
	for j := 0; j < nc; j++ {
		xi, dxi := o.calcXi(j, p)
		if xi <= 0 {
			return chk.Err("immiscible: molar density of phase %d became non-positive at p = %g", j, p)
		}
		n := math.Max(ni[j], 0)
		res.Exist[j] = ni[j] > 0
		res.Xi[j] = xi
		res.Rho[j] = o.Mw[j] * xi
		res.Mu[j] = o.Mu0[j] * (1 + o.Cmu[j]*(p-o.Pref))
		res.X[j][j] = 1
		res.Vj[j] = n / xi
		res.Vfi[j] = 1 / xi
		res.Vf += res.Vj[j]
		dvjdp[j] = -n * dxi / (xi * xi)
		res.VfP += dvjdp[j]
		res.SetDsec(j, SecXi, 0, dxi)
		res.SetDsec(j, SecRho, 0, o.Mw[j]*dxi)
		res.SetDsec(j, SecMu, 0, o.Mu0[j]*o.Cmu[j])
		if res.Mu[j] <= 0 {
			return chk.Err("immiscible: viscosity of phase %d became non-positive at p = %g", j, p)
		}
	}

	// saturations
	vf := res.Vf
	for j := 0; j < nc; j++ {
		res.S[j] = res.Vj[j] / vf
		res.SetDsec(j, SecS, 0, (dvjdp[j]-res.S[j]*res.VfP)/vf)
		for k := 0; k < nc; k++ {
			dsdn := -res.S[j] * res.Vfi[k]
			if k == j {
				dsdn += res.Vfi[j]
			}
			res.SetDsec(j, SecS, 1+k, dsdn/vf)
		}
	}

	// capillary pressures
	for j := 0; j < nc; j++ {
		if o.Cpc[j] == 0 {
			continue
		}
		res.Pc[j] = o.Cpc[j] * (1 - res.S[j])
		for col := 0; col <= nc; col++ {
			res.SetDsec(j, SecPc, col, -o.Cpc[j]*res.Dsec(j, SecS, col))
		}
	}
	return
}

// InitMoles computes the moles that fill pore volume vp at (p,t) with saturations s
func (o *Immiscible) InitMoles(ni []float64, p, t, vp float64, s []float64) (err error) {
	for j := 0; j < o.Nc; j++ {
		xi, _ := o.calcXi(j, p)
		if xi <= 0 {
			return chk.Err("immiscible: molar density of phase %d is non-positive at p = %g", j, p)
		}
		ni[j] = s[j] * vp * xi
	}
	return
}

// Density returns the mass density of mixture with composition z
func (o *Immiscible) Density(p, t float64, z []float64) float64 {
	var mass, vol float64
	for i := 0; i < o.Nc; i++ {
		if z[i] <= 0 {
			continue
		}
		xi, _ := o.calcXi(i, p)
		mass += z[i] * o.Mw[i]
		vol += z[i] / xi
	}
	if vol <= 0 {
		return 0
	}
	return mass / vol
}

// MolarDensity returns the molar density of mixture with composition z and its derivative
func (o *Immiscible) MolarDensity(p, t float64, z []float64) (xi, dxidp float64) {
	var zt, vol, dvol float64
	for i := 0; i < o.Nc; i++ {
		if z[i] <= 0 {
			continue
		}
		x, dx := o.calcXi(i, p)
		zt += z[i]
		vol += z[i] / x
		dvol -= z[i] * dx / (x * x)
	}
	if vol <= 0 {
		return 0, 0
	}
	xi = zt / vol
	dxidp = -zt * dvol / (vol * vol)
	return
}

// StdMolarVolume returns the volume of one mole of component i at standard conditions [ft³/lbmol]
func (o *Immiscible) StdMolarVolume(i int) float64 {
	xi, _ := o.calcXi(i, o.Pstd)
	return 1.0 / xi
}

// calcXi computes molar density of phase j and its derivative
func (o *Immiscible) calcXi(j int, p float64) (xi, dxidp float64) {
	if o.Exp {
		xi = o.Xi0[j] * math.Exp(o.Cxi[j]*(p-o.Pref))
		return xi, o.Cxi[j] * xi
	}
	dxidp = o.Xi0[j] * o.Cxi[j]
	xi = o.Xi0[j] + dxidp*(p-o.Pref)
	return
}

// splitKey splits a parameter name such as "xi1" into ("xi", 1).
// A key without trailing digits returns idx = -1, meaning all components
func splitKey(name string) (key string, idx int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return strings.ToLower(name), -1
	}
	idx, _ = strconv.Atoi(name[i:])
	return strings.ToLower(name[:i]), idx
}
