// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pvt implements the contract with phase behaviour (flash) models and a reference
// immiscible slightly-compressible model
package pvt

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines phase behaviour models.
//  Note: all functions must be deterministic; i.e. identical inputs give identical outputs
type Model interface {
	Init(prms fun.Prms) error      // Init initialises model
	GetPrms(example bool) fun.Prms // gets (an example) of parameters
	Nphases() int                  // number of phases
	Ncomps() int                   // number of components

	// Flash computes phase equilibrium and all sensitivities at (p,t,ni).
	// shint holds saturations from the previous iterate and may be ignored
	Flash(res *Result, p, t float64, ni, shint []float64) error

	// InitMoles computes the moles that fill pore volume vp at (p,t) with saturations s
	InitMoles(ni []float64, p, t, vp float64, s []float64) error

	Density(p, t float64, z []float64) float64                 // mass density of mixture with composition z
	MolarDensity(p, t float64, z []float64) (xi, dxidp float64) // molar density of mixture with composition z
	StdMolarVolume(i int) float64                               // volume of one mole of component i at standard conditions
}

// New returns a new phase behaviour model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'pvt' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// secondary variables in each phase group of the sensitivity block
const (
	SecS   = iota // saturation
	SecXi         // molar density
	SecRho        // mass density
	SecMu         // viscosity
	SecPc         // capillary pressure
	SecX          // first mole fraction; x[i] is at SecX + i
)

// Result holds the output of one flash calculation.
//
//  The sensitivity block D holds ∂sec/∂pri with:
//     rows    = for each phase j: {S, ξ, ρ, μ, Pc, x0 ... x(nc-1)}   => np・(5+nc) rows
//     columns = {P, N0 ... N(nc-1)}                                 => 1+nc columns
//  stored row-major
type Result struct {
	Np, Nc int

	// phases
	Exist []bool      // [np] phase exists
	S     []float64   // [np] saturations
	Xi    []float64   // [np] molar densities [lbmol/ft³]
	Rho   []float64   // [np] mass densities [lbm/ft³]
	Mu    []float64   // [np] viscosities [cp]
	Pc    []float64   // [np] capillary pressures; phase pressure = P + Pc
	Vj    []float64   // [np] phase volumes [ft³]
	X     [][]float64 // [np][nc] mole fractions

	// fluid volume
	Nt  float64   // total moles
	Vf  float64   // fluid volume
	VfP float64   // ∂Vf/∂P
	Vfi []float64 // [nc] ∂Vf/∂Ni

	// sensitivities
	D []float64 // [np・(5+nc)・(1+nc)] ∂sec/∂pri
}

// NewResult allocates a new result
func NewResult(np, nc int) (o *Result) {
	o = new(Result)
	o.Np, o.Nc = np, nc
	o.Exist = make([]bool, np)
	o.S = make([]float64, np)
	o.Xi = make([]float64, np)
	o.Rho = make([]float64, np)
	o.Mu = make([]float64, np)
	o.Pc = make([]float64, np)
	o.Vj = make([]float64, np)
	o.X = make([][]float64, np)
	for j := 0; j < np; j++ {
		o.X[j] = make([]float64, nc)
	}
	o.Vfi = make([]float64, nc)
	o.D = make([]float64, o.Nrows()*(1+nc))
	return
}

// Nsec returns the number of secondary variables per phase
func (o *Result) Nsec() int { return 5 + o.Nc }

// Nrows returns the number of rows in sensitivity block
func (o *Result) Nrows() int { return o.Np * (5 + o.Nc) }

// Row returns the row of secondary variable sec of phase j
func (o *Result) Row(j, sec int) int { return j*(5+o.Nc) + sec }

// Dsec returns ∂sec/∂pri for phase j; col = 0 is P and col = 1+i is Ni
func (o *Result) Dsec(j, sec, col int) float64 {
	return o.D[o.Row(j, sec)*(1+o.Nc)+col]
}

// SetDsec sets ∂sec/∂pri for phase j
func (o *Result) SetDsec(j, sec, col int, val float64) {
	o.D[o.Row(j, sec)*(1+o.Nc)+col] = val
}

// Zero clears all values
func (o *Result) Zero() {
	for j := 0; j < o.Np; j++ {
		o.Exist[j] = false
		o.S[j], o.Xi[j], o.Rho[j], o.Mu[j], o.Pc[j], o.Vj[j] = 0, 0, 0, 0, 0, 0
		for i := 0; i < o.Nc; i++ {
			o.X[j][i] = 0
		}
	}
	for i := 0; i < o.Nc; i++ {
		o.Vfi[i] = 0
	}
	o.Nt, o.Vf, o.VfP = 0, 0, 0
	for k := range o.D {
		o.D[k] = 0
	}
}
