// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bulk

import "math"

// Layout holds the dimensions of the cell arrays and computes indices into them
type Layout struct {
	Nb int // number of cells (bulks)
	Np int // number of phases
	Nc int // number of components
}

// Block returns the number of primary unknowns per cell: P and Ni
func (o Layout) Block() int { return 1 + o.Nc }

// Nsec returns the number of rows of the sensitivity block of one cell
func (o Layout) Nsec() int { return o.Np * (5 + o.Nc) }

// Phase returns the index of phase j of cell n
func (o Layout) Phase(n, j int) int { return n*o.Np + j }

// Comp returns the index of component i of cell n
func (o Layout) Comp(n, i int) int { return n*o.Nc + i }

// PhaseComp returns the index of component i in phase j of cell n
func (o Layout) PhaseComp(n, j, i int) int { return (n*o.Np+j)*o.Nc + i }

// PhasePri returns the index of primary variable col (0=P, 1+i=Ni) of phase j of cell n
func (o Layout) PhasePri(n, j, col int) int { return (n*o.Np+j)*(1+o.Nc) + col }

// Sec returns the index of ∂sec/∂pri in the flattened sensitivity blocks
func (o Layout) Sec(n, j, sec, col int) int {
	return ((n*o.Nsec())+j*(5+o.Nc)+sec)*(1+o.Nc) + col
}

// State holds all mutable data of cells. All float fields are views into one buffer and all
// flags are views into one boolean array; thus copying a state takes two bulk copies
type State struct {
	Lay Layout

	// primary
	P  []float64 // [nb] pressure [psi]
	T  []float64 // [nb] temperature
	Ni []float64 // [nb・nc] moles of components [lbmol]

	// volumes
	Nt  []float64 // [nb] total moles
	Vp  []float64 // [nb] pore volume [ft³]
	VpP []float64 // [nb] ∂Vp/∂P
	Vf  []float64 // [nb] fluid volume [ft³]
	VfP []float64 // [nb] ∂Vf/∂P
	Vfi []float64 // [nb・nc] ∂Vf/∂Ni

	// phases
	S   []float64 // [nb・np] saturation
	Xi  []float64 // [nb・np] molar density
	Rho []float64 // [nb・np] mass density
	Mu  []float64 // [nb・np] viscosity
	Pc  []float64 // [nb・np] capillary pressure
	Vj  []float64 // [nb・np] phase volume
	Kr  []float64 // [nb・np] relative permeability
	Dkr []float64 // [nb・np] dkr/dS
	Lam []float64 // [nb・np] mobility kr/μ
	X   []float64 // [nb・np・nc] mole fractions

	// sensitivities
	Dsec []float64 // [nb・np(5+nc)・(1+nc)] ∂sec/∂pri
	Dlam []float64 // [nb・np・(1+nc)] ∂λ/∂pri

	// flags
	Exist []bool // [nb・np] phase exists

	// arenas
	buf  []float64
	flag []bool
}

// NewState allocates a new state
func NewState(lay Layout) (o *State) {
	o = new(State)
	o.Lay = lay
	nb, np, nc := lay.Nb, lay.Np, lay.Nc
	sizes := []struct {
		ptr *[]float64
		n   int
	}{
		{&o.P, nb}, {&o.T, nb}, {&o.Ni, nb * nc},
		{&o.Nt, nb}, {&o.Vp, nb}, {&o.VpP, nb}, {&o.Vf, nb}, {&o.VfP, nb}, {&o.Vfi, nb * nc},
		{&o.S, nb * np}, {&o.Xi, nb * np}, {&o.Rho, nb * np}, {&o.Mu, nb * np}, {&o.Pc, nb * np},
		{&o.Vj, nb * np}, {&o.Kr, nb * np}, {&o.Dkr, nb * np}, {&o.Lam, nb * np},
		{&o.X, nb * np * nc},
		{&o.Dsec, nb * lay.Nsec() * (1 + nc)}, {&o.Dlam, nb * np * (1 + nc)},
	}
	ntot := 0
	for _, s := range sizes {
		ntot += s.n
	}
	o.buf = make([]float64, ntot)
	start := 0
	for _, s := range sizes {
		*s.ptr = o.buf[start : start+s.n : start+s.n]
		start += s.n
	}
	o.flag = make([]bool, nb*np)
	o.Exist = o.flag
	return
}

// CopyFrom copies all data from another state with the same layout
func (o *State) CopyFrom(src *State) {
	copy(o.buf, src.buf)
	copy(o.flag, src.flag)
}

// Equal returns whether all data in both states is bitwise identical
func (o *State) Equal(other *State) bool {
	if len(o.buf) != len(other.buf) || len(o.flag) != len(other.flag) {
		return false
	}
	for k, v := range o.buf {
		if math.Float64bits(v) != math.Float64bits(other.buf[k]) {
			return false
		}
	}
	for k, v := range o.flag {
		if v != other.flag[k] {
			return false
		}
	}
	return true
}

// Len returns the number of values in the float arena
func (o *State) Len() int { return len(o.buf) }
