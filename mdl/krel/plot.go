// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krel

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// Curves computes the relative permeabilities of a two-phase model for npts saturations of
// phase 0 in [0, 1]
func Curves(mdl Model, npts int) (S0, Kr0, Kr1 []float64, err error) {
	if npts < 2 {
		return nil, nil, nil, chk.Err("number of points must be at least 2; npts = %d", npts)
	}
	S0 = utl.LinSpace(0, 1, npts)
	Kr0 = make([]float64, npts)
	Kr1 = make([]float64, npts)
	kr, dkr := make([]float64, 2), make([]float64, 2)
	for i, s := range S0 {
		mdl.Calc([]float64{s, 1 - s}, kr, dkr)
		Kr0[i], Kr1[i] = kr[0], kr[1]
	}
	return
}

// Plot plots the relative permeabilities of a two-phase model
//  args0 -- arguments for phase 0; e.g. "'b-'"
//  args1 -- arguments for phase 1; e.g. "'r-'"
func Plot(mdl Model, npts int, args0, args1, label string) (err error) {
	S0, Kr0, Kr1, err := Curves(mdl, npts)
	if err != nil {
		return
	}
	plt.Plot(S0, Kr0, io.Sf("%s, label='%s_0', clip_on=0", args0, label))
	plt.Plot(S0, Kr1, io.Sf("%s, label='%s_1', clip_on=0", args1, label))
	return
}

// PlotEnd ends plot and show figure, if show==true
func PlotEnd(show bool) {
	plt.AxisYrange(0, 1)
	plt.Gll("$s_0$", "$k_r$", "")
	if show {
		plt.Show()
	}
}
