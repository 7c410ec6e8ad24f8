// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

// Observer receives the results of time steps
type Observer interface {
	Accepted(rep *Report)                  // called after each accepted step
	Rejected(t, dt float64, reason string) // called after each rejected or repeated attempt
}

// Report holds the results of one accepted time step. All slices are copies
type Report struct {
	Step   int           // index of step; first is 1
	T      float64       // time at the end of step
	Dt     float64       // size of step
	Iters  int           // Newton iterations
	LinIts int           // iterations of linear solver
	Cuts   int           // number of cuts before acceptance
	Output bool          // step ends at an output time
	Resids []float64     // largest residual at each iteration
	DPmax  float64       // largest pressure change
	DSmax  float64       // largest saturation change
	DNmax  float64       // largest relative moles change
	EVmax  float64       // largest relative volume error
	CFL    float64       // largest CFL number
	P      []float64     // [nb] pressures
	S      []float64     // [nb・np] saturations
	Ni     []float64     // [nb・nc] moles
	Wells  []*WellReport // wells
}

// WellReport holds the results of one well
type WellReport struct {
	Name string    // name
	Open bool      // well is open
	Mode string    // active mode
	BHP  float64   // bottom-hole pressure
	Rate float64   // rate in units of control
	Qt   []float64 // [nc] molar rates into the reservoir
}
