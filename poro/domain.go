// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"math"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/conn"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/grid"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/linsys"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/krel"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/pvt"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/rock"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/well"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Domain holds all data of one reservoir: cells, connections, wells and the linear system
type Domain struct {

	// init: input data
	Sim *inp.Simulation // simulation data

	// init: derived
	Topo  *grid.Topology // active cells and their neighbours
	Bulk  *bulk.Bulk     // state of cells
	Graph *conn.Graph    // connections between cells
	Wells *well.System   // wells
	Comps []string       // names of components

	// linear system; one block per cell followed by one block per well
	Sys *linsys.System // J・u = -R
	Res []float64      // residual R

	// auxiliary
	HydSta *HydroStatic // hydrostatic equilibrium; nil if not used
}

// NewDomain allocates a new domain and sets the initial state
func NewDomain(sim *inp.Simulation) (o *Domain, err error) {

	// basic data
	o = new(Domain)
	o.Sim = sim

	// grid
	g := &sim.Grid
	o.Topo, err = grid.NewCartesian(&grid.Cartesian{
		Nx: g.Nx, Ny: g.Ny, Nz: g.Nz,
		Dx: g.Dx, Dy: g.Dy, Dz: g.Dz,
		Tops: g.Tops,
		Kx:   g.Kx, Ky: g.Ky, Kz: g.Kz,
		Ntg:  g.Ntg,
		Poro: g.Poro,
	})
	if err != nil {
		return nil, chk.Err("cannot generate grid:\n%v", err)
	}

	// models
	rk, err := rock.New(sim.Rock.Name)
	if err != nil {
		return
	}
	if err = rk.Init(sim.Rock.Prms); err != nil {
		return nil, chk.Err("cannot initialise rock model %q:\n%v", sim.Rock.Name, err)
	}
	pv, err := pvt.New(sim.Fluid.Name)
	if err != nil {
		return
	}
	if err = pv.Init(sim.Fluid.Prms); err != nil {
		return nil, chk.Err("cannot initialise fluid model %q:\n%v", sim.Fluid.Name, err)
	}
	kr, err := krel.New(sim.Krel.Name)
	if err != nil {
		return
	}
	if err = kr.Init(pv.Nphases(), sim.Krel.Prms); err != nil {
		return nil, chk.Err("cannot initialise relative permeability model %q:\n%v", sim.Krel.Name, err)
	}

	// components
	o.Comps = sim.Fluid.Comps
	if len(o.Comps) == 0 {
		for i := 0; i < pv.Ncomps(); i++ {
			o.Comps = append(o.Comps, io.Sf("c%d", i))
		}
	}
	if len(o.Comps) != pv.Ncomps() {
		return nil, chk.Err("number of component names (%d) must be equal to the number of components of fluid model (%d)", len(o.Comps), pv.Ncomps())
	}

	// bulk
	o.Bulk, err = bulk.NewBulk(o.Topo, rk, pv, kr)
	if err != nil {
		return
	}
	o.Bulk.NiNegTol = sim.Solver.NiNegTol

	// connections
	o.Graph, err = conn.New(o.Topo, o.Bulk.Lay)
	if err != nil {
		return
	}

	// wells
	o.Wells, err = well.NewSystem(sim.Wells, o.Bulk, o.Comps)
	if err != nil {
		return
	}

	// linear system
	backend, err := linsys.New(sim.LinSol.Name)
	if err != nil {
		return
	}
	if err = backend.Init(sim.LinSol.Prms()); err != nil {
		return nil, chk.Err("cannot initialise linear solver %q:\n%v", sim.LinSol.Name, err)
	}
	nblk, bs := o.Bulk.Lay.Nb+o.Wells.Nwells(), o.Bulk.Lay.Block()
	o.Sys, err = linsys.NewSystem(nblk, bs, o.Wells.Pattern(o.Graph.Nbs), backend)
	if err != nil {
		return
	}
	o.Res = make([]float64, nblk*bs)

	// initial values
	err = o.SetIniVals()
	return
}

// SetIniVals sets the initial state of cells and wells
func (o *Domain) SetIniVals() (err error) {
	ini := &o.Sim.Init
	bk := o.Bulk
	p := ini.P
	if ini.HydroSt {
		p, err = o.hydroPressures()
		if err != nil {
			return
		}
	}
	if len(p) == 0 {
		return chk.Err("initial pressures must be given unless the hydrostatic condition is used")
	}
	err = bk.InitState(p, o.Sim.Fluid.Temp, ini.S)
	if err != nil {
		return
	}
	o.Wells.InitBHP(bk)
	return
}

// SetStage applies changes of well controls given by stage
func (o *Domain) SetStage(stg *inp.Stage) (err error) {
	for _, wc := range stg.Wells {
		err = o.Wells.SetControl(wc.Name, &wc.Ctrl, o.Bulk)
		if err != nil {
			return chk.Err("cannot set control of well %q:\n%v", wc.Name, err)
		}
		if io.Verbose {
			io.Pfcyan("well %q: new control %+v\n", wc.Name, wc.Ctrl)
		}
	}
	return
}

// Prepare sets the well controls and the well-column pressure differences of a new step
func (o *Domain) Prepare() {
	o.Wells.Prepare(o.Bulk)
}

// backup saves the state of the last accepted step
func (o *Domain) backup() {
	o.Bulk.Snapshot()
	o.Wells.Snapshot()
}

// restore restores the state of the last accepted step
func (o *Domain) restore() {
	o.Bulk.Restore()
	o.Wells.Restore()
}

// TotalMoles returns the moles of each component summed over all cells
func (o *Domain) TotalMoles() (ntot []float64) {
	lay := o.Bulk.Lay
	ntot = make([]float64, lay.Nc)
	for n := 0; n < lay.Nb; n++ {
		for i := 0; i < lay.Nc; i++ {
			ntot[i] += o.Bulk.Cur.Ni[lay.Comp(n, i)]
		}
	}
	return
}

// wellsFinite returns whether all bottom-hole pressures are finite numbers
func (o *Domain) wellsFinite() bool {
	for _, w := range o.Wells.Wells {
		if math.IsNaN(w.BHP) || math.IsInf(w.BHP, 0) {
			return false
		}
	}
	return true
}

// hydroPressures computes the pressures of all cells in equilibrium with the column of the
// phase given in the initial data
func (o *Domain) hydroPressures() (p []float64, err error) {
	ini := &o.Sim.Init
	pv := o.Bulk.Pvt
	nc := pv.Ncomps()
	if ini.Phase < 0 || ini.Phase >= nc {
		return nil, chk.Err("phase of hydrostatic condition must be in [0, %d); got %d", nc, ini.Phase)
	}
	if ini.Pref <= 0 {
		return nil, chk.Err("reference pressure of hydrostatic condition must be positive; got %g", ini.Pref)
	}
	z := make([]float64, nc)
	z[ini.Phase] = 1
	o.HydSta = new(HydroStatic)
	o.HydSta.Init(pv, ini.Dref, ini.Pref, o.Sim.Fluid.Temp, z)
	p = make([]float64, o.Bulk.Lay.Nb)
	for n, d := range o.Bulk.Depth {
		p[n], err = o.HydSta.Calc(d)
		if err != nil {
			return nil, chk.Err("hydrost: cannot compute pressure of cell %d:\n%v", n, err)
		}
	}
	return
}
