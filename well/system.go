// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"sort"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/linsys"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// System holds all wells
type System struct {
	Wells     []*Well     // all wells
	Lay       bulk.Layout // dimensions of cells
	Comps     []string    // names of components
	MaxSegLen float64     // max length of segments to compute dG
}

// NewSystem allocates all wells
func NewSystem(dat []*inp.WellData, bk *bulk.Bulk, comps []string) (o *System, err error) {
	o = &System{Lay: bk.Lay, Comps: comps, MaxSegLen: 10}
	names := make(map[string]bool)
	for i, wd := range dat {
		if names[wd.Name] {
			return nil, chk.Err("well name %q is repeated", wd.Name)
		}
		names[wd.Name] = true
		w, e := New(wd, i, bk, comps)
		if e != nil {
			return nil, e
		}
		o.Wells = append(o.Wells, w)
	}
	return
}

// Nwells returns the number of wells
func (o *System) Nwells() int { return len(o.Wells) }

// Find returns the well named name
//  Note: returns nil if not found
func (o *System) Find(name string) *Well {
	for _, w := range o.Wells {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// Pattern returns the block pattern of cells and wells given the pattern of cells
func (o *System) Pattern(cells [][]int) (pattern [][]int) {
	nb := o.Lay.Nb
	pattern = make([][]int, nb+len(o.Wells))
	for n := 0; n < nb; n++ {
		pattern[n] = append([]int(nil), cells[n]...)
	}
	for _, w := range o.Wells {
		for _, p := range w.Perfs {
			pattern[p.Cell] = append(pattern[p.Cell], w.Index)
			pattern[w.Index] = append(pattern[w.Index], p.Cell)
		}
	}
	for n := nb; n < len(pattern); n++ {
		sort.Ints(pattern[n])
	}
	return
}

// SetControl changes the control of well named name
func (o *System) SetControl(name string, dat *inp.ControlData, bk *bulk.Bulk) (err error) {
	w := o.Find(name)
	if w == nil {
		return chk.Err("cannot find well named %q", name)
	}
	wasOpen := w.Ctrl.Open
	err = w.SetControl(dat, bk, o.Comps)
	if err != nil {
		return
	}
	if !wasOpen && w.Ctrl.Open {
		for _, p := range w.Perfs {
			p.Open = true
		}
	}
	return
}

// InitBHP initialises the bottom-hole pressures of all wells
func (o *System) InitBHP(bk *bulk.Bulk) {
	for _, w := range o.Wells {
		w.InitBHP(bk)
		w.CalcDG(bk, o.MaxSegLen)
		w.Snapshot()
	}
}

// Prepare sets BHP targets and computes dG of all wells before a time step
func (o *System) Prepare(bk *bulk.Bulk) {
	for _, w := range o.Wells {
		if !w.Ctrl.Open {
			continue
		}
		if w.Ctrl.Mode == BhpMode {
			w.BHP = w.Ctrl.BHP
		}
		w.CalcDG(bk, o.MaxSegLen)
	}
}

// CalcFlux computes perforation fluxes and rates of all wells
func (o *System) CalcFlux(bk *bulk.Bulk) {
	for _, w := range o.Wells {
		w.CalcFlux(bk)
	}
}

// AddToRes adds the contributions of all wells to the residual
func (o *System) AddToRes(res []float64, dt float64) {
	bs := o.Lay.Block()
	for _, w := range o.Wells {
		w.AddToRes(res, bs, dt)
	}
}

// AddToJac adds the contributions of all wells to the Jacobian
func (o *System) AddToJac(J linsys.Adder, dt float64) {
	bs := o.Lay.Block()
	for _, w := range o.Wells {
		w.AddToJac(J, bs, dt)
	}
}

// AddCFL accumulates produced volumes of all wells
func (o *System) AddCFL(bk *bulk.Bulk, dt float64) {
	for _, w := range o.Wells {
		w.AddCFL(bk, dt)
	}
}

// ApplyUpdate updates bottom-hole pressures with the solution u of the linear system
func (o *System) ApplyUpdate(u []float64) {
	bs := o.Lay.Block()
	for _, w := range o.Wells {
		w.BHP += u[w.Index*bs]
	}
}

// CheckOptMode switches rate controlled wells violating their BHP bound to BHP control and
// BHP controlled wells exceeding their rate limit back to rate control. It returns true if
// any control changed
func (o *System) CheckOptMode() (changed bool) {
	for _, w := range o.Wells {
		c := &w.Ctrl
		if !c.Open {
			continue
		}
		switch c.Mode {
		case RateMode:
			violated := w.BHP < c.BHP
			if w.Type == Injector {
				violated = w.BHP > c.BHP
			}
			if violated {
				if io.Verbose {
					io.Pfyel("well %q: BHP = %g violates bound %g; switching to bhp mode\n", w.Name, w.BHP, c.BHP)
				}
				c.Mode = BhpMode
				changed = true
			}
		case BhpMode:
			if c.Rate > 0 && w.Rate > c.Rate {
				if io.Verbose {
					io.Pfyel("well %q: rate = %g exceeds %g; switching to rate mode\n", w.Name, w.Rate, c.Rate)
				}
				c.Mode = RateMode
				changed = true
			}
		}
	}
	return
}

// CheckCrossFlow closes perforations whose drawdown is reversed and reopens the others.
// The deepest perforation of each open well is never closed. It returns true if any
// perforation changed
func (o *System) CheckCrossFlow(bk *bulk.Bulk) (changed bool) {
	c := bk.Cur
	for _, w := range o.Wells {
		if !w.Ctrl.Open {
			continue
		}
		open := make([]bool, len(w.Perfs))
		nopen := 0
		for k, p := range w.Perfs {
			open[k] = c.P[p.Cell] >= p.Pperf
			if w.Type == Injector {
				open[k] = c.P[p.Cell] <= p.Pperf
			}
			if open[k] {
				nopen++
			}
		}
		if nopen == 0 {
			open[len(open)-1] = true
		}
		wchanged := false
		for k, p := range w.Perfs {
			if open[k] != p.Open {
				wchanged = true
				p.Open = open[k]
			}
		}
		if wchanged {
			changed = true
			if io.Verbose {
				io.Pfyel("well %q: crossflow check changed perforations\n", w.Name)
			}
		}
	}
	return
}

// Snapshot saves bottom-hole pressures and dG of all wells
func (o *System) Snapshot() {
	for _, w := range o.Wells {
		w.Snapshot()
	}
}

// Restore restores bottom-hole pressures and dG of all wells. Controls and perforation
// states are kept
func (o *System) Restore() {
	for _, w := range o.Wells {
		w.Restore()
	}
}

// Snapshot saves bottom-hole pressure, dG and the outflows of perforations
func (o *Well) Snapshot() {
	o.lastBHP = o.BHP
	for k, p := range o.Perfs {
		o.lastDG[k] = p.DG
		o.lastQout[k] = totalOut(p)
	}
}

// Restore restores bottom-hole pressure and dG
func (o *Well) Restore() {
	o.BHP = o.lastBHP
	for k, p := range o.Perfs {
		p.DG = o.lastDG[k]
		p.Pperf = o.BHP + p.DG
	}
}

// LastBHP returns the bottom-hole pressure of the last accepted step
func (o *Well) LastBHP() float64 { return o.lastBHP }
