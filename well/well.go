// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package well implements wells: perforations, bottom-hole pressure unknowns, controls and
// their contributions to the residual and Jacobian
package well

import (
	"math"
	"sort"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/conn"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/grid"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"

	"github.com/cpmech/gosl/chk"
)

// Type indicates whether a well injects or produces
type Type int

const (
	Producer Type = iota // production well
	Injector             // injection well
)

// Mode indicates the active control of a well
type Mode int

const (
	RateMode Mode = iota // rate is prescribed; BHP is bounded
	BhpMode              // BHP is prescribed; rate may be limited
)

// String returns the name of mode
func (m Mode) String() string {
	if m == BhpMode {
		return "bhp"
	}
	return "rate"
}

// default bounds of BHP
const (
	MinBHP = 14.7 // default lower bound of producers [psi]
	MaxBHP = 1e5  // default upper bound of injectors [psi]
)

// Control holds the active control of a well
type Control struct {
	Open bool      // well is open
	Mode Mode      // active mode
	Kind string    // rate kind
	Rate float64   // rate target (RateMode) or limit (BhpMode); 0 means no limit [ft³/day]
	BHP  float64   // BHP target (BhpMode) or bound (RateMode) [psi]
	Fac  []float64 // [nc] converts molar rates of components into the rate kind
	Zinj []float64 // [nc] injected composition (normalised)
}

// Perf holds one perforation
type Perf struct {
	Cell  int     // active cell
	Depth float64 // depth of perforation
	WI    float64 // well index
	Mult  float64 // multiplier
	Open  bool    // false if closed due to crossflow
	DG    float64 // Pperf - BHP
	Pperf float64 // perforation pressure

	// recomputed at each iteration
	Trans []float64 // [np] transmissibility WI・mult・λ
	Q     []float64 // [nc] molar rates into the cell
	DQ    []float64 // [nc・(1+nc)] ∂Q/∂pri of cell
	DQb   []float64 // [nc] ∂Q/∂BHP
}

// Well holds one well
type Well struct {
	Name  string    // name of well
	Type  Type      // producer or injector
	Index int       // index of well block in the linear system
	Dref  float64   // reference depth of BHP
	Perfs []*Perf   // perforations ordered by depth; shallowest first
	Ctrl  Control   // active control
	BHP   float64   // bottom-hole pressure
	Rate  float64   // rate in units of Ctrl.Kind; positive
	Qt    []float64 // [nc] total molar rates into the reservoir

	// derivatives of Rate
	dRate  []float64 // [nperf・(1+nc)] ∂Rate/∂pri of perforation cells
	dRateB float64   // ∂Rate/∂BHP

	// last accepted step
	lastBHP  float64
	lastDG   []float64
	lastQout []float64 // [nperf] total molar rates leaving the reservoir; weights of dG

	// scratch
	dlamt []float64 // [1+nc] ∂Σλ/∂pri
}

// IsProducer tells whether well produces
func (o *Well) IsProducer() bool { return o.Type == Producer }

// sign returns +1 for injectors and -1 for producers
func (o *Well) sign() float64 {
	if o.Type == Injector {
		return 1
	}
	return -1
}

// New allocates a new well
//  idx   -- index of this well; its block comes after all cells
//  comps -- names of components
func New(dat *inp.WellData, idx int, bk *bulk.Bulk, comps []string) (o *Well, err error) {

	// well
	o = new(Well)
	o.Name = dat.Name
	o.Index = bk.Lay.Nb + idx
	switch dat.Type {
	case "inj":
		o.Type = Injector
	case "prod":
		o.Type = Producer
	default:
		return nil, chk.Err("type of well %q is invalid: %q", dat.Name, dat.Type)
	}
	np, nc := bk.Lay.Np, bk.Lay.Nc
	o.Qt = make([]float64, nc)

	// perforations
	topo := bk.Topo
	seen := make(map[int]bool)
	for _, pd := range dat.Perfs {
		n, e := topo.Locate(pd.I, pd.J, pd.K)
		if e != nil {
			return nil, chk.Err("perforation of well %q is invalid:\n%v", dat.Name, e)
		}
		if seen[n] {
			return nil, chk.Err("well %q has more than one perforation in block (%d,%d,%d)", dat.Name, pd.I, pd.J, pd.K)
		}
		seen[n] = true
		p := &Perf{Cell: n, Depth: bk.Depth[n], WI: pd.WI, Mult: pd.Mult, Open: true}
		if p.Mult <= 0 {
			p.Mult = 1
		}
		if p.WI <= 0 {
			p.WI, err = Peaceman(topo.Cells[n], pd.Dir, dat.Rw, pd.Skin)
			if err != nil {
				return nil, chk.Err("cannot compute well index of well %q in block (%d,%d,%d):\n%v", dat.Name, pd.I, pd.J, pd.K, err)
			}
		}
		p.Trans = make([]float64, np)
		p.Q = make([]float64, nc)
		p.DQ = make([]float64, nc*(1+nc))
		p.DQb = make([]float64, nc)
		o.Perfs = append(o.Perfs, p)
	}
	if len(o.Perfs) == 0 {
		return nil, chk.Err("well %q has no perforations", dat.Name)
	}
	sort.SliceStable(o.Perfs, func(a, b int) bool { return o.Perfs[a].Depth < o.Perfs[b].Depth })
	o.Dref = dat.Dref
	if o.Dref <= 0 {
		o.Dref = o.Perfs[0].Depth
	}
	o.dRate = make([]float64, len(o.Perfs)*(1+nc))
	o.lastDG = make([]float64, len(o.Perfs))
	o.lastQout = make([]float64, len(o.Perfs))

	// control
	err = o.SetControl(&dat.Ctrl, bk, comps)
	return
}

// SetControl sets the active control of well
func (o *Well) SetControl(dat *inp.ControlData, bk *bulk.Bulk, comps []string) (err error) {
	nc := bk.Lay.Nc
	c := Control{Open: !dat.Shut, Kind: dat.Kind, Rate: dat.Rate, BHP: dat.BHP}
	if dat.Mode == "bhp" {
		c.Mode = BhpMode
	}
	if c.BHP <= 0 {
		c.BHP = MinBHP
		if o.Type == Injector {
			c.BHP = MaxBHP
		}
		if c.Mode == BhpMode && c.Open {
			return chk.Err("well %q in bhp mode requires a positive BHP", o.Name)
		}
	}

	// injected composition
	if o.Type == Injector {
		c.Zinj = make([]float64, nc)
		if len(dat.Zinj) > 0 {
			if len(dat.Zinj) != nc {
				return chk.Err("injected composition of well %q must have %d values; got %d", o.Name, nc, len(dat.Zinj))
			}
			var sum float64
			for _, z := range dat.Zinj {
				if z < 0 {
					return chk.Err("injected composition of well %q has negative values: %v", o.Name, dat.Zinj)
				}
				sum += z
			}
			if sum <= 0 {
				return chk.Err("injected composition of well %q must not be all zero", o.Name)
			}
			for i, z := range dat.Zinj {
				c.Zinj[i] = z / sum
			}
		} else if c.Open {
			return chk.Err("injected composition of well %q must be given", o.Name)
		}
	}

	// conversion factors
	c.Fac = make([]float64, nc)
	var names []string
	switch c.Kind {
	case "", "rate":
		c.Kind = "rate"
	case "orate":
		names = []string{"oil"}
	case "wrate":
		names = []string{"water"}
	case "grate":
		names = []string{"gas"}
	case "lrate":
		names = []string{"oil", "water"}
	default:
		return chk.Err("rate kind of well %q is invalid: %q", o.Name, c.Kind)
	}
	if names == nil {
		for i := 0; i < nc; i++ {
			c.Fac[i] = bk.Pvt.StdMolarVolume(i)
		}
	} else {
		for _, name := range names {
			i := indexOf(comps, name)
			if i < 0 || i >= nc {
				return chk.Err("rate kind %q of well %q requires a component named %q; components = %v", c.Kind, o.Name, name, comps)
			}
			c.Fac[i] = bk.Pvt.StdMolarVolume(i)
		}
	}
	o.Ctrl = c
	return
}

// InitBHP sets the initial bottom-hole pressure from the pressure of the shallowest perforation
// cell or from the BHP target
func (o *Well) InitBHP(bk *bulk.Bulk) {
	o.BHP = bk.Cur.P[o.Perfs[0].Cell]
	if o.Ctrl.Open && o.Ctrl.Mode == BhpMode {
		o.BHP = o.Ctrl.BHP
	}
	o.lastBHP = o.BHP
}

// Peaceman computes the well index of a well through cell along dir
//   WI = 2π・conv・√(k1・k2)・h / (ln(ro/rw) + skin)
//   ro = 0.28・√(√(k2/k1)・d1² + √(k1/k2)・d2²) / ((k2/k1)^¼ + (k1/k2)^¼)
func Peaceman(c grid.Cell, dir string, rw, skin float64) (wi float64, err error) {
	var k1, k2, d1, d2, h float64
	switch dir {
	case "x":
		k1, k2, d1, d2, h = c.Ky, c.Kz, c.Dy, c.Dz, c.Dx
	case "y":
		k1, k2, d1, d2, h = c.Kx, c.Kz, c.Dx, c.Dz, c.Dy
	case "", "z":
		k1, k2, d1, d2, h = c.Kx, c.Ky, c.Dx, c.Dy, c.Dz*c.Ntg
	default:
		return 0, chk.Err("direction must be \"x\", \"y\" or \"z\"; got %q", dir)
	}
	if k1 <= 0 || k2 <= 0 || rw <= 0 {
		return 0, chk.Err("permeabilities and wellbore radius must be positive: k1=%g k2=%g rw=%g", k1, k2, rw)
	}
	ro := 0.28 * math.Sqrt(math.Sqrt(k2/k1)*d1*d1+math.Sqrt(k1/k2)*d2*d2) /
		(math.Pow(k2/k1, 0.25) + math.Pow(k1/k2, 0.25))
	den := math.Log(ro/rw) + skin
	if den <= 0 {
		return 0, chk.Err("ln(ro/rw) + skin must be positive; ro=%g rw=%g skin=%g", ro, rw, skin)
	}
	wi = 2 * math.Pi * conn.DARCY * math.Sqrt(k1*k2) * h / den
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// indexOf returns the index of name in names or -1
func indexOf(names []string, name string) int {
	for i, s := range names {
		if s == name {
			return i
		}
	}
	return -1
}
